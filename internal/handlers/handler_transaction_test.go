package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func postingRequestBody() map[string]any {
	return map[string]any{
		"fromOwnerID": "main",
		"toOwnerID":   "client",
		"amount":      "1500.00",
		"category":    "DEPOSIT",
		"transType":   "CHEQUE",
		"particulars": "Retainer",
		"voucherNo":   "v-100",
		"instruments": []map[string]string{{"instrumentType": "CHEQUE", "instrumentNo": "chq-9"}},
	}
}

func postedTransaction() *domain.Transaction {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		TransactionID: 7,
		VoucherNo:     "V-100",
		Category:      domain.CategoryDeposit,
		Method:        domain.MethodDeposit,
		TransType:     domain.InstrumentCheque,
		FromOwnerID:   "main",
		ToOwnerID:     "client",
		Amount:        decimal.RequireFromString("1500.00"),
		IsPosted:      true,
		PostedAt:      &now,
		Attachments: []domain.TransactionAttachment{
			{AttachmentID: 3, TransactionID: 7, AttachmentType: domain.AttachmentVoucher, FileName: "v.png", MimeType: "image/png"},
		},
		LedgerEntries: []domain.OwnerLedgerEntry{
			{EntryID: 1, OwnerID: "main", TransactionID: 7, Debit: decimal.RequireFromString("1500"), RunningBalance: decimal.RequireFromString("1500")},
			{EntryID: 2, OwnerID: "client", TransactionID: 7, Credit: decimal.RequireFromString("1500"), RunningBalance: decimal.RequireFromString("1500")},
		},
	}
}

func (suite *HandlerTestSuite) TestPostTransaction_JSON() {
	suite.mockTransactionService.On("PostTransaction", mock.Anything, mock.MatchedBy(func(req dto.PostTransactionRequest) bool {
		return req.Amount != nil && req.Amount.Equal(decimal.RequireFromString("1500")) &&
			req.Category == domain.CategoryDeposit &&
			len(req.Instruments) == 1 && req.Instruments[0].InstrumentNo == "chq-9"
	}), testActorID).Return(postedTransaction(), nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/transactions", postingRequestBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.TransactionID)
	suite.True(resp.IsPosted)
	suite.Len(resp.LedgerEntries, 2)
	suite.Equal("/transactions/7/attachments/3", resp.Attachments[0].URL)
}

func (suite *HandlerTestSuite) TestPostTransaction_MissingRequiredFields() {
	w := suite.serveJSON(http.MethodPost, "/api/v1/transactions", map[string]any{"fromOwnerID": "main", "category": "GIFT"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.ElementsMatch(
		[]string{"toOwnerID", "amount", "category", "transType", "particulars"},
		suite.fieldNames(suite.decodeError(w)),
	)
}

func (suite *HandlerTestSuite) TestPostTransaction_Multipart() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	payload, err := json.Marshal(postingRequestBody())
	suite.Require().NoError(err)
	suite.Require().NoError(mw.WriteField("payload", string(payload)))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="voucher"; filename="voucher.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	suite.Require().NoError(err)
	_, _ = part.Write(pngHeader)

	pdf, err := mw.CreateFormFile("supporting", "deposit.pdf")
	suite.Require().NoError(err)
	_, _ = pdf.Write([]byte("%PDF-1.4\n"))
	suite.Require().NoError(mw.Close())

	suite.mockTransactionService.On("PostTransaction", mock.Anything, mock.MatchedBy(func(req dto.PostTransactionRequest) bool {
		if len(req.Attachments) != 2 {
			return false
		}
		voucher, supporting := req.Attachments[0], req.Attachments[1]
		return voucher.Kind == domain.AttachmentVoucher && voucher.MimeType == "image/png" && bytes.Equal(voucher.Content, pngHeader) &&
			supporting.Kind == domain.AttachmentSupporting && supporting.MimeType == "application/pdf" && supporting.FileName == "deposit.pdf"
	}), testActorID).Return(postedTransaction(), nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/transactions", &buf, mw.FormDataContentType(), middleware.RoleAccountant)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestPostTransaction_MultipartWithoutPayload() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	suite.Require().NoError(mw.WriteField("note", "nothing here"))
	suite.Require().NoError(mw.Close())

	w := suite.serve(http.MethodPost, "/api/v1/transactions", &buf, mw.FormDataContentType(), middleware.RoleAccountant)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) multipartPosting(files map[string][][]byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	payload, err := json.Marshal(postingRequestBody())
	suite.Require().NoError(err)
	suite.Require().NoError(mw.WriteField("payload", string(payload)))
	for field, contents := range files {
		for i, content := range contents {
			part, err := mw.CreateFormFile(field, fmt.Sprintf("%s-%d.pdf", field, i))
			suite.Require().NoError(err)
			_, _ = part.Write(content)
		}
	}
	suite.Require().NoError(mw.Close())
	return &buf, mw.FormDataContentType()
}

func (suite *HandlerTestSuite) TestPostTransaction_MultipartTooManyFiles() {
	pdf := []byte("%PDF-1.4\n")
	body, contentType := suite.multipartPosting(map[string][][]byte{
		"supporting": {pdf, pdf, pdf, pdf, pdf},
		"files":      {pdf, pdf, pdf, pdf},
	})

	w := suite.serve(http.MethodPost, "/api/v1/transactions", body, contentType, middleware.RoleAccountant)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"attachments"}, suite.fieldNames(suite.decodeError(w)))
	suite.mockTransactionService.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPostTransaction_MultipartBodyTooLarge() {
	// one part larger than every file slot combined
	oversized := bytes.Repeat([]byte("x"), int(suite.cfg.MaxAttachmentBytes)*9+(2<<20))
	body, contentType := suite.multipartPosting(map[string][][]byte{"files": {oversized}})

	w := suite.serve(http.MethodPost, "/api/v1/transactions", body, contentType, middleware.RoleAccountant)

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPostTransaction_ErrorMapping() {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewValidationError("amount", "amount must be positive"), http.StatusUnprocessableEntity},
		{apperrors.NewConflictError("voucherNo", "voucher number already exists"), http.StatusConflict},
		{fmt.Errorf("failed to load owner: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.NewStorageError("put voucher.png", errors.New("bucket unavailable")), http.StatusBadGateway},
		{apperrors.NewIntegrityFailure("general ledger entries do not balance", nil), http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.mockTransactionService.On("PostTransaction", mock.Anything, mock.Anything, testActorID).Return(nil, tc.err).Once()

		w := suite.serveJSON(http.MethodPost, "/api/v1/transactions", postingRequestBody())

		suite.Equal(tc.status, w.Code, tc.err.Error())
	}
}

func (suite *HandlerTestSuite) TestGetTransaction_InvalidID() {
	w := suite.serveJSON(http.MethodGet, "/api/v1/transactions/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetTransaction() {
	suite.mockTransactionService.On("GetTransaction", mock.Anything, int64(7)).Return(postedTransaction(), nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/transactions/7", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListTransactions_PassesCursor() {
	token := "abc"
	next := "def"
	suite.mockTransactionService.On("ListTransactions", mock.Anything, dto.ListTransactionsParams{OwnerID: "client", Limit: 5, NextToken: &token}).
		Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}, NextToken: &next}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/transactions?ownerID=client&limit=5&nextToken=abc", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("def", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestGetAttachment_RoleGate() {
	w := suite.serve(http.MethodGet, "/api/v1/transactions/7/attachments/3", nil, "", "viewer")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "OpenAttachment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetAttachment_Streams() {
	att := &domain.TransactionAttachment{AttachmentID: 3, TransactionID: 7, FileName: "voucher.png", MimeType: "image/png", SizeBytes: int64(len(pngHeader))}
	suite.mockTransactionService.On("OpenAttachment", mock.Anything, int64(7), int64(3)).
		Return(att, io.NopCloser(bytes.NewReader(pngHeader)), nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/transactions/7/attachments/3", nil, "", middleware.RoleAdmin)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("image/png", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), `filename=voucher.png`)
	suite.Equal(pngHeader, w.Body.Bytes())
}
