package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Multipart form fields accepted by POST /transactions.
const (
	formPayload    = "payload"
	formVoucher    = "voucher"
	formSupporting = "supporting"
	formFiles      = "files"
)

// A posting carries at most maxUploadParts files. The whole multipart body is
// capped at maxUploadParts files of the per-file limit plus multipartOverhead.
const (
	maxUploadParts    = 8
	multipartOverhead = 1 << 20
)

// uploadFields fixes the order files are appended in; "files" parts get their kind from the service.
var uploadFields = []struct {
	field string
	kind  domain.AttachmentKind
}{
	{formVoucher, domain.AttachmentVoucher},
	{formSupporting, domain.AttachmentSupporting},
	{formFiles, ""},
}

// transactionHandler handles recording, posting and reading transactions.
type transactionHandler struct {
	baseHandler
	transactionService portssvc.TransactionSvcFacade
	maxAttachmentBytes int64
}

func newTransactionHandler(base baseHandler, ts portssvc.TransactionSvcFacade, maxAttachmentBytes int64) *transactionHandler {
	return &transactionHandler{
		baseHandler:        base,
		transactionService: ts,
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

// registerTransactionRoutes registers routes related to transactions.
// Attachment downloads are limited to accountants and admins.
func registerTransactionRoutes(rg *gin.RouterGroup, base baseHandler, ts portssvc.TransactionSvcFacade, maxAttachmentBytes int64) {
	h := newTransactionHandler(base, ts, maxAttachmentBytes)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.postTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.GET("/:transactionID/attachments/:attachmentID",
			middleware.RequireRoles(middleware.RoleAccountant, middleware.RoleAdmin),
			h.getAttachment)
	}
}

// postTransaction godoc
// @Summary Record and post a transaction
// @Description Validates the transfer, stores attachments and posts general-ledger and owner ledger entries atomically.
// @Description Accepts application/json (attachments base64 encoded) or multipart/form-data with a JSON "payload"
// @Description field plus files under "voucher", "supporting" or "files".
// @Tags transactions
// @Accept json,mpfd
// @Produce json
// @Param transaction body dto.PostTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} errorResponse "Malformed request"
// @Failure 409 {object} errorResponse "Duplicate voucher number or inactive owner"
// @Failure 413 {object} errorResponse "Multipart body too large"
// @Failure 422 {object} errorResponse "Validation failed"
// @Failure 502 {object} errorResponse "Attachment storage failed"
// @Failure 500 {object} errorResponse "Posting failed"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostTransactionRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.bindMultipart(c, &req) {
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to post transaction",
		slog.String("category", string(req.Category)),
		slog.String("voucher_no", req.VoucherNo),
		slog.Int("attachments", len(req.Attachments)),
	)

	txn, err := h.transactionService.PostTransaction(c.Request.Context(), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// bindMultipart fills req from the payload field and the uploaded files.
// It writes the error response itself and reports whether binding succeeded.
func (h *transactionHandler) bindMultipart(c *gin.Context, req *dto.PostTransactionRequest) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAttachmentBytes*maxUploadParts+multipartOverhead)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			return false
		}
		h.respondBindError(c, err)
		return false
	}
	payload := form.Value[formPayload]
	if len(payload) != 1 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "multipart request requires exactly one \"payload\" field"})
		return false
	}
	if err := bindJSONPayload(payload[0], req); err != nil {
		h.respondBindError(c, err)
		return false
	}

	files := 0
	for _, part := range uploadFields {
		files += len(form.File[part.field])
	}
	if files > maxUploadParts {
		h.respondError(c, apperrors.NewValidationError("attachments", fmt.Sprintf("at most %d files may be attached", maxUploadParts)), "Invalid request")
		return false
	}

	for _, part := range uploadFields {
		for _, fh := range form.File[part.field] {
			upload, err := h.readUpload(fh, part.kind)
			if err != nil {
				c.JSON(http.StatusBadRequest, errorResponse{Error: h.detail(err, "Failed to read uploaded file")})
				return false
			}
			req.Attachments = append(req.Attachments, upload)
		}
	}
	return true
}

// readUpload reads at most one byte past the size limit so oversize files are
// rejected by the service without buffering them whole.
func (h *transactionHandler) readUpload(fh *multipart.FileHeader, kind domain.AttachmentKind) (dto.AttachmentUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.AttachmentUpload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxAttachmentBytes+1))
	if err != nil {
		return dto.AttachmentUpload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
			mimeType = byExt
		}
	}
	return dto.AttachmentUpload{
		Kind:     kind,
		FileName: fh.Filename,
		MimeType: mimeType,
		Content:  content,
	}, nil
}

// listTransactions godoc
// @Summary List transactions
// @Description Pages transactions newest first. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce json
// @Param ownerID query string false "Only transactions where the owner is a party"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 422 {object} errorResponse "Invalid paging parameters"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Returns the transaction with its instruments, attachment references and ledger entries.
// @Tags transactions
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} errorResponse "Invalid transaction ID"
// @Failure 404 {object} errorResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID, ok := parseIDParam(c, "transactionID")
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getAttachment godoc
// @Summary Download an attachment
// @Tags transactions
// @Produce octet-stream
// @Param transactionID path int true "Transaction ID"
// @Param attachmentID path int true "Attachment ID"
// @Success 200 {file} file
// @Failure 403 {object} errorResponse "Role not permitted"
// @Failure 404 {object} errorResponse "Attachment not found"
// @Failure 502 {object} errorResponse "Attachment storage failed"
// @Security BearerAuth
// @Router /transactions/{transactionID}/attachments/{attachmentID} [get]
func (h *transactionHandler) getAttachment(c *gin.Context) {
	transactionID, ok := parseIDParam(c, "transactionID")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentID")
	if !ok {
		return
	}

	att, content, err := h.transactionService.OpenAttachment(c.Request.Context(), transactionID, attachmentID)
	if err != nil {
		h.respondError(c, err, "Failed to open attachment")
		return
	}
	defer content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": att.FileName})
	c.DataFromReader(http.StatusOK, att.SizeBytes, att.MimeType, content, map[string]string{
		"Content-Disposition": disposition,
	})
}

// parseIDParam reads a positive integer path parameter or answers 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid ID in path", slog.String("param", name), slog.String("value", raw))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}
