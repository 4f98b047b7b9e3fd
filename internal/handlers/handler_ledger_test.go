package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestGetOwnerLedger_DateRangeIsInclusiveOfToDate() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	toExclusive := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	statement := &domain.OwnerStatement{
		Owner:          domain.Owner{OwnerID: "client", OwnerType: domain.OwnerClient},
		Sort:           domain.SortDesc,
		OpeningBalance: decimal.RequireFromString("1000"),
		ClosingBalance: decimal.RequireFromString("1400"),
		TotalDeposit:   decimal.RequireFromString("400"),
		Lines: []domain.OwnerStatementLine{{
			Entry:   domain.OwnerLedgerEntry{EntryID: 2, OwnerID: "client", Credit: decimal.RequireFromString("400"), RunningBalance: decimal.RequireFromString("1400")},
			Deposit: decimal.RequireFromString("400"),
		}},
	}
	suite.mockLedgerService.On("GetOwnerLedger", mock.Anything, "client", domain.SortDesc, mock.MatchedBy(func(r domain.DateRange) bool {
		return r.From != nil && r.From.Equal(from) && r.To != nil && r.To.Equal(toExclusive)
	})).Return(statement, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger?sort=desc&fromDate=2024-01-01&toDate=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OwnerStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.OpeningBalance.Equal(decimal.RequireFromString("1000")))
	suite.True(resp.ClosingBalance.Equal(decimal.RequireFromString("1400")))
	suite.Require().Len(resp.Lines, 1)
	suite.True(resp.Lines[0].Deposit.Equal(decimal.RequireFromString("400")))
}

func (suite *HandlerTestSuite) TestGetOwnerLedger_DefaultsToAscendingUnbounded() {
	suite.mockLedgerService.On("GetOwnerLedger", mock.Anything, "client", domain.SortAsc, domain.DateRange{}).
		Return(&domain.OwnerStatement{Owner: domain.Owner{OwnerID: "client"}, Sort: domain.SortAsc}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestGetOwnerLedger_RejectsBadDates() {
	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger?fromDate=2024-13-01", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"fromDate"}, suite.fieldNames(suite.decodeError(w)))

	w = suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger?fromDate=2024-03-02&toDate=2024-03-01", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger?sort=sideways", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"sort"}, suite.fieldNames(suite.decodeError(w)))

	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetOwnerLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetOwnerLedger_SingleDay() {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	suite.mockLedgerService.On("GetOwnerLedger", mock.Anything, "client", domain.SortAsc, mock.MatchedBy(func(r domain.DateRange) bool {
		return r.Contains(day.Add(23*time.Hour)) && !r.Contains(day.Add(24*time.Hour)) && !r.Contains(day.Add(-time.Nanosecond))
	})).Return(&domain.OwnerStatement{}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger?fromDate=2024-05-10&toDate=2024-05-10", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestExportOwnerLedger() {
	workbook := []byte("PK\x03\x04fake-xlsx")
	suite.mockLedgerService.On("ExportOwnerLedger", mock.Anything, "client", domain.SortAsc, domain.DateRange{}).
		Return(workbook, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/client/ledger/export", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "owner-ledger-client.xlsx")
	suite.Equal(workbook, w.Body.Bytes())
}

func (suite *HandlerTestSuite) TestGetAccountLedger() {
	statement := &domain.AccountStatement{
		Account:        domain.ChartOfAccount{AccountID: "acc-1", Code: "1100"},
		OpeningBalance: decimal.Zero,
		ClosingBalance: decimal.RequireFromString("250"),
		TotalDebit:     decimal.RequireFromString("250"),
		Lines: []domain.AccountStatementLine{{
			AccountLedgerRow: domain.AccountLedgerRow{
				Entry:     domain.GeneralLedgerEntry{EntryID: 11, TransactionID: 7, AccountID: "acc-1", Debit: decimal.RequireFromString("250")},
				VoucherNo: "V-7",
			},
			RunningTotal: decimal.RequireFromString("250"),
		}},
	}
	suite.mockLedgerService.On("GetAccountLedger", mock.Anything, "acc-1", domain.DateRange{}).Return(statement, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/accounts/acc-1/ledger", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Lines, 1)
	suite.Equal("V-7", resp.Lines[0].VoucherNo)
	suite.True(resp.Lines[0].RunningTotal.Equal(decimal.RequireFromString("250")))
}
