package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

const (
	dateLayout   = "2006-01-02"
	xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ledgerHandler serves owner and account statements.
type ledgerHandler struct {
	baseHandler
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(base baseHandler, ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{baseHandler: base, ledgerService: ls}
}

// registerLedgerRoutes hangs statements off the owner and account resources.
func registerLedgerRoutes(rg *gin.RouterGroup, base baseHandler, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(base, ledgerService)

	rg.GET("/owners/:ownerID/ledger", h.getOwnerLedger)
	rg.GET("/owners/:ownerID/ledger/export", h.exportOwnerLedger)
	rg.GET("/accounts/:accountID/ledger", h.getAccountLedger)
}

// getOwnerLedger godoc
// @Summary Owner statement
// @Description Returns the owner's entries with opening and closing balances. Sort only changes display order.
// @Tags ledger
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param sort query string false "asc or desc" default(asc)
// @Param fromDate query string false "First day included (YYYY-MM-DD)"
// @Param toDate query string false "Last day included (YYYY-MM-DD)"
// @Success 200 {object} dto.OwnerStatementResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Failure 422 {object} errorResponse "Invalid date range"
// @Security BearerAuth
// @Router /owners/{ownerID}/ledger [get]
func (h *ledgerHandler) getOwnerLedger(c *gin.Context) {
	params, dateRange, ok := h.bindLedgerQuery(c)
	if !ok {
		return
	}

	statement, err := h.ledgerService.GetOwnerLedger(c.Request.Context(), c.Param("ownerID"), params.Sort, dateRange)
	if err != nil {
		h.respondError(c, err, "Failed to build owner ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToOwnerStatementResponse(statement))
}

// exportOwnerLedger godoc
// @Summary Export owner statement
// @Description Renders the owner statement as an Excel workbook.
// @Tags ledger
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param ownerID path string true "Owner ID"
// @Param sort query string false "asc or desc" default(asc)
// @Param fromDate query string false "First day included (YYYY-MM-DD)"
// @Param toDate query string false "Last day included (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 404 {object} errorResponse "Owner not found"
// @Security BearerAuth
// @Router /owners/{ownerID}/ledger/export [get]
func (h *ledgerHandler) exportOwnerLedger(c *gin.Context) {
	params, dateRange, ok := h.bindLedgerQuery(c)
	if !ok {
		return
	}

	ownerID := c.Param("ownerID")
	workbook, err := h.ledgerService.ExportOwnerLedger(c.Request.Context(), ownerID, params.Sort, dateRange)
	if err != nil {
		h.respondError(c, err, "Failed to export owner ledger")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="owner-ledger-`+ownerID+`.xlsx"`)
	c.Data(http.StatusOK, xlsxMimeType, workbook)
}

// getAccountLedger godoc
// @Summary Account ledger
// @Description Returns general-ledger entries for an account with a running total.
// @Tags ledger
// @Produce json
// @Param accountID path string true "Account ID"
// @Param fromDate query string false "First day included (YYYY-MM-DD)"
// @Param toDate query string false "Last day included (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountStatementResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 422 {object} errorResponse "Invalid date range"
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	_, dateRange, ok := h.bindLedgerQuery(c)
	if !ok {
		return
	}

	statement, err := h.ledgerService.GetAccountLedger(c.Request.Context(), c.Param("accountID"), dateRange)
	if err != nil {
		h.respondError(c, err, "Failed to build account ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountStatementResponse(statement))
}

// bindLedgerQuery parses sort and the inclusive day range. toDate becomes an
// exclusive bound at the start of the following day.
func (h *ledgerHandler) bindLedgerQuery(c *gin.Context) (dto.LedgerQueryParams, domain.DateRange, bool) {
	var params dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.respondBindError(c, err)
		return params, domain.DateRange{}, false
	}
	if params.Sort == "" {
		params.Sort = domain.SortAsc
	}

	var dateRange domain.DateRange
	verr := &apperrors.ValidationError{}
	if params.FromDate != "" {
		from, err := time.Parse(dateLayout, params.FromDate)
		if err != nil {
			verr.Add("fromDate", "must be a date in YYYY-MM-DD format")
		} else {
			dateRange.From = &from
		}
	}
	if params.ToDate != "" {
		to, err := time.Parse(dateLayout, params.ToDate)
		if err != nil {
			verr.Add("toDate", "must be a date in YYYY-MM-DD format")
		} else {
			end := to.Add(24 * time.Hour)
			dateRange.To = &end
		}
	}
	if dateRange.From != nil && dateRange.To != nil && !dateRange.From.Before(*dateRange.To) {
		verr.Add("fromDate", "must not be after toDate")
	}
	if len(verr.Fields) > 0 {
		h.respondError(c, verr, "Invalid date range")
		return params, domain.DateRange{}, false
	}
	return params, dateRange, true
}
