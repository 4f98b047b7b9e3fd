package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ownerHandler handles HTTP requests for the owner directory.
type ownerHandler struct {
	baseHandler
	ownerService portssvc.OwnerSvcFacade
}

func newOwnerHandler(base baseHandler, os portssvc.OwnerSvcFacade) *ownerHandler {
	return &ownerHandler{baseHandler: base, ownerService: os}
}

// registerOwnerRoutes registers owner and unit routes. Statement routes under
// /owners/:ownerID/ledger are registered by the ledger handler.
func registerOwnerRoutes(rg *gin.RouterGroup, base baseHandler, ownerService portssvc.OwnerSvcFacade) {
	h := newOwnerHandler(base, ownerService)

	owners := rg.Group("/owners")
	{
		owners.POST("", h.createOwner)
		owners.GET("", h.listOwners)
		owners.GET("/:ownerID", h.getOwner)
		owners.PATCH("/:ownerID", h.updateOwner)
		owners.PUT("/:ownerID/status", h.setOwnerStatus)
		owners.POST("/:ownerID/units", h.createUnit)
		owners.GET("/:ownerID/units", h.listUnits)
	}
}

// createOwner godoc
// @Summary Create an owner
// @Description Registers a ledger participant. At most three SYSTEM owners may exist.
// @Tags owners
// @Accept json
// @Produce json
// @Param owner body dto.CreateOwnerRequest true "Owner details"
// @Success 201 {object} dto.OwnerResponse
// @Failure 400 {object} errorResponse "Malformed request"
// @Failure 409 {object} errorResponse "Duplicate code or system owner limit reached"
// @Failure 422 {object} errorResponse "Validation failed"
// @Security BearerAuth
// @Router /owners [post]
func (h *ownerHandler) createOwner(c *gin.Context) {
	var req dto.CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	owner, err := h.ownerService.CreateOwner(c.Request.Context(), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to create owner")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOwnerResponse(owner))
}

// listOwners godoc
// @Summary List owners
// @Tags owners
// @Produce json
// @Param ownerType query string false "Owner type filter"
// @Param status query string false "ACTIVE or INACTIVE"
// @Success 200 {array} dto.OwnerResponse
// @Security BearerAuth
// @Router /owners [get]
func (h *ownerHandler) listOwners(c *gin.Context) {
	var params dto.ListOwnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.respondBindError(c, err)
		return
	}

	owners, err := h.ownerService.ListOwners(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err, "Failed to list owners")
		return
	}
	c.JSON(http.StatusOK, dto.ToOwnerResponses(owners))
}

// getOwner godoc
// @Summary Get an owner
// @Tags owners
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Success 200 {object} dto.OwnerResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Security BearerAuth
// @Router /owners/{ownerID} [get]
func (h *ownerHandler) getOwner(c *gin.Context) {
	owner, err := h.ownerService.GetOwner(c.Request.Context(), c.Param("ownerID"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve owner")
		return
	}
	c.JSON(http.StatusOK, dto.ToOwnerResponse(owner))
}

// updateOwner godoc
// @Summary Update an owner
// @Description Updates descriptive fields and the chart-of-accounts link. Code and type are immutable.
// @Tags owners
// @Accept json
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param owner body dto.UpdateOwnerRequest true "Fields to change"
// @Success 200 {object} dto.OwnerResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Failure 422 {object} errorResponse "Validation failed"
// @Security BearerAuth
// @Router /owners/{ownerID} [patch]
func (h *ownerHandler) updateOwner(c *gin.Context) {
	var req dto.UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	owner, err := h.ownerService.UpdateOwner(c.Request.Context(), c.Param("ownerID"), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to update owner")
		return
	}
	c.JSON(http.StatusOK, dto.ToOwnerResponse(owner))
}

// setOwnerStatus godoc
// @Summary Activate or deactivate an owner
// @Tags owners
// @Accept json
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param status body dto.SetOwnerStatusRequest true "New status"
// @Success 200 {object} dto.OwnerResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Security BearerAuth
// @Router /owners/{ownerID}/status [put]
func (h *ownerHandler) setOwnerStatus(c *gin.Context) {
	var req dto.SetOwnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	ownerID := c.Param("ownerID")
	owner, err := h.ownerService.SetOwnerStatus(c.Request.Context(), ownerID, req.Status, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to change owner status")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Owner status changed",
		slog.String("owner_id", ownerID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.ToOwnerResponse(owner))
}

// createUnit godoc
// @Summary Add a unit to an owner
// @Tags owners
// @Accept json
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param unit body dto.CreateUnitRequest true "Unit details"
// @Success 201 {object} dto.UnitResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Failure 409 {object} errorResponse "Duplicate unit code"
// @Security BearerAuth
// @Router /owners/{ownerID}/units [post]
func (h *ownerHandler) createUnit(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	unit, err := h.ownerService.CreateUnit(c.Request.Context(), c.Param("ownerID"), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to create unit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUnitResponses([]domain.Unit{*unit})[0])
}

// listUnits godoc
// @Summary List an owner's units
// @Tags owners
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Success 200 {array} dto.UnitResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Security BearerAuth
// @Router /owners/{ownerID}/units [get]
func (h *ownerHandler) listUnits(c *gin.Context) {
	units, err := h.ownerService.ListUnits(c.Request.Context(), c.Param("ownerID"))
	if err != nil {
		h.respondError(c, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}
