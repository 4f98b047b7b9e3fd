package handlers

import (
	"net/http"

	"github.com/SscSPs/trust_ledger/cmd/docs"
	"github.com/gin-gonic/gin"
)

type statusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// getHome godoc
// @Summary Service banner
// @Description Reports the API name and version. Does not require a token.
// @Tags root
// @Produce json
// @Success 200 {object} statusResponse
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Service: docs.SwaggerInfo.Title,
		Version: docs.SwaggerInfo.Version,
		Status:  "ok",
	})
}

// liveness probe for load balancers
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
