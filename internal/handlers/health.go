package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Stage  string `json:"stage,omitempty"`
	Worker string `json:"worker,omitempty"`
}

type HealthHandler struct {
	stage  string
	worker string
}

// NewHealthHandler reports stage and the kind of worker backing derivation.
func NewHealthHandler(stage, worker string) *HealthHandler {
	return &HealthHandler{stage: stage, worker: worker}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Stage:  h.stage,
		Worker: h.worker,
	})
}
