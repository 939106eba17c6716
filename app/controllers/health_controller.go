package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

type HealthController struct {
	now func() time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{now: time.Now}
}

// Show answers GET /api/health.
func (c *HealthController) Show(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status":    "healthy",
		"timestamp": c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
