package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/e2esuite/app/views"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

// Serve returns a handler writing the embedded page name.
func (c *PageController) Serve(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := views.Page(name)
		if err != nil {
			logger.WithCtx(r.Context()).Error("page missing", "page", name, "error", err)
			response.NotFound(w, "")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}
