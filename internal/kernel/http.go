// Package kernel assembles the mock server: middleware stack, API routes,
// storefront pages and the metrics endpoint.
package kernel

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/e2esuite/app/routes"
	"github.com/shashiranjanraj/e2esuite/pkg/metrics"
	"github.com/shashiranjanraj/e2esuite/pkg/middleware"
	"github.com/shashiranjanraj/e2esuite/pkg/reqid"
	"github.com/shashiranjanraj/e2esuite/pkg/response"
	"github.com/shashiranjanraj/e2esuite/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
	store  *routes.Store
}

// NewHTTPKernel builds a kernel over fresh seed data.
func NewHTTPKernel() *HTTPKernel {
	k := &HTTPKernel{
		router: router.New(),
		store:  routes.NewStore(),
	}

	// Outermost first: metrics sees total latency, recovery guards everything
	// below it, the request ID exists before the logger reads it.
	k.router.Use(metrics.Middleware())
	k.router.Use(middleware.Recovery)
	k.router.Use(reqid.Middleware())
	k.router.Use(middleware.Logger)
	k.router.Use(middleware.CORS(middleware.OpenCORS()))

	k.router.NotFound(notFound)
	k.router.Handle("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(k.router, k.store)
	routes.RegisterWeb(k.router)

	return k
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

func (k *HTTPKernel) Routes() []router.Route {
	return k.router.Routes()
}

// Store exposes the in-memory data, mainly so tests can Reset it.
func (k *HTTPKernel) Store() *routes.Store {
	return k.store
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		response.NotFound(w, "")
		return
	}
	http.NotFound(w, r)
}
