package routes

import (
	"strings"

	"github.com/shashiranjanraj/e2esuite/app/controllers"
	"github.com/shashiranjanraj/e2esuite/app/views"
	"github.com/shashiranjanraj/e2esuite/pkg/router"
)

// RegisterWeb serves the storefront pages the browser suites drive.
func RegisterWeb(r *router.Router) {
	pages := controllers.NewPageController()
	for path, file := range views.Pages {
		name := "web." + strings.TrimSuffix(file, ".html")
		r.Get(path, name, pages.Serve(file))
	}
}
