// Package routes registers the mock server's endpoints.
package routes

import (
	"github.com/shashiranjanraj/e2esuite/app/controllers"
	"github.com/shashiranjanraj/e2esuite/app/repositories"
	"github.com/shashiranjanraj/e2esuite/pkg/middleware"
	"github.com/shashiranjanraj/e2esuite/pkg/router"
)

// Store is the state the API handlers share.
type Store struct {
	Users    *repositories.UserRepository
	Products *repositories.ProductRepository
}

// NewStore returns a store holding the seed data.
func NewStore() *Store {
	return &Store{
		Users:    repositories.NewUserRepository(),
		Products: repositories.NewProductRepository(),
	}
}

// Reset restores the seed data in both collections.
func (s *Store) Reset() {
	s.Users.Reset()
	s.Products.Reset()
}

func RegisterAPI(r *router.Router, s *Store) {
	health := controllers.NewHealthController()
	users := controllers.NewUserController(s.Users)
	products := controllers.NewProductController(s.Products)
	authController := controllers.NewAuthController(s.Users)

	api := r.Group("/api")
	api.Get("/health", "health", health.Show)
	api.Post("/login", "auth.login", authController.Login)

	api.Get("/users", "users.index", users.Index)
	api.Post("/users", "users.store", users.Store)
	api.Get("/users/{id}", "users.show", users.Show)
	api.Put("/users/{id}", "users.update", users.Update)
	api.Delete("/users/{id}", "users.destroy", users.Destroy)

	api.Get("/products", "products.index", products.Index)
	api.Post("/products", "products.store", products.Store)
	api.Get("/products/{id}", "products.show", products.Show)

	protected := api.Group("", middleware.Auth)
	protected.Get("/profile", "auth.profile", authController.Profile)
}
