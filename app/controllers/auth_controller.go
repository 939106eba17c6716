package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/e2esuite/app/repositories"
	"github.com/shashiranjanraj/e2esuite/app/services"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
	"github.com/shashiranjanraj/e2esuite/pkg/metrics"
	"github.com/shashiranjanraj/e2esuite/pkg/middleware"
	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

type AuthController struct {
	service *services.AuthService
	users   *repositories.UserRepository
}

func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{
		service: services.NewAuthService(users),
		users:   users,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decode(w, r, &body) {
		return
	}

	session, err := c.service.Login(body.Username, body.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		response.JSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("login", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	response.Success(w, map[string]any{
		"success":     true,
		"token":       session.Token,
		"accessToken": session.AccessToken,
		"user":        session.User,
	})
}

// Profile answers GET /api/profile. It must sit behind middleware.Auth.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, ok := c.users.FindByID(claims.UserID)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	response.Success(w, user)
}
