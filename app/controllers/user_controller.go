package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/e2esuite/app/models"
	"github.com/shashiranjanraj/e2esuite/app/repositories"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

const userNotFound = "User not found"

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// Index answers GET /api/users[?region=].
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users := c.users.All(r.URL.Query().Get("region"))
	response.Success(w, map[string]any{"users": users, "count": len(users)})
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	user, ok := c.users.FindByID(id)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	response.Success(w, user)
}

func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if !decode(w, r, &in) {
		return
	}

	user, err := c.users.Create(in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create user", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithCtx(r.Context()).Info("user created", "id", user.ID, "region", user.Region)
	response.Created(w, user)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}

	var patch models.UserPatch
	if !decode(w, r, &patch) {
		return
	}

	user, ok := c.users.Update(id, patch)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	response.Success(w, user)
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	user, ok := c.users.Delete(id)
	if !ok {
		response.NotFound(w, userNotFound)
		return
	}
	response.Success(w, map[string]any{"message": "User deleted", "user": user})
}
