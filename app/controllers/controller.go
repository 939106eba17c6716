// Package controllers holds the mock API's HTTP handlers.
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode reads a JSON body into dest and runs struct-tag validation. An
// empty body decodes as {}. On failure it has already written the response.
func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}

	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			response.Error(w, http.StatusBadRequest, err.Error())
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag()
		}
		response.ValidationError(w, fields)
		return false
	}
	return true
}

// idParam parses the {id} route parameter. ok is false when it is not an
// integer, which callers treat as not found.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}
