package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator is implemented by fixture types that check themselves after
// decoding and struct-tag validation.
type Validator interface {
	Validate() error
}

// Load resolves a fixture and decodes it into T. Struct fields tagged with
// `validate:"..."` are checked, then T's Validate method runs if it has one.
// Any mismatch is reported as a *SchemaError.
//
//	type UsersFixture struct {
//		Region        string `json:"region" validate:"required"`
//		ExpectedUsers []User `json:"expectedUsers" validate:"min=1,dive"`
//	}
//	f, err := fixtures.Load[UsersFixture](r, "app2-api", "users.json")
func Load[T any](r *Resolver, app, file string, region ...string) (T, error) {
	var out T

	key, path, err := r.locate(app, file, region)
	if err != nil {
		return out, err
	}
	data, err := r.read(key, path)
	if err != nil {
		return out, err
	}

	typeName := fmt.Sprintf("%T", out)
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return zero, &SchemaError{Key: key, Path: path, Type: typeName, Err: err}
		}
		return zero, &DecodeError{Key: key, Path: path, Err: err}
	}
	if err := check(&out); err != nil {
		var zero T
		return zero, &SchemaError{Key: key, Path: path, Type: typeName, Err: err}
	}
	return out, nil
}

// LoadAllRegions is Load for every known region, all or nothing.
func LoadAllRegions[T any](r *Resolver, app, file string) (map[Region]T, error) {
	out := make(map[Region]T, len(knownRegions))
	for _, region := range knownRegions {
		v, err := Load[T](r, app, file, string(region))
		if err != nil {
			return nil, err
		}
		out[region] = v
	}
	return out, nil
}

// check runs struct-tag validation and the Validator hook on *T.
func check(ptr any) error {
	v := reflect.ValueOf(ptr).Elem()
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return errors.New("fixture decoded to null")
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		if err := validate.Struct(v.Interface()); err != nil {
			return err
		}
	}

	if h, ok := ptr.(Validator); ok {
		return h.Validate()
	}
	if h, ok := reflect.ValueOf(ptr).Elem().Interface().(Validator); ok {
		return h.Validate()
	}
	return nil
}
