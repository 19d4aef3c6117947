// Package handler implements the portal's HTTP endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// multipartOverhead is added to the file limit to leave room for form framing.
const multipartOverhead = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierrors.NewErrBadRequest("Invalid request body")
	}
	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fields := make([]apierrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apierrors.NewErrValidation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "numeric":
		return field + " must contain only digits"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func pathUUID(r *http.Request, param, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apierrors.NewErrBadRequest(message)
	}
	return id, nil
}

// formFile opens the named multipart file, bounding the request body to limit.
func formFile(w http.ResponseWriter, r *http.Request, field string, limit int64) (multipart.File, int64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, header, err := r.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, 0, apierrors.NewErrBadRequest(fmt.Sprintf("File exceeds the %dMB limit", limit>>20))
		}
		return nil, 0, apierrors.NewErrBadRequest("No file uploaded")
	}
	return file, header.Size, nil
}

// principalOf returns the principal attached by the gate. Routes mounted
// behind RequireRole always carry one.
func principalOf(r *http.Request, contextManager model.ContextManager) (model.Principal, error) {
	principal, ok := contextManager.GetPrincipal(r.Context())
	if !ok {
		return model.Principal{}, apierrors.NewErrMissingCredential()
	}
	return principal, nil
}
