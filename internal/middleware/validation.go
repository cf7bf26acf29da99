package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into a fresh T, validates it and
// stores it on the request context. A body that does not decode is validated
// as the zero value so the client sees the same message as for bad fields.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newRequest[T]()

			if err := json.NewDecoder(r.Body).Decode(req); err != nil {
				req = newRequest[T]()
				if verr := req.Validate(); verr != nil {
					writeValidationError(w, verr)
					return
				}
				utils.JSONError(w, http.StatusBadRequest, "Invalid JSON in request body")
				return
			}

			if err := req.Validate(); err != nil {
				writeValidationError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequest[T Validator]() T {
	var req T
	reqType := reflect.TypeOf(req)
	if reqType.Kind() == reflect.Ptr {
		return reflect.New(reqType.Elem()).Interface().(T)
	}
	return reflect.New(reqType).Interface().(T)
}

func writeValidationError(w http.ResponseWriter, err error) {
	if errResp, ok := err.(*models.ErrorResponse); ok {
		utils.JSON(w, http.StatusBadRequest, errResp)
		return
	}
	utils.JSONError(w, http.StatusBadRequest, err.Error())
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
