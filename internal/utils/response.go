package utils

import (
	"encoding/json"
	"net/http"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// JSONError writes an error message in JSON
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, &models.ErrorResponse{Message: message})
}

// OK is the body of endpoints that only acknowledge.
var OK = map[string]bool{"ok": true}
