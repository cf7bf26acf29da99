package handlers

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/questparse"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

const (
	msgNotLoggedIn      = "Not logged in"
	msgInternal         = "Internal server error"
	msgGenerationFailed = "Quest generation failed"
	msgInvalidJSON      = "Model returned invalid JSON"
	msgFailedValidation = "Model output failed validation"
)

var sentinelResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrInvalidStat, http.StatusBadRequest, "Invalid stat"},
	{services.ErrEmailTaken, http.StatusConflict, "Email already in use"},
	{services.ErrUsernameTaken, http.StatusConflict, "Username already in use"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{repositories.ErrUserNotFound, http.StatusUnauthorized, msgNotLoggedIn},
	{repositories.ErrQuestNotFound, http.StatusNotFound, "Quest not found"},
	{repositories.ErrQuestAlreadyCompleted, http.StatusBadRequest, "Already completed"},
}

// errorResponse maps a service error to its status and wire body.
func errorResponse(err error) (int, *models.ErrorResponse) {
	for _, s := range sentinelResponses {
		if errors.Is(err, s.err) {
			return s.status, &models.ErrorResponse{Message: s.message}
		}
	}

	var (
		genErr     *services.GeneratorError
		extractErr *questparse.ExtractionError
		validErr   *questparse.ValidationError
	)
	switch {
	case errors.As(err, &genErr):
		return http.StatusBadGateway, &models.ErrorResponse{Message: msgGenerationFailed, Detail: genErr.Err.Error()}
	case errors.As(err, &extractErr):
		return http.StatusBadGateway, &models.ErrorResponse{Message: msgInvalidJSON, Raw: extractErr.Raw}
	case errors.As(err, &validErr):
		return http.StatusBadGateway, &models.ErrorResponse{Message: msgFailedValidation, Issues: validErr.Issues, Raw: validErr.Raw}
	}
	return http.StatusInternalServerError, &models.ErrorResponse{Message: msgInternal}
}

// writeError writes the mapped response and logs anything unexpected.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	utils.JSON(w, status, body)
}
