package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-logr/logr"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteJSONResponse(w http.ResponseWriter, logger logr.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error(err, "failed to encode JSON response")
	}
}

func WriteError(w http.ResponseWriter, logger logr.Logger, err error) {
	if err == nil {
		WriteJSONResponse(w, logger, http.StatusInternalServerError, ErrorResponse{Error: "unknown_error", Message: "An unknown error occurred"})
		return
	}

	WriteJSONResponse(w, logger, httpStatus(err), ErrorResponse{
		Error:   extractErrorCode(err),
		Message: err.Error(),
	})
}

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, apperrors.ErrInvalid) || errors.Is(err, apperrors.ErrInvalidYAML) {
		return http.StatusBadRequest
	}
	if errors.Is(err, apperrors.ErrExternal) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func extractErrorCode(err error) string {
	if err == nil {
		return "unknown_error"
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return "not_found"
	}
	if errors.Is(err, apperrors.ErrInvalid) {
		return "validation_error"
	}
	if errors.Is(err, apperrors.ErrInvalidYAML) {
		return "invalid_yaml"
	}
	if errors.Is(err, apperrors.ErrStorage) {
		return "storage_error"
	}
	if errors.Is(err, apperrors.ErrKubernetes) {
		return "kubernetes_error"
	}
	if errors.Is(err, apperrors.ErrRollout) {
		return "rollout_error"
	}
	if errors.Is(err, apperrors.ErrExternal) {
		return "external_command_error"
	}

	return "internal_error"
}
