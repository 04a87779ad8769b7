package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	_ = json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondServiceError maps a service error onto the error envelope and logs server-side failures
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, code, message, details := mapServiceError(err)
	if statusCode >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).WithError(err).Error("request failed")
	}
	respondError(w, statusCode, code, message, details)
}

// parseJSONBody parses JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// Common error codes
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// mapServiceError maps service errors to HTTP status codes.
// Details of server-side failures are not exposed.
func mapServiceError(err error) (int, string, string, map[string]interface{}) {
	catErr := apperrors.Categorize(err)
	if catErr == nil || catErr.StatusCode >= http.StatusInternalServerError {
		code := ErrCodeInternalError
		if catErr != nil {
			code = catErr.Code
		}
		return http.StatusInternalServerError, code, "An internal error occurred", nil
	}
	return catErr.StatusCode, catErr.Code, catErr.Message, catErr.Details
}
