package handler

import (
	"encoding/json"
	"net/http"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
)

// statusFor maps an error kind to an HTTP status. Parse failures mean CNB sent something we
// cannot read, so they are reported as a bad gateway like transport failures.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindTooFewLines,
		apperrors.KindMalformedRecord,
		apperrors.KindInvalidDateFormat,
		apperrors.KindValidation,
		apperrors.KindUpstream:
		return http.StatusBadGateway
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errorTitles = map[int]string{
	http.StatusBadGateway:          "Exchange rate source unavailable",
	http.StatusNotFound:            "Not found",
	http.StatusBadRequest:          "Invalid request",
	http.StatusInternalServerError: "Internal server error",
}

// sendServiceError logs err and writes it as an ErrorResponse
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)

	fields := map[string]interface{}{
		"request_id": requestID,
		"kind":       kind.String(),
		"status":     status,
		"error":      err.Error(),
	}

	description := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error", fields)
		description = "An unexpected error occurred. Please try again later."
	} else if status == http.StatusBadGateway {
		log.Error("Exchange rate source error", fields)
	} else {
		log.Warn("Request failed", fields)
	}

	resp := ErrorResponse{
		Error:       errorTitles[status],
		Status:      status,
		Description: description,
		RequestID:   requestID,
	}
	if kind != apperrors.KindUnknown {
		resp.Kind = kind.String()
	}

	writeJSON(w, log, status, resp, requestID)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Kind:        apperrors.KindInvalidRequest.String(),
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, log, statusCode, resp, requestID)
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}
