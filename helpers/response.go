package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cofoundr_server/models"
)

// WriteJSONResponse writes a JSON payload with the given status code.
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// codeStatuses maps machine-readable error codes to HTTP statuses.
var codeStatuses = map[string]int{
	models.CodeValidation:        http.StatusBadRequest,
	models.CodeProfileIncomplete: http.StatusUnprocessableEntity,
	models.CodeRequestExists:     http.StatusConflict,
	models.CodeDailyLimit:        http.StatusTooManyRequests,
	models.CodeMatchLimit:        http.StatusConflict,
	models.CodeLowScore:          http.StatusUnprocessableEntity,
	models.CodeExpired:           http.StatusGone,
	models.CodeAlreadyHandled:    http.StatusConflict,
	models.CodeAlreadyPaid:       http.StatusConflict,
	models.CodeNotAccepted:       http.StatusConflict,
	models.CodeInvalidState:      http.StatusConflict,
	models.CodeForbidden:         http.StatusForbidden,
	models.CodeNotFound:          http.StatusNotFound,
	models.CodePaymentFailed:     http.StatusBadGateway,
}

// WriteErrorResponse maps a service error to its HTTP status and a JSON
// body carrying the code, so clients can branch on the exact failure.
// Non-service errors surface as a plain 500.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	var serviceErr *models.ServiceError
	if errors.As(err, &serviceErr) {
		status, ok := codeStatuses[serviceErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		WriteJSONResponse(w, status, map[string]string{
			"error": serviceErr.Message,
			"code":  serviceErr.Code,
		})
		return
	}
	WriteJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
