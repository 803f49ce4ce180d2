package utils

import (
	"encoding/json"
	"net/http"

	"permit-portal/errors"
)

// StandardResponse represents a standard API response structure
type StandardResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the three things every surfaced error must have: a
// human message, a machine code, and whether retrying can help.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// SendJSON writes a JSON response with the given status code
// This is the base function used by all response helpers
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// SendSuccess sends a success response with data
func SendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	response := StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	SendJSON(w, statusCode, response)
}

// SendError sends an error response with an explicit code and retryability.
func SendError(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	response := StandardResponse{
		Status: "error",
		Error:  &detail,
	}
	SendJSON(w, statusCode, response)
}

// SendTypedError maps an application error onto the wire envelope and an
// HTTP status.
func SendTypedError(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	SendError(w, httpStatusFor(kind), ErrorDetail{
		Code:      kind.Code(),
		Message:   errors.MessageOf(err),
		Retryable: kind.Retryable(),
	})
}

func httpStatusFor(kind errors.Kind) int {
	switch kind {
	case errors.Invalid, errors.MissingReference:
		return http.StatusBadRequest
	case errors.NotFound:
		return http.StatusNotFound
	case errors.Authorization:
		return http.StatusUnauthorized
	case errors.Timeout:
		return http.StatusGatewayTimeout
	case errors.Network, errors.Server:
		return http.StatusBadGateway
	case errors.VerificationFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
