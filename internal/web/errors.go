package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via table.MapError to get a user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message and code are returned as JSON

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/serdetable/internal/logging"
	"github.com/JonMunkholm/serdetable/table"
)

var (
	errBodyTooLarge = errors.New("request body too large")
	errMissingFile  = errors.New("missing file field")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Row     int    `json:"row,omitempty"`
}

// respondError logs the technical error server-side and answers with the
// user-facing message. The status code follows from the message code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := table.MapError(err)
	status := statusFor(userMsg.Code)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}

	// Conversion errors describe the caller's own table, so the detail
	// and row are safe to echo back.
	var (
		decErr *table.DecodeError
		encErr *table.RowEncodingError
		utfErr *table.Utf8Error
	)
	switch {
	case errors.As(err, &decErr):
		resp.Detail = decErr.Err.Error()
		resp.Row = decErr.Row
	case errors.As(err, &encErr):
		resp.Detail = encErr.Err.Error()
		resp.Row = encErr.Row
	case errors.As(err, &utfErr):
		resp.Detail = utfErr.Error()
	}

	respondErrorJSON(w, resp, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, resp ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// statusFor maps a message code to an HTTP status.
func statusFor(code string) int {
	switch {
	case code == "SCH001":
		return http.StatusNotFound
	case code == "REQ001":
		return http.StatusRequestEntityTooLarge
	case code == "REQ002", code == "REQ003":
		return http.StatusBadRequest
	case code == "REQ004":
		return http.StatusServiceUnavailable
	case code == "UPL005":
		return http.StatusGatewayTimeout
	case code == "UPL004":
		return http.StatusBadRequest
	case strings.HasPrefix(code, "DEC"), code == "ENC001", code == "UTF001":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
