package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeProblem = "application/problem+json"

	validationTitle = "One or more validation errors occurred."
)

// Problem is an RFC 9457 problem details body.
type Problem struct {
	Type    string              `json:"type,omitempty"`
	Title   string              `json:"title"`
	Status  int                 `json:"status"`
	Detail  string              `json:"detail,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	TraceID string              `json:"traceId,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeBody(w, status, ContentTypeJSON, v)
}

// WriteProblem writes a problem details response. fieldErrors may be nil.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string, fieldErrors map[string][]string) {
	title := http.StatusText(status)
	if len(fieldErrors) > 0 {
		title = validationTitle
	}

	p := Problem{
		Type:   ProblemType(status),
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: fieldErrors,
	}
	if r != nil {
		p.TraceID = GetRequestID(r.Context())
	}

	writeBody(w, status, ContentTypeProblem, p)
}

// WriteFieldProblem writes a 400 validation problem for a single field.
func WriteFieldProblem(w http.ResponseWriter, r *http.Request, field, message string) {
	WriteProblem(w, r, http.StatusBadRequest, message, map[string][]string{
		field: {message},
	})
}

func writeBody(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent, so we can't change the response
		// Just log the error
		slog.Error("failed to encode JSON response", "error", err)
	}
}
