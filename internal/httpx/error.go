// Package httpx writes error responses for requests that are not rendered as pages.
package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/vineai/website/internal/requestctx"
)

const (
	codeLimit    = 80
	messageLimit = 512
	idLimit      = 80
)

// Error is the error envelope returned to API clients and plain-text callers.
type Error struct {
	Code      string
	Message   string
	Status    int
	RequestID string
	TraceID   string
}

func (e Error) Error() string {
	return e.Code + ": " + e.Message
}

type envelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// NewError builds an Error. A zero status means 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, codeLimit),
		Message: sanitize(message, messageLimit),
		Status:  status,
	}
}

// WriteError writes err as JSON when the client asks for JSON and as plain text otherwise.
// Request and trace ids missing from err are taken from ctx.
func WriteError(ctx context.Context, w http.ResponseWriter, r *http.Request, err Error) {
	if err.Status == 0 {
		err.Status = http.StatusInternalServerError
	}
	if err.RequestID == "" {
		err.RequestID = sanitize(middleware.GetReqID(ctx), idLimit)
	}
	if err.TraceID == "" {
		err.TraceID = sanitize(requestctx.TraceID(ctx), idLimit)
	}

	w.Header().Set("Cache-Control", "no-store")
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(err.Status)
		_ = json.NewEncoder(w).Encode(envelope{
			Error:     err.Code,
			Message:   err.Message,
			Status:    err.Status,
			RequestID: err.RequestID,
			TraceID:   err.TraceID,
		})
		return
	}

	msg := err.Message
	if msg == "" {
		msg = http.StatusText(err.Status)
	}
	if err.RequestID != "" {
		msg += " (request " + err.RequestID + ")"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(err.Status)
	_, _ = w.Write([]byte(msg + "\n"))
}

// WantsJSON reports whether the client prefers a JSON response. A nil request counts as an API caller.
func WantsJSON(r *http.Request) bool {
	if r == nil {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func sanitize(value string, limit int) string {
	value = strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ").Replace(value))
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
