// Package response writes the JSON bodies every endpoint returns.
//
//	single:  {"message": "...", "item": {...}}
//	list:    {"message": "...", "page": 1, "pagesize": 10, "total_pages": 3, "total_results": 23, "items": [...]}
//	error:   {"error": "..."}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

// Body is a top-level JSON object.
type Body = map[string]any

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message writes {"message": msg, key: data}.
func Message(w http.ResponseWriter, status int, msg, key string, data any) {
	body := Body{"message": msg}
	if key != "" {
		body[key] = data
	}
	JSON(w, status, body)
}

// Page writes a paginated list under key.
func Page(w http.ResponseWriter, msg string, meta paginate.Meta, key string, data any) {
	JSON(w, http.StatusOK, Body{
		"message":       msg,
		"page":          meta.Page,
		"pagesize":      meta.PageSize,
		"total_pages":   meta.TotalPages,
		"total_results": meta.TotalCount,
		key:             data,
	})
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Body{"error": msg})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, msg string, fields map[string]string) {
	JSON(w, http.StatusBadRequest, Body{"error": msg, "fields": fields})
}

// Fail maps err through apperr and writes it. Internal errors are logged with
// the request logger and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	Error(w, status, apperr.Message(err))
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
