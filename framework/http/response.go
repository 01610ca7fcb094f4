package http

import (
	"encoding/json"
	"net/http"

	"github.com/armature-go/armature/framework/http/validation"
)

// Response wraps http.ResponseWriter with JSON envelope helpers. Success
// payloads nest under "data", errors under "message", validation failures
// under "errors".
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ───────────────────────────────────────────────────────────

// JSON sends a JSON response with the given status.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response: {"message": message}
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// BadRequest sends 400.
func (res *Response) BadRequest(message ...string) {
	res.Error(http.StatusBadRequest, first(message, "Bad request."))
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// Forbidden sends 403.
func (res *Response) Forbidden(message ...string) {
	res.Error(http.StatusForbidden, first(message, "This action is unauthorized."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// Conflict sends 409.
func (res *Response) Conflict(message ...string) {
	res.Error(http.StatusConflict, first(message, "Conflict."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server error."))
}

// ValidationError sends 422 with the error bag: {"errors": {"field": [...]}}
func (res *Response) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

// ── Redirects ────────────────────────────────────────────────────────────────

// RedirectTo performs a 302 redirect.
func (res *Response) RedirectTo(url string) {
	res.w.Header().Set("Location", url)
	res.w.WriteHeader(http.StatusFound)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
