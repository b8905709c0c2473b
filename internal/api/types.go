// Package api defines the JSON types shared across HTTP handlers.
package api

// ErrorResponse is the common error body returned by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
