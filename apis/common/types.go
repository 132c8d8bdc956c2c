// Package common holds the response types shared by the JSON endpoints.
package common

// ErrorResponse is the JSON body of every error produced by the server's
// error handler. Plain-text and HTML routes answer in their own format.
type ErrorResponse struct {
	// Error is always true
	Error bool `json:"error"`

	// Message is safe to show to clients; internal error text is never copied here
	Message string `json:"message"`
}
