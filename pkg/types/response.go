// Package types holds wire-level envelopes shared by the HTTP layer.
package types

// Envelope wraps every successful JSON response body.
type Envelope struct {
	Data any `json:"data"`
}

// ErrorBody is the public error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed JSON response body.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Page annotates list responses with cursor metadata.
type Page struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
