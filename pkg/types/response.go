// Package types holds the JSON envelopes every API endpoint shares, so
// clients unwrap "data" and "error" the same way on all routes.
package types

// SuccessEnvelope wraps every 2xx payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the machine-readable error body. Code is one of the pkg/errors
// codes (VALIDATION_ERROR, INSUFFICIENT_STOCK, ...) and Details carries the
// field or entity specifics when there are any, such as the shortfall on a
// rejected sale line.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
