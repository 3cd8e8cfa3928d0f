// Package domain contains the LMS client's shared types and error taxonomy.
// Domain errors describe why a call failed, independent of how the failure
// was observed. Adapters classify transport and HTTP failures into these
// types exactly once, at the request pipeline boundary.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfiguration indicates the client was built with missing or invalid settings.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication indicates missing or rejected API tokens.
	ErrAuthentication = errors.New("authentication error")

	// ErrValidation indicates caller-supplied parameters failed a pre-flight rule.
	ErrValidation = errors.New("validation failed")

	// ErrAPI indicates the LMS answered with an error status or an unreadable body.
	ErrAPI = errors.New("api error")

	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("transport error")
)

// Authentication failure kinds.
const (
	AuthMissingTokens = "missing_tokens"
	AuthInvalidTokens = "invalid_tokens"
)

// Messages shared with the vendor's own client libraries.
const (
	MessageMissingBaseURL = "Base URL is required"
	MessageMissingTokens  = "API tokens are required. Please configure wstoken and apitoken."
	MessageInvalidTokens  = "Invalid API tokens provided. Check your wstoken and apitoken configuration."
	MessageInvalidJSON    = "Invalid JSON response from API"
)

// ConfigurationError reports a client setting that cannot be used.
type ConfigurationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a configuration error for the given setting.
func NewConfigurationError(field, message string) error {
	return &ConfigurationError{Field: field, Message: message}
}

// AuthenticationError reports missing tokens at construction time or tokens
// the LMS rejected with 401/403.
type AuthenticationError struct {
	Kind       string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// NewMissingTokensError creates the error returned when either token is empty.
func NewMissingTokensError() error {
	return &AuthenticationError{Kind: AuthMissingTokens, Message: MessageMissingTokens}
}

// NewInvalidTokensError creates the error returned for a 401 or 403 response.
func NewInvalidTokensError(statusCode int) error {
	return &AuthenticationError{Kind: AuthInvalidTokens, StatusCode: statusCode, Message: MessageInvalidTokens}
}

// ValidationError identifies the parameter and rule that rejected a call.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, rule, message string) error {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the rejected value.
func NewValidationErrorWithValue(field, rule, message string, value any) error {
	return &ValidationError{Field: field, Rule: rule, Message: message, Value: value}
}

// APIError carries a non-authentication error status, or a success status
// whose body could not be decoded.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *APIError) Unwrap() error {
	return ErrAPI
}

// NewAPIError builds the error for an HTTP status >= 400. When detail is
// non-empty it is appended to the standard message.
func NewAPIError(statusCode int, detail string, body []byte) error {
	msg := fmt.Sprintf("API request failed with status %d", statusCode)
	if detail != "" {
		msg += ": " + detail
	}

	return &APIError{StatusCode: statusCode, Message: msg, Body: body}
}

// NewInvalidJSONError builds the error for a success response that is not JSON.
func NewInvalidJSONError(statusCode int, body []byte) error {
	return &APIError{StatusCode: statusCode, Message: MessageInvalidJSON, Body: body}
}

// TransportError wraps a failure below HTTP: refused connections, DNS,
// timeouts, cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("request failed: %v", e.Err)
	}

	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// NewTransportError wraps a transport failure.
func NewTransportError(method, url string, err error) error {
	return &TransportError{Method: method, URL: url, Err: err}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsAuthentication checks if an error is an authentication error.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAPI checks if an error is an API error.
func IsAPI(err error) bool {
	return errors.Is(err, ErrAPI)
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}

	return 0
}
