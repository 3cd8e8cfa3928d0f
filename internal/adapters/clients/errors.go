// Package clients implements the request pipeline for the LMS REST API:
// authenticated requests, linear retry, response decoding and error
// classification into the domain taxonomy.
package clients

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

// ErrCircuitOpen is wrapped in a domain.TransportError when the breaker
// rejects a call without touching the network.
var ErrCircuitOpen = errors.New("circuit breaker open")

// classify turns the final attempt of a call into either a usable Response
// or exactly one domain error.
func classify(method, target string, resp *Response, err error) (*Response, error) {
	if err != nil {
		var transportErr *domain.TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}

		return nil, domain.NewTransportError(method, target, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewInvalidTokensError(resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, domain.NewAPIError(resp.StatusCode, errorDetail(resp.Body), resp.Body)
	}

	body, ok := normalizeBody(resp.Body)
	if !ok {
		return nil, domain.NewInvalidJSONError(resp.StatusCode, resp.Body)
	}

	resp.Body = body

	return resp, nil
}

// errorDetail extracts the "message" field the LMS puts in error bodies.
func errorDetail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	msg, ok := payload["message"]
	if !ok || msg == nil {
		return ""
	}

	if s, ok := params.Scalar(msg); ok {
		return s
	}

	encoded, err := json.Marshal(msg)
	if err != nil {
		return ""
	}

	return string(encoded)
}

// normalizeBody maps empty and null bodies to {} and rejects invalid JSON.
func normalizeBody(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return json.RawMessage(`{}`), true
	}

	if !json.Valid(trimmed) {
		return nil, false
	}

	return json.RawMessage(trimmed), true
}
