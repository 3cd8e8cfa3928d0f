package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a decoded LMS reply. Body is always valid JSON; empty and null
// bodies are stored as {}.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Map returns the body as a JSON object. Numbers decode as float64.
func (r *Response) Map() (map[string]any, error) {
	if r.IsList() {
		return nil, fmt.Errorf("decoding response body: expected object, got array")
	}

	var out map[string]any
	if err := r.Decode(&out); err != nil {
		return nil, err
	}

	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}

// List returns the body as a JSON array. An object body yields a
// one-element list so callers can iterate listings uniformly.
func (r *Response) List() ([]any, error) {
	if !r.IsList() {
		m, err := r.Map()
		if err != nil {
			return nil, err
		}

		if len(m) == 0 {
			return []any{}, nil
		}

		return []any{m}, nil
	}

	var out []any
	if err := r.Decode(&out); err != nil {
		return nil, err
	}

	return out, nil
}

// IsList reports whether the body is a top-level JSON array.
func (r *Response) IsList() bool {
	trimmed := bytes.TrimLeft(r.Body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// DecodeInto unmarshals the body of resp into a new T.
func DecodeInto[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, fmt.Errorf("decoding response body: nil response")
	}

	err := resp.Decode(&out)

	return out, err
}
