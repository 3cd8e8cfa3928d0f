// Package params holds the ordered parameter list sent to the LMS and the
// shared validation rules applied before a request leaves the process.
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Param is a single named request parameter.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered list of request parameters with unique names.
// The order is kept when the list is encoded as a query string or JSON object.
type Params []Param

// Of builds Params from alternating name/value arguments.
// It panics if a name is not a string or a value is missing.
func Of(pairs ...any) Params {
	if len(pairs)%2 != 0 {
		panic("params: Of requires name/value pairs")
	}

	p := make(Params, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("params: name at position %d is %T, not string", i, pairs[i]))
		}

		p = p.With(name, pairs[i+1])
	}

	return p
}

// FromMap converts a map into Params sorted by name.
func FromMap(m map[string]any) Params {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	p := make(Params, 0, len(names))
	for _, name := range names {
		p = append(p, Param{Name: name, Value: m[name]})
	}

	return p
}

// Get returns the value stored under name.
func (p Params) Get(name string) (any, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}

	return nil, false
}

// IsSet reports whether name is present with a non-nil value.
func (p Params) IsSet(name string) bool {
	v, ok := p.Get(name)
	return ok && v != nil
}

// With returns a copy of p with name set to value. An existing entry keeps
// its position; a new entry is appended.
func (p Params) With(name string, value any) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)

	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}

	return append(out, Param{Name: name, Value: value})
}

// Names returns parameter names in order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}

	return names
}

// Map returns the parameters as an unordered map.
func (p Params) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}

	return m
}

// Encode renders p as a URL query string in insertion order. Nil values are
// skipped, booleans become 1 or 0, and nested slices and maps use bracket
// notation (ids[0]=1&ids[1]=2).
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		appendQuery(&b, param.Name, reflect.ValueOf(param.Value))
	}

	return b.String()
}

func appendQuery(b *strings.Builder, key string, v reflect.Value) {
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		appendQuery(b, key, v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			appendQuery(b, key+"["+strconv.Itoa(i)+"]", v.Index(i))
		}
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			appendQuery(b, key+"["+fmt.Sprint(k.Interface())+"]", v.MapIndex(k))
		}
	default:
		s, ok := scalarValue(v)
		if !ok {
			s = fmt.Sprint(v.Interface())
		}
		if v.Kind() == reflect.Bool && !v.Bool() {
			s = "0"
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s))
	}
}

// MarshalJSON encodes p as a JSON object in insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", param.Name, err)
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into p keeping key order. Nested
// values decode as plain maps and slices.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("params: expected JSON object, got %v", tok)
	}

	out := Params{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("params: unexpected key %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding %q: %w", name, err)
		}

		out = out.With(name, value)
	}

	*p = out

	return nil
}

// Scalar returns the string form of a scalar value the way form encoding
// sees it: true is "1", false is "", numbers use their shortest decimal form.
// The second result is false for nil and for composite values.
func Scalar(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	if n, ok := v.(json.Number); ok {
		return n.String(), true
	}

	return scalarValue(reflect.ValueOf(v))
}

func scalarValue(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		if v.Bool() {
			return "1", true
		}
		return "", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}
