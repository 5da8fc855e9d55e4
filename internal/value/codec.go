package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every error Decode returns.
var ErrSyntax = errors.New("value: malformed document")

// Decode parses text as a single structured document.
// Surrounding whitespace is allowed; trailing data is not.
func Decode(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
	}

	v, err := FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return v, nil
}

// FromAny converts a generic Go tree, as produced by encoding/json or by the
// webview event bridge, into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		// Out-of-range literals such as 1e400 are valid syntax and saturate
		// to an infinity, which encodes back as null.
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("number %s: %w", x, err)
		}
		return Number(f), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case []any:
		seq := make(Sequence, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq[i] = v
		}
		return seq, nil
	case map[string]any:
		m := make(Mapping, len(x))
		for k, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			m[k] = v
		}
		return m, nil
	case Value:
		return x, nil
	}
	return nil, fmt.Errorf("unsupported type %T", raw)
}

// ToAny converts v into the plain Go tree encoding/json understands.
// Non-finite numbers become nil.
func ToAny(v Value) any {
	switch x := normalize(v).(type) {
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		if x == 0 {
			return float64(0) // -0 writes as 0
		}
		return float64(x)
	case String:
		return string(x)
	case Sequence:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToAny(item)
		}
		return out
	case Mapping:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = ToAny(item)
		}
		return out
	}
	return nil
}

// Encode returns the canonical text form of v: compact JSON, mapping keys
// sorted, no HTML escaping, non-finite numbers written as null.
func Encode(v Value) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// ToAny only yields types encoding/json always accepts.
	if err := enc.Encode(ToAny(v)); err != nil {
		return "null"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
