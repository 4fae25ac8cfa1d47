package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Args holds the validated arguments of one call, addressed by parameter name.
type Args struct {
	values map[string]json.RawMessage
}

// String returns a string argument, or "" if absent.
func (a Args) String(name string) string {
	return a.StringOr(name, "")
}

// StringOr returns a string argument, or def if absent.
func (a Args) StringOr(name, def string) string {
	var s string
	if !a.decode(name, &s) {
		return def
	}
	return s
}

// IntOr returns a numeric argument truncated to int, or def if absent.
func (a Args) IntOr(name string, def int) int {
	var f float64
	if !a.decode(name, &f) {
		return def
	}
	return int(f)
}

// Object returns an object argument, or nil if absent. Numbers are kept as
// json.Number so large integers survive unchanged.
func (a Args) Object(name string) map[string]any {
	raw, ok := a.values[name]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil
	}
	return m
}

func (a Args) decode(name string, v any) bool {
	raw, ok := a.values[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// bindArgs checks positional args against m.Params.
func bindArgs(m Method, args []json.RawMessage) (Args, error) {
	if len(args) > len(m.Params) {
		return Args{}, fmt.Errorf("%s: expected at most %d arguments, got %d", m.Name, len(m.Params), len(args))
	}

	values := make(map[string]json.RawMessage, len(m.Params))
	for i, p := range m.Params {
		var raw json.RawMessage
		if i < len(args) {
			raw = bytes.TrimSpace(args[i])
		}
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			if !p.Optional {
				return Args{}, fmt.Errorf("%s: missing required argument %q", m.Name, p.Name)
			}
			continue
		}
		if !json.Valid(raw) {
			return Args{}, fmt.Errorf("%s: argument %q is not valid JSON", m.Name, p.Name)
		}
		if got := jsonType(raw); got != p.Type {
			return Args{}, fmt.Errorf("%s: argument %q must be of type %s, got %s", m.Name, p.Name, p.Type, got)
		}
		values[p.Name] = raw
	}
	return Args{values: values}, nil
}

// jsonType classifies a valid, non-null JSON value by its first byte.
func jsonType(raw json.RawMessage) ParamType {
	switch raw[0] {
	case '"':
		return TypeString
	case '{':
		return TypeObject
	case 't', 'f':
		return TypeBool
	case '[':
		return "array"
	default:
		return TypeNumber
	}
}
