package bridge

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Result is the envelope every bridge call returns. Extra fields such as
// "filename" or "operation" are flattened into the same JSON object.
type Result struct {
	Success bool
	Data    any
	Error   string
	Extra   map[string]any

	hasData bool
}

// OK is a successful result carrying data, which may be nil.
func OK(data any) Result {
	return Result{Success: true, Data: data, hasData: true}
}

// Done is a successful result with no payload.
func Done() Result {
	return Result{Success: true}
}

// Fail converts err into a failed result.
func Fail(err error) Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	return Result{Error: msg}
}

// Failf is Fail with a formatted message.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Errorf(format, args...))
}

// With returns a copy of r with an extra top-level field.
func (r Result) With(key string, value any) Result {
	extra := make(map[string]any, len(r.Extra)+1)
	maps.Copy(extra, r.Extra)
	extra[key] = value
	r.Extra = extra
	return r
}

// HasData reports whether the result carries a data field.
func (r Result) HasData() bool {
	return r.hasData
}

// MarshalJSON writes {"success": ..., "data"|"error": ..., <extra>...}.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+2)
	maps.Copy(out, r.Extra)
	out["success"] = r.Success
	if r.Success {
		if r.hasData {
			out["data"] = r.Data
		}
	} else {
		msg := r.Error
		if msg == "" {
			msg = "unknown error"
		}
		out["error"] = msg
	}
	return json.Marshal(out)
}
