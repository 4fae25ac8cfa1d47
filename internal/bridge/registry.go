package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ParamType is the JSON type a bridge argument must have.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
	TypeBool   ParamType = "boolean"
	TypeObject ParamType = "object"
)

// Param declares one positional argument of a bridge method.
type Param struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Optional bool      `json:"optional,omitempty"`
}

// Handler runs a bridge method with validated arguments.
type Handler func(args Args) Result

// Method is a named, callable bridge operation.
type Method struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// MethodInfo describes a registered method to the page.
type MethodInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Params      []Param `json:"params"`
}

// Registry maps method names to handlers. Only registered methods are
// callable from the page, and calls run one at a time.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Method

	callMu sync.Mutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		methods: map[string]Method{},
	}
}

// Register adds m. Names must be unique and non-empty.
func (r *Registry) Register(m Method) error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return fmt.Errorf("method name is empty")
	}
	if m.Handler == nil {
		return fmt.Errorf("method %s has no handler", name)
	}
	seen := map[string]bool{}
	optional := false
	for _, p := range m.Params {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("method %s: invalid or duplicate parameter %q", name, p.Name)
		}
		if optional && !p.Optional {
			return fmt.Errorf("method %s: required parameter %q follows an optional one", name, p.Name)
		}
		seen[p.Name] = true
		optional = p.Optional
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[name]; exists {
		return fmt.Errorf("method already registered: %s", name)
	}
	m.Name = name
	r.methods[name] = m
	return nil
}

// MustRegister is Register for the fixed method table; it panics on error.
func (r *Registry) MustRegister(methods ...Method) {
	for _, m := range methods {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the method registered under name.
func (r *Registry) Lookup(name string) (Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	return m, ok
}

// Methods lists registered methods sorted by name.
func (r *Registry) Methods() []MethodInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.methods)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) MethodInfo {
		m := r.methods[name]
		params := m.Params
		if params == nil {
			params = []Param{}
		}
		return MethodInfo{Name: m.Name, Description: m.Description, Params: params}
	})
}

// Call validates args against the method's parameters and runs it. It never
// panics: unknown methods, bad arguments and handler panics all come back as
// failed results.
func (r *Registry) Call(name string, args []json.RawMessage) (res Result) {
	callID := uuid.NewString()
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			slog.Error("bridge: handler panicked", "call_id", callID, "method", name, "panic", p)
			res = Failf("internal error in %s: %v", name, p)
		}
		if res.Success {
			slog.Debug("bridge: call", "call_id", callID, "method", name, "duration", time.Since(start))
		} else {
			slog.Warn("bridge: call failed", "call_id", callID, "method", name, "duration", time.Since(start), "error", res.Error)
		}
	}()

	m, ok := r.Lookup(name)
	if !ok {
		return Failf("Unknown method: %s", name)
	}

	parsed, err := bindArgs(m, args)
	if err != nil {
		return Fail(err)
	}

	r.callMu.Lock()
	defer r.callMu.Unlock()
	return m.Handler(parsed)
}
