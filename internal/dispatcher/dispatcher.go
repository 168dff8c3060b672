// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/dispatcher/execctx"
	"github.com/dshills/numconv/internal/dispatcher/handler"
)

// Dispatcher routes actions to handlers using namespace prefixes.
type Dispatcher struct {
	mu sync.RWMutex

	// Namespace handlers (e.g., "convert" handles "convert.*")
	namespaces map[string]handler.NamespaceHandler

	// Fallback handler for unmatched actions
	fallback handler.Handler

	recoverPanics bool
	logger        *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPanicRecovery turns handler panics into error results.
func WithPanicRecovery(enable bool) Option {
	return func(d *Dispatcher) {
		d.recoverPanics = enable
	}
}

// New creates a dispatcher. Panic recovery is on by default.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		namespaces:    make(map[string]handler.NamespaceHandler),
		recoverPanics: true,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegisterNamespace registers a handler for all actions in its namespace.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.namespaces[h.Namespace()] = h
}

// SetFallback sets the handler for actions no namespace claims.
func (d *Dispatcher) SetFallback(h handler.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = h
}

// Namespaces returns all registered namespace names, sorted.
func (d *Dispatcher) Namespaces() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.namespaces))
	for name := range d.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Route finds the handler for an action, or nil.
func (d *Dispatcher) Route(actionName string) handler.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if ns := ExtractNamespace(actionName); ns != "" {
		if h, ok := d.namespaces[ns]; ok && h.CanHandle(actionName) {
			return handler.NewNamespaceAdapter(h)
		}
	}
	return d.fallback
}

// Dispatch executes an action against ctx.
func (d *Dispatcher) Dispatch(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	h := d.Route(action.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	var result handler.Result
	if d.recoverPanics {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	if result.IsError() {
		d.logger.Debug("action failed", zap.String("action", action.Name), zap.Error(result.Error))
	} else {
		d.logger.Debug("action done",
			zap.String("action", action.Name),
			zap.Stringer("status", result.Status),
			zap.Int("edits", len(result.Edits)),
		)
	}
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action handler.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.Error("handler panic",
				zap.String("action", action.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", stack[:n]),
			)
			result = handler.Error(fmt.Errorf("%w in %s: %v", ErrPanic, action.Name, r))
		}
	}()

	return h.Handle(action, ctx)
}

// ExtractNamespace extracts the namespace from "namespace.action" format.
// Returns empty string if no namespace separator is found.
func ExtractNamespace(actionName string) string {
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return ns
}

// ExtractActionName extracts the action name without namespace.
// For "convert.hexToDec", returns "hexToDec".
func ExtractActionName(fullName string) string {
	_, name, ok := strings.Cut(fullName, ".")
	if !ok {
		return fullName
	}
	return name
}
