// Package dispatcher routes actions to handlers and coordinates execution.
//
// Actions are named "namespace.action". The dispatcher looks up the
// handler registered for the namespace, checks that it claims the action,
// and runs it against an ExecutionContext built by the caller. Actions no
// namespace claims go to an optional fallback handler.
//
// # Handlers
//
// Namespace handlers implement handler.NamespaceHandler:
//
//	type NamespaceHandler interface {
//	    HandleAction(action handler.Action, ctx *execctx.ExecutionContext) handler.Result
//	    CanHandle(actionName string) bool
//	    Namespace() string
//	}
//
// # Usage
//
//	d := dispatcher.New(dispatcher.WithLogger(logger))
//	d.RegisterNamespace(convert.NewHandler(store))
//
//	ctx := execctx.New().
//	    WithEngine(buffer.NewBufferFromString(text)).
//	    WithCursors(cursor.NewCursorSet(cursor.NewCursorSelection(12)))
//	result := d.Dispatch(handler.NewAction("convert.hexToDec"), ctx)
//
// Handler panics are recovered and reported as error results wrapping
// ErrPanic unless WithPanicRecovery(false) is given.
package dispatcher
