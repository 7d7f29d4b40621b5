package engine

import "errors"

var (
	// ErrNoSelection means the action needs selected text and none was given.
	ErrNoSelection = errors.New("this action requires a text selection")

	// ErrHandledExternally is a control signal, not a failure: the action was
	// routed to the citation manager and no suggestion will be produced.
	ErrHandledExternally = errors.New("action was routed to the citation manager")

	// ErrProviderUnavailable means no completion provider is configured.
	ErrProviderUnavailable = errors.New("no completion provider is configured; set a backend in quill.yaml or the environment")

	// ErrUnknownAction means the composite id matched nothing in the registry
	// snapshot.
	ErrUnknownAction = errors.New("unknown action id")

	// errSuperseded aborts a stale stream once a newer invocation has
	// published its own state.
	errSuperseded = errors.New("invocation superseded by a newer execute call")
)
