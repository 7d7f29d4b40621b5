package engine

import (
	"quill/internal/actions"
	"quill/internal/document"
)

// Suggestion pairs the original selection with the AI-proposed replacement.
// Snapshots handed to callers are value copies; the text only grows inside
// the coordinator while IsStreaming is true.
type Suggestion struct {
	ID            string
	OriginalText  string
	SuggestedText string
	SourceAction  actions.Definition
	TargetRange   document.Range
	IsStreaming   bool
}

// Phase is the lifecycle position of the coordinator's single suggestion
// slot.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// State is one published lifecycle value. Action is set while loading,
// Suggestion when ready, ErrMessage on error.
type State struct {
	Phase      Phase
	Action     *actions.Definition
	Suggestion *Suggestion
	ErrMessage string
}

func idleState() State { return State{Phase: PhaseIdle} }

func loadingState(action actions.Definition) State {
	return State{Phase: PhaseLoading, Action: &action}
}

func readyState(snapshot Suggestion) State {
	return State{Phase: PhaseReady, Suggestion: &snapshot}
}

func errorState(message string) State {
	return State{Phase: PhaseError, ErrMessage: message}
}
