// Package document holds the selection snapshot types the action engine
// consumes, plus an HTML-backed store that can build those snapshots from a
// real document. The engine never mutates document content; applying an
// accepted suggestion back is the host's job.
package document

// Range is an opaque position/length pair inside the host document. The
// engine carries it through unchanged so the host can apply an accepted
// suggestion back to the right place.
type Range struct {
	Start  int
	Length int
}

// Context is the immutable per-invocation snapshot a prompt template is
// resolved against. Only SelectedText is always present.
type Context struct {
	SelectedText         string
	SurroundingParagraph string
	DocumentTitle        string
	SectionHeading       string
}

// Store supplies selection snapshots on demand.
type Store interface {
	// ContextFor builds the snapshot for the given selected text, locating
	// it in the document when possible. A selection the store cannot find
	// still yields a valid context with only SelectedText set.
	ContextFor(selectedText string) (Context, Range)
}

// StaticStore wraps a fixed context, for hosts that track selection state
// themselves and for tests.
type StaticStore struct {
	Ctx Context
	Rng Range
}

func (s StaticStore) ContextFor(selectedText string) (Context, Range) {
	ctx := s.Ctx
	ctx.SelectedText = selectedText
	return ctx, s.Rng
}
