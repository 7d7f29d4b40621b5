package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"quill/internal/display"
	"quill/internal/document"
	"quill/internal/engine"
	"quill/internal/listener"
	"quill/internal/logger"
)

// runSession is the interactive mode: paste a selection, pick an action,
// watch the suggestion stream in, accept or reject it.
func runSession() {
	listener.AsyncPrintln("Quill ready. Paste a selection, or :actions / :reload / exit.")

	for {
		input := listener.GetInput()
		switch strings.ToLower(input) {
		case "exit", ":quit":
			fmt.Println("Goodbye!")
			return
		case "":
			continue
		case ":actions":
			listener.AsyncPrintln(display.FormatActionsCatalog(registry.Snapshot()))
			continue
		case ":reload":
			if err := registry.Reload(); err != nil {
				listener.AsyncPrintln(fmt.Sprintf("[Reload FAILED] %v", err))
				continue
			}
			listener.AsyncPrintln(fmt.Sprintf("Reloaded: %d action(s).", registry.Snapshot().Len()))
			continue
		}

		selection := input
		listener.AsyncPrintln("Action id (e.g. editing.tighten), or blank to cancel:")
		actionID := listener.GetInput()
		if actionID == "" {
			continue
		}

		coord := newCoordinator(engine.WithStateObserver(func(s engine.State) {
			if s.Phase == engine.PhaseLoading && s.Action != nil {
				logger.Log.Printf("[Session] loading %s", s.Action.CompositeID())
			}
		}))
		def, err := coord.Lookup(actionID)
		if err != nil {
			listener.AsyncPrintln(fmt.Sprintf("[Unknown action] %v", err))
			continue
		}

		docCtx, rng := document.StaticStore{}.ContextFor(selection)
		sugg, err := runAction(context.Background(), coord, def, selection, rng, docCtx, os.Stdout)
		switch {
		case errors.Is(err, engine.ErrHandledExternally):
			listener.AsyncPrintln("Sent to the citation manager.")
			continue
		case errors.Is(err, engine.ErrNoSelection):
			listener.AsyncPrintln("That action needs selected text.")
			continue
		case err != nil:
			listener.AsyncPrintln(fmt.Sprintf("[Action FAILED] %v", err))
			continue
		}

		listener.AsyncPrintln(display.FormatSuggestion(sugg))
		listener.AsyncPrintln(display.FormatInvocationMetrics(coord.LastMetrics()))

		if listener.AskYesNo("Accept this suggestion?") {
			if text, ok := coord.AcceptSuggestion(); ok {
				listener.AsyncPrintln("Accepted:\n" + text)
			}
		} else {
			coord.RejectSuggestion()
			listener.AsyncPrintln("Rejected.")
		}
	}
}
