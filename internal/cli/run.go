package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quill/internal/actions"
	"quill/internal/display"
	"quill/internal/document"
	"quill/internal/engine"
	"quill/internal/logger"
)

var (
	exportActions bool
	runDocPath    string
	runSelection  string
	runSingleShot bool
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List available editing actions",
	Run: func(cmd *cobra.Command, args []string) {
		snap := registry.Snapshot()
		if exportActions {
			fmt.Print(actions.Format(snap.All()))
			return
		}
		fmt.Print(display.FormatActionsCatalog(snap))
	},
}

var runCmd = &cobra.Command{
	Use:   "run <action-id>",
	Short: "Run one editing action over a selection",
	Long: `Run one action by composite id (e.g. editing.tighten). The selection comes
from --selection, or stdin when the flag is empty. With --doc, the selection
is located inside the given HTML document to build the prompt context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord := newCoordinator()
		def, err := coord.Lookup(args[0])
		if err != nil {
			return err
		}

		selection, err := resolveSelection()
		if err != nil {
			return err
		}
		store, err := resolveStore()
		if err != nil {
			return err
		}
		docCtx, rng := store.ContextFor(selection)

		sugg, err := runAction(context.Background(), coord, def, selection, rng, docCtx, os.Stderr)
		if errors.Is(err, engine.ErrHandledExternally) {
			fmt.Fprintln(os.Stderr, "Routed to the citation manager; no suggestion produced.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, display.FormatInvocationMetrics(coord.LastMetrics()))
		logger.Log.Printf("[CLI] %s", display.FormatSuggestionPreview(sugg))

		// accepted text goes to stdout so it can be piped back into a document
		if text, ok := coord.AcceptSuggestion(); ok {
			fmt.Print(text)
		}
		return nil
	},
}

func resolveSelection() (string, error) {
	if runSelection != "" {
		return runSelection, nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		// interactive terminal with no piped input: nothing selected
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read selection from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func resolveStore() (document.Store, error) {
	if runDocPath == "" {
		return document.StaticStore{}, nil
	}
	html, err := os.ReadFile(runDocPath)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", runDocPath, err)
	}
	return document.NewHTMLStore(string(html))
}

// runAction executes def, streaming by default, writing progress to out.
// Ctrl+C cancels the stream without failing the command.
func runAction(ctx context.Context, coord *engine.Coordinator, def actions.Definition, selection string, rng document.Range, docCtx document.Context, out io.Writer) (*engine.Suggestion, error) {
	if runSingleShot {
		return coord.Execute(ctx, def, selection, rng, docCtx)
	}

	updates, err := coord.ExecuteStreaming(ctx, def, selection, rng, docCtx)
	if err != nil {
		return nil, err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var last engine.Suggestion
	printed := 0
	done := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		for u := range updates {
			if u.Err != nil {
				return u.Err
			}
			last = u.Suggestion
			if len(last.SuggestedText) > printed {
				fmt.Fprint(out, last.SuggestedText[printed:])
				printed = len(last.SuggestedText)
			}
		}
		fmt.Fprintln(out)
		return nil
	})
	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			coord.Cancel()
		case <-done:
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if last.ID == "" {
		return nil, fmt.Errorf("stream cancelled before any output")
	}
	return &last, nil
}

func init() {
	actionsCmd.Flags().BoolVar(&exportActions, "export", false, "print the catalog in the action config grammar")
	runCmd.Flags().StringVar(&runDocPath, "doc", "", "HTML document to locate the selection in")
	runCmd.Flags().StringVar(&runSelection, "selection", "", "selected text (defaults to stdin)")
	runCmd.Flags().BoolVar(&runSingleShot, "single-shot", false, "one request/response instead of streaming")
}
