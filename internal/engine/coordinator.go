// Package engine executes editing actions against a completion provider and
// owns the suggestion lifecycle: Idle -> Loading -> Ready/Error -> Idle.
//
// A Coordinator serves exactly one caller with at most one in-flight action.
// Starting a new invocation while another is pending supersedes it: the stale
// invocation is cancelled and any late results it produces are discarded
// rather than published over the newer state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quill/internal/actions"
	"quill/internal/citations"
	"quill/internal/document"
	"quill/internal/llm_client"
	"quill/internal/logger"
	"quill/internal/metrics"
	"quill/internal/prompt"
)

// Update is one element of a streaming invocation's output sequence. Err is
// set on the terminating element of a failed stream.
type Update struct {
	Suggestion Suggestion
	Err        error
}

// Coordinator orchestrates action invocations. All collaborators are
// constructor inputs so tests can substitute doubles.
type Coordinator struct {
	snap      *actions.Snapshot
	provider  llm_client.Provider
	citations citations.Manager
	onState   func(State)

	mu          sync.Mutex
	state       State
	generation  uint64
	cancel      context.CancelFunc
	processing  bool
	lastMetrics *metrics.InvocationMetrics
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStateObserver registers fn to receive every lifecycle value, in publish
// order. fn runs with the coordinator's lock held and must not call back into
// the coordinator.
func WithStateObserver(fn func(State)) Option {
	return func(c *Coordinator) { c.onState = fn }
}

// NewCoordinator builds a coordinator over a registry snapshot, a completion
// provider, and a citation manager. Either collaborator may be nil: a nil
// provider fails invocations with ErrProviderUnavailable, a nil citation
// manager drops external routing silently.
func NewCoordinator(snap *actions.Snapshot, provider llm_client.Provider, cm citations.Manager, opts ...Option) *Coordinator {
	c := &Coordinator{
		snap:      snap,
		provider:  provider,
		citations: cm,
		state:     idleState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Actions returns the registry snapshot this coordinator executes from.
func (c *Coordinator) Actions() *actions.Snapshot { return c.snap }

// Lookup resolves a composite id against the snapshot.
func (c *Coordinator) Lookup(compositeID string) (actions.Definition, error) {
	if def, ok := c.snap.Get(compositeID); ok {
		return def, nil
	}
	return actions.Definition{}, fmt.Errorf("%w: %s", ErrUnknownAction, compositeID)
}

// State returns the current lifecycle value.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsProcessing reports whether an invocation is in flight.
func (c *Coordinator) IsProcessing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// LastMetrics returns the metrics of the most recently finished invocation.
func (c *Coordinator) LastMetrics() *metrics.InvocationMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastMetrics == nil {
		return nil
	}
	m := *c.lastMetrics
	return &m
}

// Execute runs one action as a single request/response round trip. On
// success the coordinator is left in Ready holding the returned suggestion.
func (c *Coordinator) Execute(ctx context.Context, action actions.Definition, selectedText string, rng document.Range, docCtx document.Context) (*Suggestion, error) {
	if action.RequiresSelection && strings.TrimSpace(selectedText) == "" {
		return nil, ErrNoSelection
	}
	if action.OpensExternal {
		c.routeExternal(selectedText)
		return nil, ErrHandledExternally
	}

	gen, runCtx, cancel := c.begin(action)
	defer cancel()
	defer c.end(gen)

	im := c.newMetrics(action, false)
	defer func() {
		im.Finalize()
		c.recordMetrics(im)
	}()

	if c.provider == nil {
		c.publish(gen, errorState(ErrProviderUnavailable.Error()))
		im.Err = ErrProviderUnavailable.Error()
		return nil, ErrProviderUnavailable
	}

	resolved := prompt.Resolve(action.PromptTemplate, docCtx)
	out, err := c.provider.Complete(joinContexts(ctx, runCtx), resolved, selectedText, tokenBudget(selectedText))
	if err != nil {
		if isCancellation(err) {
			// cancellation leaves the lifecycle exactly where it was
			im.Err = err.Error()
			return nil, err
		}
		c.publish(gen, errorState(err.Error()))
		im.Err = err.Error()
		return nil, err
	}

	sugg := Suggestion{
		ID:            newSuggestionID(),
		OriginalText:  selectedText,
		SuggestedText: out,
		SourceAction:  action,
		TargetRange:   rng,
	}
	im.SuggestionID = sugg.ID
	im.Chunks = 1
	im.OutputChars = len(out)
	im.Succeeded = true
	c.publish(gen, readyState(sugg))
	return &sugg, nil
}

// ExecuteStreaming runs one action as a cancellable token stream. It returns
// a finite sequence of suggestion snapshots: every element but the last has
// IsStreaming true; a failed stream terminates with an element carrying Err.
// The sequence is not restartable, retry is a fresh call.
func (c *Coordinator) ExecuteStreaming(ctx context.Context, action actions.Definition, selectedText string, rng document.Range, docCtx document.Context) (<-chan Update, error) {
	if action.RequiresSelection && strings.TrimSpace(selectedText) == "" {
		return nil, ErrNoSelection
	}
	if action.OpensExternal {
		c.routeExternal(selectedText)
		return nil, ErrHandledExternally
	}

	gen, runCtx, cancel := c.begin(action)
	im := c.newMetrics(action, true)
	updates := make(chan Update, 8)

	go func() {
		defer close(updates)
		defer cancel()
		defer c.end(gen)
		defer func() {
			im.Finalize()
			c.recordMetrics(im)
		}()

		if c.provider == nil {
			c.publish(gen, errorState(ErrProviderUnavailable.Error()))
			im.Err = ErrProviderUnavailable.Error()
			c.yield(runCtx, updates, Update{Err: ErrProviderUnavailable})
			return
		}

		sugg := Suggestion{
			ID:           newSuggestionID(),
			OriginalText: selectedText,
			SourceAction: action,
			TargetRange:  rng,
			IsStreaming:  true,
		}
		im.SuggestionID = sugg.ID

		resolved := prompt.Resolve(action.PromptTemplate, docCtx)
		streamCtx := joinContexts(ctx, runCtx)
		err := c.provider.Stream(streamCtx, resolved, selectedText, tokenBudget(selectedText), func(chunk string) error {
			sugg.SuggestedText += chunk
			im.Chunks++
			im.OutputChars += len(chunk)
			if !c.publish(gen, readyState(sugg)) {
				return errSuperseded
			}
			if !c.yield(streamCtx, updates, Update{Suggestion: sugg}) {
				return streamCtx.Err()
			}
			return nil
		})

		if err != nil {
			im.Err = err.Error()
			if isCancellation(err) || errors.Is(err, errSuperseded) {
				// stop quietly: no Error transition, no trailing element
				return
			}
			c.publish(gen, errorState(err.Error()))
			c.yield(runCtx, updates, Update{Err: err})
			return
		}

		sugg.IsStreaming = false
		im.Succeeded = true
		c.publish(gen, readyState(sugg))
		c.yield(runCtx, updates, Update{Suggestion: sugg})
	}()

	return updates, nil
}

// AcceptSuggestion hands the suggested text to the caller and resets the
// lifecycle. It is one-shot: a second call finds Idle and returns false.
// Accepting mid-stream is allowed and returns the text accumulated so far.
func (c *Coordinator) AcceptSuggestion() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseReady || c.state.Suggestion == nil {
		return "", false
	}
	text := c.state.Suggestion.SuggestedText
	c.publishLocked(c.generation, idleState())
	return text, true
}

// RejectSuggestion discards any pending suggestion and resets to Idle.
func (c *Coordinator) RejectSuggestion() { c.ClearSuggestion() }

// ClearSuggestion unconditionally resets the lifecycle to Idle.
func (c *Coordinator) ClearSuggestion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked(c.generation, idleState())
}

// Cancel stops the in-flight invocation, if any. The lifecycle keeps
// whatever state it had at the moment of cancellation.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.processing = false
}

func (c *Coordinator) routeExternal(selectedText string) {
	if c.citations == nil {
		return
	}
	logger.Log.Printf("[Engine] routing selection to citation manager")
	c.citations.SearchForCitation(selectedText)
}

// begin opens a new invocation: it supersedes any pending one, publishes
// Loading, and flags processing.
func (c *Coordinator) begin(action actions.Definition) (uint64, context.Context, context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.processing = true
	c.publishLocked(gen, loadingState(action))
	return gen, runCtx, cancel
}

func (c *Coordinator) end(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.processing = false
	c.cancel = nil
}

func (c *Coordinator) publish(gen uint64, s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishLocked(gen, s)
}

// publishLocked installs a lifecycle value unless it comes from a superseded
// invocation. Holding the lock across the observer call keeps the published
// sequence strictly ordered.
func (c *Coordinator) publishLocked(gen uint64, s State) bool {
	if gen != c.generation {
		return false
	}
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
	return true
}

func (c *Coordinator) yield(ctx context.Context, updates chan<- Update, u Update) bool {
	select {
	case updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Coordinator) newMetrics(action actions.Definition, streaming bool) *metrics.InvocationMetrics {
	return &metrics.InvocationMetrics{
		ActionID:  action.CompositeID(),
		Streaming: streaming,
		Start:     time.Now(),
	}
}

func (c *Coordinator) recordMetrics(im *metrics.InvocationMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastMetrics = im
}

func newSuggestionID() string {
	return uuid.New().String()[:8]
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// joinContexts derives a context cancelled when either input is. The caller
// context carries deadlines and values; runCtx carries Cancel/supersede.
func joinContexts(caller, run context.Context) context.Context {
	if caller == nil || caller == context.Background() {
		return run
	}
	merged, cancel := context.WithCancel(caller)
	go func() {
		select {
		case <-run.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged
}
