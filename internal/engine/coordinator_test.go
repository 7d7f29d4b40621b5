package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/actions"
	"quill/internal/document"
	"quill/internal/llm_client"
)

// scriptedProvider plays back a fixed completion or chunk sequence.
type scriptedProvider struct {
	mu        sync.Mutex
	out       string
	err       error
	chunks    []string
	streamErr error
	blockCh   chan struct{} // when set, Stream parks on ctx after its chunks

	gotSystem string
	gotUser   string
	gotTokens int
}

func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted" }

func (p *scriptedProvider) record(system, user string, maxTokens int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gotSystem, p.gotUser, p.gotTokens = system, user, maxTokens
}

func (p *scriptedProvider) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	p.record(system, user, maxTokens)
	return p.out, p.err
}

func (p *scriptedProvider) Stream(ctx context.Context, system, user string, maxTokens int, fn func(string) error) error {
	p.record(system, user, maxTokens)
	for _, chunk := range p.chunks {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if p.blockCh != nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.streamErr
}

type recordingCitations struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordingCitations) SearchForCitation(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
}

// stateRecorder captures every published lifecycle value in order.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, len(r.states))
	for i, s := range r.states {
		out[i] = s.Phase
	}
	return out
}

func tightenAction() actions.Definition {
	return actions.Definition{
		Category:          actions.CategoryEditing,
		LocalID:           "tighten",
		Title:             "Tighten Prose",
		RequiresSelection: true,
		PromptTemplate:    "Rewrite: {{selection}}",
	}
}

func testSnapshot() *actions.Snapshot {
	reg := actions.NewRegistry([]actions.Definition{tightenAction()}, nil)
	return reg.Snapshot()
}

func drain(t *testing.T, updates <-chan Update) []Update {
	t.Helper()
	var out []Update
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatal("timed out draining updates")
		}
	}
}

func TestExecuteHappyPath(t *testing.T) {
	provider := &scriptedProvider{out: "tight text"}
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), provider, &recordingCitations{}, WithStateObserver(rec.observe))

	docCtx := document.Context{SelectedText: "loose, baggy text"}
	sugg, err := coord.Execute(context.Background(), tightenAction(), "loose, baggy text", document.Range{Start: 4, Length: 16}, docCtx)
	require.NoError(t, err)
	require.NotNil(t, sugg)

	assert.Equal(t, "loose, baggy text", sugg.OriginalText)
	assert.Equal(t, "tight text", sugg.SuggestedText)
	assert.False(t, sugg.IsStreaming)
	assert.Equal(t, "editing.tighten", sugg.SourceAction.CompositeID())
	assert.Equal(t, document.Range{Start: 4, Length: 16}, sugg.TargetRange)

	assert.Equal(t, []Phase{PhaseLoading, PhaseReady}, rec.phases())
	assert.Equal(t, "Rewrite: loose, baggy text", provider.gotSystem)
	assert.Equal(t, "loose, baggy text", provider.gotUser)
	assert.GreaterOrEqual(t, provider.gotTokens, minTokenBudget)
	assert.False(t, coord.IsProcessing())

	m := coord.LastMetrics()
	require.NotNil(t, m)
	assert.True(t, m.Succeeded)
	assert.Equal(t, "editing.tighten", m.ActionID)
}

func TestAcceptIsOneShot(t *testing.T) {
	coord := NewCoordinator(testSnapshot(), &scriptedProvider{out: "better"}, nil)
	_, err := coord.Execute(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	text, ok := coord.AcceptSuggestion()
	require.True(t, ok)
	assert.Equal(t, "better", text)
	assert.Equal(t, PhaseIdle, coord.State().Phase)

	text, ok = coord.AcceptSuggestion()
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, PhaseIdle, coord.State().Phase)
}

func TestRejectDiscardsSuggestion(t *testing.T) {
	coord := NewCoordinator(testSnapshot(), &scriptedProvider{out: "better"}, nil)
	_, err := coord.Execute(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	coord.RejectSuggestion()
	assert.Equal(t, PhaseIdle, coord.State().Phase)
	_, ok := coord.AcceptSuggestion()
	assert.False(t, ok)
}

func TestExecuteNoSelection(t *testing.T) {
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), &scriptedProvider{}, nil, WithStateObserver(rec.observe))

	_, err := coord.Execute(context.Background(), tightenAction(), "  ", document.Range{}, document.Context{})
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, rec.phases(), "precondition failures must not touch the lifecycle")
	assert.Equal(t, PhaseIdle, coord.State().Phase)
}

func TestExecuteRoutesExternal(t *testing.T) {
	cm := &recordingCitations{}
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), &scriptedProvider{}, cm, WithStateObserver(rec.observe))

	def := tightenAction()
	def.OpensExternal = true
	_, err := coord.Execute(context.Background(), def, "climate policy", document.Range{}, document.Context{})
	assert.ErrorIs(t, err, ErrHandledExternally)
	assert.Equal(t, []string{"climate policy"}, cm.queries)
	assert.Empty(t, rec.phases())
	assert.False(t, coord.IsProcessing())
}

func TestExecuteProviderUnavailable(t *testing.T) {
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), nil, nil, WithStateObserver(rec.observe))

	_, err := coord.Execute(context.Background(), tightenAction(), "text", document.Range{}, document.Context{SelectedText: "text"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, []Phase{PhaseLoading, PhaseError}, rec.phases())
}

func TestExecuteProviderError(t *testing.T) {
	provider := &scriptedProvider{err: &llm_client.ProviderError{Code: 429, Message: "rate limited"}}
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), provider, nil, WithStateObserver(rec.observe))

	_, err := coord.Execute(context.Background(), tightenAction(), "text", document.Range{}, document.Context{SelectedText: "text"})
	require.Error(t, err)
	var perr *llm_client.ProviderError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, []Phase{PhaseLoading, PhaseError}, rec.phases())
	assert.Contains(t, coord.State().ErrMessage, "rate limited")
}

func TestStreamingAccumulation(t *testing.T) {
	provider := &scriptedProvider{chunks: []string{"Hello", " ", "world"}}
	coord := NewCoordinator(testSnapshot(), provider, nil)

	updates, err := coord.ExecuteStreaming(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	got := drain(t, updates)
	require.Len(t, got, 4)

	wantTexts := []string{"Hello", "Hello ", "Hello world", "Hello world"}
	for i, u := range got {
		require.NoError(t, u.Err)
		assert.Equal(t, wantTexts[i], u.Suggestion.SuggestedText, "update %d", i)
		wantStreaming := i < 3
		assert.Equal(t, wantStreaming, u.Suggestion.IsStreaming, "update %d", i)
	}

	state := coord.State()
	require.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, "Hello world", state.Suggestion.SuggestedText)
	assert.False(t, state.Suggestion.IsStreaming)
	assert.False(t, coord.IsProcessing())
}

func TestStreamingFailureTerminatesSequence(t *testing.T) {
	provider := &scriptedProvider{
		chunks:    []string{"partial"},
		streamErr: &llm_client.ProviderError{Code: 500, Message: "backend exploded"},
	}
	coord := NewCoordinator(testSnapshot(), provider, nil)

	updates, err := coord.ExecuteStreaming(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	got := drain(t, updates)
	require.Len(t, got, 2)
	assert.Equal(t, "partial", got[0].Suggestion.SuggestedText)
	require.Error(t, got[1].Err)

	assert.Equal(t, PhaseError, coord.State().Phase)
	assert.Contains(t, coord.State().ErrMessage, "backend exploded")
	assert.False(t, coord.IsProcessing())
}

func TestCancellationSafety(t *testing.T) {
	provider := &scriptedProvider{chunks: []string{"partial"}, blockCh: make(chan struct{})}
	coord := NewCoordinator(testSnapshot(), provider, nil)

	updates, err := coord.ExecuteStreaming(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	first := <-updates
	require.NoError(t, first.Err)
	assert.Equal(t, "partial", first.Suggestion.SuggestedText)
	assert.True(t, coord.IsProcessing())

	before := coord.State()
	coord.Cancel()

	rest := drain(t, updates)
	assert.Empty(t, rest, "no further yields after cancellation")
	assert.False(t, coord.IsProcessing())

	after := coord.State()
	assert.NotEqual(t, PhaseError, after.Phase, "cancellation is not an error transition")
	assert.Equal(t, before.Phase, after.Phase)
}

func TestAcceptMidStream(t *testing.T) {
	provider := &scriptedProvider{chunks: []string{"Hel", "lo"}, blockCh: make(chan struct{})}
	coord := NewCoordinator(testSnapshot(), provider, nil)

	updates, err := coord.ExecuteStreaming(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)

	<-updates
	second := <-updates
	assert.True(t, second.Suggestion.IsStreaming)

	text, ok := coord.AcceptSuggestion()
	require.True(t, ok)
	assert.Equal(t, "Hello", text, "accepting mid-stream returns the text accumulated so far")

	coord.Cancel()
	drain(t, updates)
}

func TestSupersedeDiscardsStaleResults(t *testing.T) {
	provider := &scriptedProvider{
		chunks:  []string{"old"},
		blockCh: make(chan struct{}),
		out:     "new",
	}
	rec := &stateRecorder{}
	coord := NewCoordinator(testSnapshot(), provider, nil, WithStateObserver(rec.observe))

	updates, err := coord.ExecuteStreaming(context.Background(), tightenAction(), "orig", document.Range{}, document.Context{SelectedText: "orig"})
	require.NoError(t, err)
	first := <-updates
	assert.Equal(t, "old", first.Suggestion.SuggestedText)

	// a second invocation supersedes the pending stream
	sugg, err := coord.Execute(context.Background(), tightenAction(), "orig2", document.Range{}, document.Context{SelectedText: "orig2"})
	require.NoError(t, err)
	assert.Equal(t, "new", sugg.SuggestedText)

	drain(t, updates)

	phases := rec.phases()
	require.GreaterOrEqual(t, len(phases), 4)
	assert.Equal(t, []Phase{PhaseLoading, PhaseReady, PhaseLoading, PhaseReady}, phases)

	state := coord.State()
	require.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, "new", state.Suggestion.SuggestedText, "stale stream must not overwrite the newer result")
}

func TestLookup(t *testing.T) {
	coord := NewCoordinator(testSnapshot(), nil, nil)

	def, err := coord.Lookup("editing.tighten")
	require.NoError(t, err)
	assert.Equal(t, "Tighten Prose", def.Title)

	_, err = coord.Lookup("editing.missing")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTokenBudget(t *testing.T) {
	assert.Equal(t, minTokenBudget, tokenBudget(""))
	assert.Equal(t, minTokenBudget, tokenBudget("short"))

	long := make([]byte, 40000)
	assert.Equal(t, maxTokenBudget, tokenBudget(string(long)))

	mid := make([]byte, 4000)
	assert.Equal(t, (4000/charsPerToken)*2+budgetHeadroom, tokenBudget(string(mid)))
}
