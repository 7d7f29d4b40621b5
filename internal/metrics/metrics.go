package metrics

import "time"

// InvocationMetrics records timing and volume for one action execution.
type InvocationMetrics struct {
	SuggestionID string    `json:"suggestion_id"`
	ActionID     string    `json:"action_id"`
	Streaming    bool      `json:"streaming"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationMs   int64     `json:"duration_ms"`
	Chunks       int       `json:"chunks"`
	OutputChars  int       `json:"output_chars"`
	Succeeded    bool      `json:"succeeded"`
	Err          string    `json:"err,omitempty"`
}

// Compute derived fields once the invocation ends.
func (m *InvocationMetrics) Finalize() {
	m.End = time.Now()
	m.DurationMs = m.End.Sub(m.Start).Milliseconds()
}
