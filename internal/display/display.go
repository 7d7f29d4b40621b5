package display

import (
	"fmt"
	"strings"

	"quill/internal/actions"
	"quill/internal/engine"
	"quill/internal/metrics"
)

const maxPreviewLength = 100

// FormatActionsCatalog renders the snapshot grouped by category, in the
// fixed category order.
func FormatActionsCatalog(snap *actions.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d action(s) available:\n", snap.Len()))
	for _, cat := range snap.ActiveCategories() {
		sb.WriteString(fmt.Sprintf("%s:\n", cat))
		for _, def := range snap.ByCategory(cat) {
			flags := ""
			if !def.RequiresSelection {
				flags += " [no selection needed]"
			}
			if def.OpensExternal {
				flags += " [external]"
			}
			sb.WriteString(fmt.Sprintf("  %-28s %s%s\n", def.CompositeID(), def.Title, flags))
		}
	}
	return sb.String()
}

// FormatSuggestion renders a before/after block for a finished suggestion.
func FormatSuggestion(s *engine.Suggestion) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Suggestion %s (%s):\n", s.ID, s.SourceAction.CompositeID()))
	sb.WriteString("--------------------------------------------------\n")
	sb.WriteString("Original:\n")
	sb.WriteString(indentBlock(s.OriginalText))
	sb.WriteString("Suggested:\n")
	sb.WriteString(indentBlock(s.SuggestedText))
	sb.WriteString("--------------------------------------------------")
	return sb.String()
}

// FormatSuggestionPreview is a one-line truncated rendering for logs.
func FormatSuggestionPreview(s *engine.Suggestion) string {
	preview := strings.ReplaceAll(s.SuggestedText, "\n", "\\n")
	if len(preview) > maxPreviewLength {
		preview = preview[:maxPreviewLength] + "..."
	}
	return fmt.Sprintf("[%s] %s: %s", s.ID, s.SourceAction.CompositeID(), preview)
}

func FormatInvocationMetrics(im *metrics.InvocationMetrics) string {
	if im == nil {
		return "No metrics available."
	}
	status := "ok"
	if !im.Succeeded {
		status = "err"
	}
	mode := "single"
	if im.Streaming {
		mode = "stream"
	}
	return fmt.Sprintf("Metrics: %s %s %d ms, %d chunk(s), %d chars [%s]",
		im.ActionID, mode, im.DurationMs, im.Chunks, im.OutputChars, status)
}

func indentBlock(text string) string {
	if text == "" {
		return "  (empty)\n"
	}
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
