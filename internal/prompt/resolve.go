// Package prompt resolves action prompt templates against a document
// selection snapshot.
package prompt

import (
	"strings"

	"quill/internal/document"
)

// The fixed placeholder set. Anything else shaped like {{...}} is passed
// through untouched.
const (
	PlaceholderSelection      = "{{selection}}"
	PlaceholderParagraph      = "{{paragraph}}"
	PlaceholderDocumentTitle  = "{{document_title}}"
	PlaceholderSectionHeading = "{{section_heading}}"
)

// Resolve substitutes the placeholder set into template using ctx. It is a
// total, single-pass, non-recursive replacement: placeholder values that
// themselves contain placeholder syntax are not expanded again.
//
// Fallbacks for absent context fields: {{paragraph}} falls back to the
// selected text, {{document_title}} and {{section_heading}} to "".
func Resolve(template string, ctx document.Context) string {
	paragraph := ctx.SurroundingParagraph
	if paragraph == "" {
		paragraph = ctx.SelectedText
	}
	return strings.NewReplacer(
		PlaceholderSelection, ctx.SelectedText,
		PlaceholderParagraph, paragraph,
		PlaceholderDocumentTitle, ctx.DocumentTitle,
		PlaceholderSectionHeading, ctx.SectionHeading,
	).Replace(template)
}
