package actions

// Builtins is the baseline action set the host ships with. Custom definitions
// override these by composite id; anything else is appended after them.
func Builtins() []Definition {
	return []Definition{
		{
			Category:          CategoryWriting,
			LocalID:           "continue",
			Title:             "Continue Writing",
			Icon:              "pencil.line",
			RequiresSelection: false,
			PromptTemplate:    "Continue the document \"{{document_title}}\" from where the text below leaves off. Match its tone and style.\n\n{{paragraph}}",
		},
		{
			Category:          CategoryWriting,
			LocalID:           "expand",
			Title:             "Expand",
			Icon:              "arrow.up.left.and.arrow.down.right",
			RequiresSelection: true,
			PromptTemplate:    "Expand the following passage with more detail and supporting argument, without changing its claims:\n\n{{selection}}",
		},
		{
			Category:          CategoryEditing,
			LocalID:           "fix-grammar",
			Title:             "Fix Grammar & Spelling",
			Icon:              "checkmark.circle",
			RequiresSelection: true,
			PromptTemplate:    "Correct any grammar, spelling, and punctuation mistakes in the following text. Change nothing else:\n\n{{selection}}",
		},
		{
			Category:          CategoryEditing,
			LocalID:           "tighten",
			Title:             "Tighten Prose",
			Icon:              "scissors",
			RequiresSelection: true,
			PromptTemplate:    "Rewrite the following text to be more concise. Preserve its meaning and tone:\n\n{{selection}}",
		},
		{
			Category:          CategoryEditing,
			LocalID:           "rephrase",
			Title:             "Rephrase",
			Icon:              "arrow.triangle.2.circlepath",
			RequiresSelection: true,
			PromptTemplate:    "Rephrase the following text in a fresh way while keeping its meaning. The surrounding section is \"{{section_heading}}\":\n\n{{selection}}",
		},
		{
			Category:          CategoryAnalysis,
			LocalID:           "summarize",
			Title:             "Summarize",
			Icon:              "list.bullet",
			RequiresSelection: true,
			PromptTemplate:    "Summarize the key points of the following text in a short paragraph:\n\n{{selection}}",
		},
		{
			Category:          CategoryAnalysis,
			LocalID:           "counterargue",
			Title:             "Find Counterarguments",
			Icon:              "arrow.left.arrow.right",
			RequiresSelection: true,
			PromptTemplate:    "List the strongest counterarguments to the claims made in the following text:\n\n{{selection}}",
		},
		{
			Category:          CategoryResearch,
			LocalID:           "key-terms",
			Title:             "Extract Key Terms",
			Icon:              "tag",
			RequiresSelection: true,
			PromptTemplate:    "Extract the key terms and named concepts from the following text as a comma-separated list:\n\n{{selection}}",
		},
		{
			Category:          CategoryCitations,
			LocalID:           "find-sources",
			Title:             "Find Sources",
			Icon:              "books.vertical",
			RequiresSelection: true,
			OpensExternal:     true,
			PromptTemplate:    "{{selection}}",
		},
	}
}
