package actions

import "strings"

// Format renders definitions back into the config grammar. Parsing the output
// reproduces an equal definition list, modulo the blank-line trimming the
// parser applies inside prompt blocks.
func Format(defs []Definition) string {
	var sb strings.Builder
	var lastCategory Category

	for _, def := range defs {
		if def.Category != lastCategory {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(string(def.Category))
			sb.WriteString(":\n")
			lastCategory = def.Category
		}
		sb.WriteString("  ")
		sb.WriteString(def.LocalID)
		sb.WriteString(":\n")
		writeProperty(&sb, "title", def.Title)
		if def.Icon != "" {
			writeProperty(&sb, "icon", def.Icon)
		}
		if !def.RequiresSelection {
			writeProperty(&sb, "requires_selection", "false")
		}
		if def.OpensExternal {
			writeProperty(&sb, "opens_external", "true")
		}
		writePrompt(&sb, def.PromptTemplate)
	}
	return sb.String()
}

func writeProperty(sb *strings.Builder, key, value string) {
	sb.WriteString("    ")
	sb.WriteString(key)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func writePrompt(sb *strings.Builder, prompt string) {
	if prompt == "" {
		return
	}
	if !strings.Contains(prompt, "\n") {
		writeProperty(sb, "prompt", prompt)
		return
	}
	sb.WriteString("    prompt:\n")
	for _, line := range strings.Split(prompt, "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
