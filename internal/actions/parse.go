package actions

import (
	"regexp"
	"strings"
)

// The action config grammar is a two-level, indentation-significant layout:
//
//	editing:
//	  fix-grammar:
//	    title: Fix Grammar
//	    icon: pencil
//	    prompt:
//	      Correct grammar and spelling in the text below.
//	      Keep the author's voice.
//
// Column 0 headers open a category, 2-space headers open an action, 4-space
// "key: value" lines set properties. A bare "prompt:" switches into block
// mode, collecting every following line indented >= 4 spaces (blank lines
// included) until a shallower line closes the block.
//
// Indentation is spaces only: a line whose leading run contains a tab is
// malformed and skipped, it never closes or feeds a block.
//
// Parsing is total and best-effort. A malformed line, an action with no
// title, or an action outside any category is dropped without failing the
// rest of the input.

const (
	actionIndent = 2
	propIndent   = 4
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCategory
	lineAction
	lineProperty
	lineText
	lineMalformed
)

type configLine struct {
	kind   lineKind
	indent int
	key    string
	value  string
	raw    string
}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]*$`)

// scanLine classifies one raw line by indentation and shape. The parser
// states reinterpret some kinds (comments and properties inside a prompt
// block are plain text).
func scanLine(raw string) configLine {
	indent := 0
	for indent < len(raw) && raw[indent] == ' ' {
		indent++
	}
	rest := raw[indent:]
	if strings.HasPrefix(rest, "\t") {
		// tabs in the indentation run are never legal
		return configLine{kind: lineMalformed, indent: indent, raw: raw}
	}
	if rest == "" {
		return configLine{kind: lineBlank, indent: indent, raw: raw}
	}
	if strings.HasPrefix(rest, "#") {
		return configLine{kind: lineComment, indent: indent, raw: raw}
	}

	key, value, hasColon := strings.Cut(rest, ":")
	value = strings.TrimSpace(value)
	validKey := hasColon && keyRe.MatchString(key)

	switch indent {
	case 0:
		if validKey && value == "" {
			return configLine{kind: lineCategory, indent: indent, key: key, raw: raw}
		}
		return configLine{kind: lineMalformed, indent: indent, raw: raw}
	case actionIndent:
		if validKey && value == "" {
			return configLine{kind: lineAction, indent: indent, key: key, raw: raw}
		}
		return configLine{kind: lineMalformed, indent: indent, raw: raw}
	case propIndent:
		if validKey {
			return configLine{kind: lineProperty, indent: indent, key: key, value: value, raw: raw}
		}
		return configLine{kind: lineText, indent: indent, raw: raw}
	default:
		if indent > propIndent {
			return configLine{kind: lineText, indent: indent, raw: raw}
		}
		return configLine{kind: lineMalformed, indent: indent, raw: raw}
	}
}

type parseState int

const (
	stateExpectCategory parseState = iota
	stateExpectAction
	stateCollectProperty
	stateCollectPromptBlock
)

type actionAccumulator struct {
	category          Category
	localID           string
	title             string
	icon              string
	prompt            string
	requiresSelection bool
	opensExternal     bool

	promptLines  []string
	promptIndent int
}

func newAccumulator(category Category, localID string) *actionAccumulator {
	return &actionAccumulator{
		category:          category,
		localID:           localID,
		requiresSelection: true,
	}
}

// flush emits the accumulated action, or nothing when it never gained a
// title. Categories outside the fixed set are left to the registry to drop.
func (a *actionAccumulator) flush(out []Definition) []Definition {
	if a == nil || a.title == "" {
		return out
	}
	return append(out, Definition{
		Category:          a.category,
		LocalID:           a.localID,
		Title:             a.title,
		PromptTemplate:    a.prompt,
		RequiresSelection: a.requiresSelection,
		OpensExternal:     a.opensExternal,
		Icon:              a.icon,
	})
}

func (a *actionAccumulator) appendPromptLine(ln configLine) {
	if ln.kind == lineBlank {
		a.promptLines = append(a.promptLines, "")
		return
	}
	if a.promptIndent == 0 {
		a.promptIndent = ln.indent
	}
	strip := a.promptIndent
	if ln.indent < strip {
		strip = ln.indent
	}
	a.promptLines = append(a.promptLines, ln.raw[strip:])
}

func (a *actionAccumulator) closePromptBlock() {
	a.prompt = trimBlankLines(a.promptLines)
	a.promptLines = nil
	a.promptIndent = 0
}

func trimBlankLines(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

type parser struct {
	state    parseState
	category Category
	current  *actionAccumulator
	defs     []Definition
}

// Parse turns raw config text into an ordered definition list. It is pure and
// total: malformed blocks are skipped, never surfaced, and empty input yields
// an empty list.
func Parse(text string) []Definition {
	p := &parser{state: stateExpectCategory}
	for _, raw := range strings.Split(text, "\n") {
		p.feed(scanLine(strings.TrimRight(raw, "\r")))
	}
	p.finish()
	return p.defs
}

func (p *parser) feed(ln configLine) {
	if p.state == stateCollectPromptBlock {
		if ln.kind == lineBlank || (ln.indent >= propIndent && ln.kind != lineMalformed) {
			p.current.appendPromptLine(ln)
			return
		}
		if ln.kind == lineMalformed {
			return
		}
		p.current.closePromptBlock()
		p.state = stateCollectProperty
		// fall through so the closing line is handled normally
	}

	switch ln.kind {
	case lineBlank, lineComment, lineMalformed:
		return
	case lineCategory:
		p.flushCurrent()
		p.category = Category(ln.key)
		p.state = stateExpectAction
	case lineAction:
		if p.category == "" {
			// header with no enclosing category: dropped
			return
		}
		p.flushCurrent()
		p.current = newAccumulator(p.category, ln.key)
		p.state = stateCollectProperty
	case lineProperty:
		if p.current == nil {
			return
		}
		p.setProperty(ln.key, ln.value)
	case lineText:
		// stray indented text outside a prompt block
		return
	}
}

func (p *parser) setProperty(key, value string) {
	switch key {
	case "title":
		p.current.title = value
	case "icon":
		p.current.icon = value
	case "requires_selection":
		if b, ok := parseBool(value); ok {
			p.current.requiresSelection = b
		}
	case "opens_external":
		if b, ok := parseBool(value); ok {
			p.current.opensExternal = b
		}
	case "prompt":
		if value != "" {
			p.current.prompt = value
			return
		}
		p.state = stateCollectPromptBlock
	default:
		// unknown property keys are ignored
	}
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

func (p *parser) flushCurrent() {
	if p.current != nil {
		p.defs = p.current.flush(p.defs)
		p.current = nil
	}
}

func (p *parser) finish() {
	if p.state == stateCollectPromptBlock {
		p.current.closePromptBlock()
	}
	p.flushCurrent()
}
