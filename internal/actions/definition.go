package actions

import "strings"

// Category is the fixed set of action groups. Custom definitions outside this
// set are dropped at merge time.
type Category string

const (
	CategoryWriting   Category = "writing"
	CategoryEditing   Category = "editing"
	CategoryAnalysis  Category = "analysis"
	CategoryResearch  Category = "research"
	CategoryCitations Category = "citations"
)

// Categories lists every valid category in display order. Category queries on
// the registry report in this order, not insertion order.
var Categories = []Category{
	CategoryWriting,
	CategoryEditing,
	CategoryAnalysis,
	CategoryResearch,
	CategoryCitations,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Definition is one named, categorized unit of AI-assisted editing behavior.
type Definition struct {
	Category          Category
	LocalID           string
	Title             string
	PromptTemplate    string
	RequiresSelection bool
	OpensExternal     bool
	Icon              string
}

// CompositeID is the unique key "<category>.<local-id>" identifying a
// definition within one registry snapshot.
func (d Definition) CompositeID() string {
	return string(d.Category) + "." + d.LocalID
}

// SplitCompositeID splits "<category>.<local-id>" back into its parts. The
// second return is false when the input has no dot separator.
func SplitCompositeID(id string) (Category, string, bool) {
	cat, local, ok := strings.Cut(id, ".")
	if !ok || cat == "" || local == "" {
		return "", "", false
	}
	return Category(cat), local, true
}
