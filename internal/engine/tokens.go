package engine

// Rough completion budget sizing. Generation gets twice the estimated size of
// the selection plus headroom, clamped to a sane window; the provider's own
// limits still apply on top.
const (
	charsPerToken  = 4
	budgetHeadroom = 256
	minTokenBudget = 512
	maxTokenBudget = 4096
)

func tokenBudget(selectedText string) int {
	budget := (len(selectedText)/charsPerToken)*2 + budgetHeadroom
	if budget < minTokenBudget {
		return minTokenBudget
	}
	if budget > maxTokenBudget {
		return maxTokenBudget
	}
	return budget
}
