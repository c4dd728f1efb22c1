package workflow

import "expense-workflow/internal/domain/expense"

// Authorize checks that approverID may record a decision on e right now:
// the expense must be pending and approverID must sit at the current step.
func Authorize(e *expense.Expense, approverID string) error {
	if e.Status != expense.StatusPending {
		return expense.ErrAlreadyResolved
	}
	current, ok := e.CurrentApprover()
	if !ok || current != approverID {
		return expense.ErrNotAuthorised
	}
	return nil
}
