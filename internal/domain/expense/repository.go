package expense

import "context"

type Repository interface {
	Create(ctx context.Context, e *Expense) error

	// Get by public expense_id with approval history in submission order
	GetByExpenseID(ctx context.Context, expenseID string) (*Expense, error)

	ListByCompany(ctx context.Context, companyID string) ([]Expense, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Expense, error)
	ListPendingByCompany(ctx context.Context, companyID string) ([]Expense, error)

	// Persist editable fields only while the expense is still pending; ErrStaleState otherwise
	UpdateDetailsIfPending(ctx context.Context, e *Expense) error

	// Conditional update keyed on (pending, expectedStep); ErrStaleState when another writer won
	TransitionIfCurrent(ctx context.Context, expenseNumericID uint64, expectedStep int, to Transition) error

	AppendEntry(ctx context.Context, entry *ApprovalEntry) error
}
