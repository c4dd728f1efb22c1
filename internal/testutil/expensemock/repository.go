package expensemock

import (
	"context"

	"expense-workflow/internal/domain/expense"
)

var _ expense.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies expense.Repository.
// Writes default to success, reads to context.Canceled.
type Repo struct {
	CreateFn                 func(ctx context.Context, e *expense.Expense) error
	GetByExpenseIDFn         func(ctx context.Context, expenseID string) (*expense.Expense, error)
	ListByCompanyFn          func(ctx context.Context, companyID string) ([]expense.Expense, error)
	ListByEmployeeFn         func(ctx context.Context, companyID, employeeID string) ([]expense.Expense, error)
	ListPendingByCompanyFn   func(ctx context.Context, companyID string) ([]expense.Expense, error)
	UpdateDetailsIfPendingFn func(ctx context.Context, e *expense.Expense) error
	TransitionIfCurrentFn    func(ctx context.Context, expenseNumericID uint64, expectedStep int, to expense.Transition) error
	AppendEntryFn            func(ctx context.Context, entry *expense.ApprovalEntry) error
}

func (m *Repo) Create(ctx context.Context, e *expense.Expense) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByExpenseID(ctx context.Context, expenseID string) (*expense.Expense, error) {
	if m.GetByExpenseIDFn != nil {
		return m.GetByExpenseIDFn(ctx, expenseID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByCompany(ctx context.Context, companyID string) ([]expense.Expense, error) {
	if m.ListByCompanyFn != nil {
		return m.ListByCompanyFn(ctx, companyID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]expense.Expense, error) {
	if m.ListByEmployeeFn != nil {
		return m.ListByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListPendingByCompany(ctx context.Context, companyID string) ([]expense.Expense, error) {
	if m.ListPendingByCompanyFn != nil {
		return m.ListPendingByCompanyFn(ctx, companyID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateDetailsIfPending(ctx context.Context, e *expense.Expense) error {
	if m.UpdateDetailsIfPendingFn != nil {
		return m.UpdateDetailsIfPendingFn(ctx, e)
	}
	return nil
}

func (m *Repo) TransitionIfCurrent(ctx context.Context, expenseNumericID uint64, expectedStep int, to expense.Transition) error {
	if m.TransitionIfCurrentFn != nil {
		return m.TransitionIfCurrentFn(ctx, expenseNumericID, expectedStep, to)
	}
	return nil
}

func (m *Repo) AppendEntry(ctx context.Context, entry *expense.ApprovalEntry) error {
	if m.AppendEntryFn != nil {
		return m.AppendEntryFn(ctx, entry)
	}
	return nil
}
