package uow

import (
	"context"

	"expense-workflow/internal/domain/company"
	"expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/user"
)

// Repos bound to one transaction
type Repos struct {
	Companies company.Repository
	Users     user.Repository
	Rules     rule.Repository
	Expenses  expense.Repository
}

type UnitOfWork interface {
	// plain tx; fn's error rolls everything back
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
