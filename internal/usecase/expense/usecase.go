package expense

import (
	"context"
	"errors"
	"time"

	"expense-workflow/internal/domain/company"
	domain "expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/uow"
	"expense-workflow/internal/domain/user"
	"expense-workflow/internal/domain/workflow"
	"expense-workflow/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Converter turns an amount into another currency, returning the rate applied.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error)
}

// Usecase drives an expense from submission to a terminal decision.
type Usecase struct {
	repos uow.Repos
	tx    uow.UnitOfWork
	fx    Converter
	log   *zap.Logger
	now   func() time.Time
}

// NewUsecase: repos serve reads outside a tx; decisions commit through tx.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, fx Converter, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: repos, tx: tx, fx: fx, log: log, now: time.Now}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ExpenseDTO, error) {
	e := &domain.Expense{
		ExpenseID:    id.New(),
		CompanyID:    in.CompanyID,
		EmployeeID:   in.EmployeeID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		ExpenseDate:  dateOnly(in.ExpenseDate),
		ReceiptURL:   in.ReceiptURL,
		Amount:       in.Amount,
		CurrencyCode: in.CurrencyCode,
		Status:       domain.StatusPending,
	}
	if err := e.ValidateDetails(); err != nil {
		return nil, err
	}

	employee, err := u.repos.Users.GetByUserID(ctx, in.EmployeeID)
	if errors.Is(err, user.ErrNotFound) || (err == nil && employee.CompanyID != in.CompanyID) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	if !employee.HasRole(user.RoleEmployee) {
		return nil, domain.ErrNotEmployee
	}

	co, err := u.repos.Companies.GetByCompanyID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	r, err := u.resolveRule(ctx, in.CompanyID, in.ApprovalRuleID)
	if err != nil {
		return nil, err
	}
	seq := workflow.BuildSequence(employee, r)
	if len(seq) == 0 {
		return nil, domain.ErrNoApprovers
	}
	e.ApproverSequence = seq
	if r != nil {
		e.ApprovalRuleID = &r.RuleID
	}

	if err := u.convert(ctx, e, co); err != nil {
		return nil, err
	}

	if err := u.repos.Expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	u.log.Info("expense created",
		zap.String("expense_id", e.ExpenseID),
		zap.String("company_id", e.CompanyID),
		zap.Int("approvers", len(seq)),
	)
	return toDTO(e), nil
}

// Update applies a patch while the expense is pending. Admins may edit any
// expense of their company; everyone else only their own.
func (u *Usecase) Update(ctx context.Context, companyID, expenseID string, requester *user.User, in UpdateInput) (*ExpenseDTO, error) {
	e, err := u.load(ctx, companyID, expenseID)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}
	if !requester.HasRole(user.RoleAdmin) && e.EmployeeID != requester.UserID {
		return nil, domain.ErrNotOwner
	}

	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.ExpenseDate != nil {
		e.ExpenseDate = dateOnly(*in.ExpenseDate)
	}
	if in.ReceiptURL != nil {
		e.ReceiptURL = in.ReceiptURL
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.CurrencyCode != nil {
		e.CurrencyCode = *in.CurrencyCode
	}
	if err := e.ValidateDetails(); err != nil {
		return nil, err
	}

	if in.Amount != nil || in.CurrencyCode != nil {
		co, err := u.repos.Companies.GetByCompanyID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if err := u.convert(ctx, e, co); err != nil {
			return nil, err
		}
	}

	if err := u.repos.Expenses.UpdateDetailsIfPending(ctx, e); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			return nil, domain.ErrNotPending
		}
		return nil, err
	}
	return u.Get(ctx, companyID, expenseID)
}

// RecordDecision authorizes approverID against the current step, evaluates
// the decision, and commits the history entry together with the transition.
// A concurrent decision that already moved the expense yields ErrStaleState.
func (u *Usecase) RecordDecision(ctx context.Context, in DecisionInput) (*ExpenseDTO, error) {
	if !in.Decision.IsValid() {
		return nil, domain.ErrInvalidDecision
	}
	if in.Comment != nil && len([]rune(*in.Comment)) > 500 {
		return nil, domain.ErrCommentTooLong
	}

	e, err := u.load(ctx, in.CompanyID, in.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(e, in.ApproverID); err != nil {
		return nil, err
	}

	r, err := u.liveRule(ctx, e)
	if err != nil {
		return nil, err
	}

	entry := &domain.ApprovalEntry{
		ExpenseID:  e.ID,
		ApproverID: in.ApproverID,
		Decision:   in.Decision,
		Comment:    in.Comment,
		Timestamp:  u.now().UTC(),
	}
	history := append(append([]domain.ApprovalEntry(nil), e.ApprovalHistory...), *entry)
	out := workflow.Evaluate(e, history, r, in.Decision == domain.DecisionApproved)

	err = u.tx.WithinTx(ctx, func(repos uow.Repos) error {
		if err := repos.Expenses.TransitionIfCurrent(ctx, e.ID, e.CurrentStepIndex, out.To); err != nil {
			return err
		}
		return repos.Expenses.AppendEntry(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			u.log.Warn("decision lost to a concurrent writer",
				zap.String("expense_id", e.ExpenseID),
				zap.Int("expected_step", e.CurrentStepIndex),
			)
		}
		return nil, err
	}

	u.log.Info("expense decision recorded",
		zap.String("expense_id", e.ExpenseID),
		zap.String("approver_id", in.ApproverID),
		zap.String("decision", string(in.Decision)),
		zap.String("status", string(out.To.Status)),
		zap.Int("step", out.To.StepIndex),
		zap.String("reason", string(out.Reason)),
	)
	return u.Get(ctx, in.CompanyID, in.ExpenseID)
}

func (u *Usecase) Get(ctx context.Context, companyID, expenseID string) (*ExpenseDTO, error) {
	e, err := u.load(ctx, companyID, expenseID)
	if err != nil {
		return nil, err
	}
	return toDTO(e), nil
}

func (u *Usecase) ListForEmployee(ctx context.Context, companyID, employeeID string) ([]ExpenseDTO, error) {
	list, err := u.repos.Expenses.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (u *Usecase) ListForCompany(ctx context.Context, companyID string) ([]ExpenseDTO, error) {
	list, err := u.repos.Expenses.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

// ListPendingForApprover returns the pending expenses whose current step is approverID.
func (u *Usecase) ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]ExpenseDTO, error) {
	list, err := u.repos.Expenses.ListPendingByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	mine := list[:0]
	for _, e := range list {
		if current, ok := e.CurrentApprover(); ok && current == approverID {
			mine = append(mine, e)
		}
	}
	return toDTOs(mine), nil
}

func (u *Usecase) load(ctx context.Context, companyID, expenseID string) (*domain.Expense, error) {
	e, err := u.repos.Expenses.GetByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// resolveRule prefers an explicit rule of the company, then the company's
// earliest active rule; nil when there is none.
func (u *Usecase) resolveRule(ctx context.Context, companyID string, explicit *string) (*rule.ApprovalRule, error) {
	if explicit != nil && *explicit != "" {
		r, err := u.repos.Rules.GetByRuleID(ctx, *explicit)
		switch {
		case err == nil && r.CompanyID == companyID:
			return r, nil
		case err != nil && !errors.Is(err, rule.ErrNotFound):
			return nil, err
		}
	}
	active, err := u.repos.Rules.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

// liveRule re-reads the expense's rule; a rule deleted since creation evaluates as none.
func (u *Usecase) liveRule(ctx context.Context, e *domain.Expense) (*rule.ApprovalRule, error) {
	if e.ApprovalRuleID == nil || *e.ApprovalRuleID == "" {
		return nil, nil
	}
	r, err := u.repos.Rules.GetByRuleID(ctx, *e.ApprovalRuleID)
	if errors.Is(err, rule.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.CompanyID != e.CompanyID {
		return nil, nil
	}
	return r, nil
}

func (u *Usecase) convert(ctx context.Context, e *domain.Expense, co *company.Company) error {
	converted, rate, err := u.fx.Convert(ctx, e.Amount, e.CurrencyCode, co.CurrencyCode)
	if err != nil {
		u.log.Warn("currency conversion failed",
			zap.String("from", e.CurrencyCode),
			zap.String("to", co.CurrencyCode),
			zap.Error(err),
		)
		return err
	}
	e.ConvertedAmount = converted.Round(6)
	e.ConversionRate = rate.Round(10)
	e.CompanyCurrency = co.CurrencyCode
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
