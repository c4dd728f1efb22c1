package http

import (
	"net/http"
	"time"

	mw "expense-workflow/internal/adapter/middleware"
	domain "expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/user"
	"expense-workflow/internal/usecase/expense"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ExpenseHandler struct{ uc *expense.Usecase }

func NewExpenseHandler(uc *expense.Usecase) *ExpenseHandler { return &ExpenseHandler{uc: uc} }

type createExpenseReq struct {
	Title          string          `json:"title"            validate:"required,min=2,max=150"`
	Description    string          `json:"description"      validate:"max=500"`
	Category       string          `json:"category"         validate:"required,min=2,max=100"`
	Amount         decimal.Decimal `json:"amount"           validate:"required,gt=0"`
	CurrencyCode   string          `json:"currency_code"    validate:"required,currency"`
	ExpenseDate    string          `json:"expense_date"     validate:"required,datetime=2006-01-02"`
	ReceiptURL     *string         `json:"receipt_url"      validate:"omitempty,url"`
	ApprovalRuleID *string         `json:"approval_rule_id" validate:"omitempty,hex32"`
}

type updateExpenseReq struct {
	Title        *string          `json:"title"         validate:"omitempty,min=2,max=150"`
	Description  *string          `json:"description"   validate:"omitempty,max=500"`
	Category     *string          `json:"category"      validate:"omitempty,min=2,max=100"`
	Amount       *decimal.Decimal `json:"amount"        validate:"omitempty,gt=0"`
	CurrencyCode *string          `json:"currency_code" validate:"omitempty,currency"`
	ExpenseDate  *string          `json:"expense_date"  validate:"omitempty,datetime=2006-01-02"`
	ReceiptURL   *string          `json:"receipt_url"   validate:"omitempty,url"`
}

type decisionReq struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  *string `json:"comment"  validate:"omitempty,max=500"`
}

func (h *ExpenseHandler) Create(c echo.Context) error {
	var req createExpenseReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	caller := mw.Caller(c)
	date, _ := time.Parse(dateLayout, req.ExpenseDate)
	dto, err := h.uc.Create(c.Request().Context(), expense.CreateInput{
		CompanyID:      caller.CompanyID,
		EmployeeID:     caller.UserID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Amount:         req.Amount,
		CurrencyCode:   req.CurrencyCode,
		ExpenseDate:    date,
		ReceiptURL:     req.ReceiptURL,
		ApprovalRuleID: req.ApprovalRuleID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ExpenseHandler) Update(c echo.Context) error {
	var req updateExpenseReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := expense.UpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		ReceiptURL:   req.ReceiptURL,
	}
	if req.ExpenseDate != nil {
		d, _ := time.Parse(dateLayout, *req.ExpenseDate)
		in.ExpenseDate = &d
	}
	caller := mw.Caller(c)
	dto, err := h.uc.Update(c.Request().Context(), caller.CompanyID, c.Param("expense_id"), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ExpenseHandler) Decide(c echo.Context) error {
	var req decisionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	caller := mw.Caller(c)
	dto, err := h.uc.RecordDecision(c.Request().Context(), expense.DecisionInput{
		CompanyID:  caller.CompanyID,
		ExpenseID:  c.Param("expense_id"),
		ApproverID: caller.UserID,
		Decision:   domain.Decision(req.Decision),
		Comment:    req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Get hides other employees' expenses from an employee caller.
func (h *ExpenseHandler) Get(c echo.Context) error {
	caller := mw.Caller(c)
	dto, err := h.uc.Get(c.Request().Context(), caller.CompanyID, c.Param("expense_id"))
	if err != nil {
		return writeError(c, err)
	}
	if caller.HasRole(user.RoleEmployee) && dto.EmployeeID != caller.UserID {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ExpenseHandler) ListMine(c echo.Context) error {
	caller := mw.Caller(c)
	list, err := h.uc.ListForEmployee(c.Request().Context(), caller.CompanyID, caller.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ExpenseHandler) ListCompany(c echo.Context) error {
	list, err := h.uc.ListForCompany(c.Request().Context(), mw.Caller(c).CompanyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ExpenseHandler) ListPending(c echo.Context) error {
	caller := mw.Caller(c)
	list, err := h.uc.ListPendingForApprover(c.Request().Context(), caller.CompanyID, caller.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
