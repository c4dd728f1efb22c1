package http

import (
	mw "expense-workflow/internal/adapter/middleware"
	"expense-workflow/internal/domain/user"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Health    *Handler
	Companies *CompanyHandler
	Users     *UserHandler
	Expenses  *ExpenseHandler
	Rules     *RuleHandler

	// Identity source for Ax-User-Id
	Directory user.Repository
	// Applied to mutating expense and rule routes; nil disables replay protection
	Idempotency echo.MiddlewareFunc
}

// Register mounts every route. Identity runs first, then the role gate, then idempotency.
func Register(e *echo.Echo, r Routes) {
	admin := mw.RequireRole(user.RoleAdmin)
	approver := mw.RequireRole(user.RoleManager, user.RoleAdmin)
	employee := mw.RequireRole(user.RoleEmployee)
	writer := mw.RequireRole(user.RoleEmployee, user.RoleAdmin)
	idem := r.Idempotency
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	e.GET("/health", r.Health.Health)
	e.POST("/companies", r.Companies.Register)

	auth := mw.Identity(r.Directory)
	e.GET("/companies/me", r.Companies.Me, auth)
	e.GET("/users", r.Users.List, auth, admin)
	e.POST("/users", r.Users.Create, auth, admin)

	e.POST("/expenses", r.Expenses.Create, auth, employee, idem)
	e.GET("/expenses/mine", r.Expenses.ListMine, auth, employee)
	e.GET("/expenses", r.Expenses.ListCompany, auth, approver)
	e.GET("/expenses/pending", r.Expenses.ListPending, auth, approver)
	e.GET("/expenses/:expense_id", r.Expenses.Get, auth)
	e.PATCH("/expenses/:expense_id", r.Expenses.Update, auth, writer, idem)
	e.POST("/expenses/:expense_id/approval", r.Expenses.Decide, auth, approver, idem)

	e.GET("/approval-rules", r.Rules.List, auth, admin)
	e.POST("/approval-rules", r.Rules.Create, auth, admin, idem)
	e.PATCH("/approval-rules/:rule_id", r.Rules.Update, auth, admin, idem)
	e.DELETE("/approval-rules/:rule_id", r.Rules.Delete, auth, admin, idem)
}
