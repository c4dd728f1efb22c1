package http

import (
	"net/http"

	mw "expense-workflow/internal/adapter/middleware"
	domainUser "expense-workflow/internal/domain/user"
	ucUser "expense-workflow/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *ucUser.Usecase }

func NewUserHandler(uc *ucUser.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type createUserReq struct {
	Name              string  `json:"name"                validate:"required,max=100"`
	Email             string  `json:"email"               validate:"required,email,max=255"`
	Role              string  `json:"role"                validate:"required,oneof=admin manager employee"`
	ManagerID         *string `json:"manager_id"          validate:"omitempty,hex32"`
	IsManagerApprover bool    `json:"is_manager_approver"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), mw.Caller(c).CompanyID, ucUser.CreateInput{
		Name:              req.Name,
		Email:             req.Email,
		Role:              domainUser.Role(req.Role),
		ManagerID:         req.ManagerID,
		IsManagerApprover: req.IsManagerApprover,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) List(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), mw.Caller(c).CompanyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
