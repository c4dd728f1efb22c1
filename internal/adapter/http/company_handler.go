package http

import (
	"net/http"

	mw "expense-workflow/internal/adapter/middleware"
	"expense-workflow/internal/usecase/company"

	"github.com/labstack/echo/v4"
)

type CompanyHandler struct{ uc *company.Usecase }

func NewCompanyHandler(uc *company.Usecase) *CompanyHandler { return &CompanyHandler{uc: uc} }

type registerCompanyReq struct {
	Name        string `json:"name"         validate:"required,min=2,max=200"`
	CountryCode string `json:"country_code" validate:"required,len=2,alpha"`
	AdminName   string `json:"admin_name"   validate:"required,max=100"`
	AdminEmail  string `json:"admin_email"  validate:"required,email,max=255"`
}

func (h *CompanyHandler) Register(c echo.Context) error {
	var req registerCompanyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), company.RegisterInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CompanyHandler) Me(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), mw.Caller(c).CompanyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
