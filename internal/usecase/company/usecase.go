package company

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"expense-workflow/internal/domain/apperr"
	domain "expense-workflow/internal/domain/company"
	"expense-workflow/internal/domain/uow"
	"expense-workflow/internal/domain/user"
	"expense-workflow/pkg/id"

	"go.uber.org/zap"
)

var (
	ErrInvalidName    = apperr.Validation("company name must be 2-200 characters")
	ErrInvalidCountry = apperr.Validation("country code must be 2 letters")
)

// CountryResolver maps an ISO 3166 alpha-2 code to its home currency.
type CountryResolver interface {
	CountryCurrency(ctx context.Context, countryCode string) (string, error)
}

type RegisterInput struct {
	Name        string
	CountryCode string
	AdminName   string
	AdminEmail  string
}

type CompanyDTO struct {
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	CountryCode  string    `json:"country_code"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegistrationDTO struct {
	Company CompanyDTO `json:"company"`
	AdminID string     `json:"admin_user_id"`
}

type Usecase struct {
	repo      domain.Repository
	tx        uow.UnitOfWork
	countries CountryResolver
	log       *zap.Logger
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, countries CountryResolver, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, tx: tx, countries: countries, log: log}
}

// Register creates a company priced in its country's currency together with its first admin.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*RegistrationDTO, error) {
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Name)); n < 2 || n > 200 {
		return nil, ErrInvalidName
	}
	country := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if len(country) != 2 {
		return nil, ErrInvalidCountry
	}
	admin := &user.User{
		UserID: id.New(),
		Name:   strings.TrimSpace(in.AdminName),
		Email:  strings.ToLower(strings.TrimSpace(in.AdminEmail)),
		Role:   user.RoleAdmin,
	}
	if admin.Name == "" || admin.Email == "" {
		return nil, user.ErrInvalidInput
	}

	currencyCode, err := u.countries.CountryCurrency(ctx, country)
	if err != nil {
		return nil, err
	}

	c := &domain.Company{
		CompanyID:    id.New(),
		Name:         strings.TrimSpace(in.Name),
		CountryCode:  country,
		CurrencyCode: currencyCode,
	}
	admin.CompanyID = c.CompanyID

	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Companies.Create(ctx, c); err != nil {
			return err
		}
		return r.Users.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("company registered",
		zap.String("company_id", c.CompanyID),
		zap.String("country", country),
		zap.String("currency", currencyCode),
	)
	return &RegistrationDTO{Company: toDTO(c), AdminID: admin.UserID}, nil
}

func (u *Usecase) Get(ctx context.Context, companyID string) (*CompanyDTO, error) {
	c, err := u.repo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

func toDTO(c *domain.Company) CompanyDTO {
	return CompanyDTO{
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		CountryCode:  c.CountryCode,
		CurrencyCode: c.CurrencyCode,
		CreatedAt:    c.CreatedAt,
	}
}
