package user

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "expense-workflow/internal/domain/user"
	"expense-workflow/pkg/id"

	"go.uber.org/zap"
)

type CreateInput struct {
	Name              string
	Email             string
	Role              domain.Role
	ManagerID         *string
	IsManagerApprover bool
}

type UserDTO struct {
	UserID            string    `json:"user_id"`
	CompanyID         string    `json:"company_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	ManagerID         *string   `json:"manager_id,omitempty"`
	IsManagerApprover bool      `json:"is_manager_approver"`
	CreatedAt         time.Time `json:"created_at"`
}

type Usecase struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, log: log}
}

// Create adds a user to companyID. A manager reference must point at a
// manager or admin of the same company.
func (u *Usecase) Create(ctx context.Context, companyID string, in CreateInput) (*UserDTO, error) {
	usr := &domain.User{
		UserID:            id.New(),
		CompanyID:         companyID,
		Name:              strings.TrimSpace(in.Name),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Role:              in.Role,
		IsManagerApprover: in.IsManagerApprover,
	}
	if usr.Name == "" || usr.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if !usr.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if in.ManagerID != nil && *in.ManagerID != "" {
		mgr, err := u.repo.GetByUserID(ctx, *in.ManagerID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadManager
		}
		if err != nil {
			return nil, err
		}
		if mgr.CompanyID != companyID || !mgr.HasRole(domain.RoleManager, domain.RoleAdmin) {
			return nil, domain.ErrBadManager
		}
		usr.ManagerID = &mgr.UserID
	}
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, err
	}
	u.log.Info("user created", zap.String("user_id", usr.UserID), zap.String("role", string(usr.Role)))
	return toDTO(usr), nil
}

func (u *Usecase) List(ctx context.Context, companyID string) ([]UserDTO, error) {
	users, err := u.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *toDTO(&users[i]))
	}
	return out, nil
}

func toDTO(u *domain.User) *UserDTO {
	return &UserDTO{
		UserID:            u.UserID,
		CompanyID:         u.CompanyID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		ManagerID:         u.ManagerID,
		IsManagerApprover: u.IsManagerApprover,
		CreatedAt:         u.CreatedAt,
	}
}
