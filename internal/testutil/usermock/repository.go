package usermock

import (
	"context"

	"expense-workflow/internal/domain/user"
)

var _ user.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies user.Repository.
type Repo struct {
	CreateFn        func(ctx context.Context, u *user.User) error
	GetByUserIDFn   func(ctx context.Context, userID string) (*user.User, error)
	ListByCompanyFn func(ctx context.Context, companyID string) ([]user.User, error)
}

func (m *Repo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	if m.ListByCompanyFn != nil {
		return m.ListByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

// Fixed returns a Repo whose GetByUserID serves users by their UserID.
func Fixed(users ...*user.User) *Repo {
	byID := make(map[string]*user.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return &Repo{GetByUserIDFn: func(_ context.Context, userID string) (*user.User, error) {
		if u, ok := byID[userID]; ok {
			return u, nil
		}
		return nil, user.ErrNotFound
	}}
}
