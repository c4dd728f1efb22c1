package user

import "context"

type Repository interface {
	// ErrEmailTaken when the email is already registered
	Create(ctx context.Context, u *User) error

	// Get by public user_id; ErrNotFound when missing
	GetByUserID(ctx context.Context, userID string) (*User, error)

	ListByCompany(ctx context.Context, companyID string) ([]User, error)
}
