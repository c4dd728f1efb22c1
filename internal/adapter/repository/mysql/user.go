package mysql

import (
	"context"
	"errors"

	"expense-workflow/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrEmailTaken
	}
	return translate(err, user.ErrNotFound)
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, translate(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	var out []user.User
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id ASC").Find(&out).Error
	return out, translate(err, user.ErrNotFound)
}
