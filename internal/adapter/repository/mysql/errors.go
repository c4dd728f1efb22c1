package mysql

import (
	"errors"

	"expense-workflow/internal/domain/apperr"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the domain taxonomy.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return apperr.External("storage failure", err)
	}
}
