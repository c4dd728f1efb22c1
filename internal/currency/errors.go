package currency

import "expense-workflow/internal/domain/apperr"

var (
	ErrRateUnavailable   = apperr.External("conversion rate not available", nil)
	ErrNoCountryCurrency = apperr.Validation("no currency found for country code")
)
