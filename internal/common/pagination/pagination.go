// Package pagination holds the limit/offset contract shared by list endpoints.
// Limits above MaxLimit and negative offsets are rejected, not clamped.
package pagination

import (
	"strconv"

	apperrors "jucai-fund-backend/internal/common/errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Params struct {
	Limit  int
	Offset int
}

func Default() Params {
	return Params{Limit: DefaultLimit, Offset: 0}
}

func (p Params) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return apperrors.NewValidationError("limit", "must be between 1 and "+strconv.Itoa(MaxLimit))
	}
	if p.Offset < 0 {
		return apperrors.NewValidationError("offset", "must not be negative")
	}
	return nil
}

// Parse reads raw query values; empty strings fall back to defaults.
func Parse(limit, offset string) (Params, error) {
	p := Default()
	if limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil {
			return p, apperrors.NewValidationError("limit", "must be an integer")
		}
		p.Limit = v
	}
	if offset != "" {
		v, err := strconv.Atoi(offset)
		if err != nil {
			return p, apperrors.NewValidationError("offset", "must be an integer")
		}
		p.Offset = v
	}
	return p, p.Validate()
}
