package discount

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// LoyalLookup resolves a mobile number to an active loyal-customer discount.
// Absence is a normal outcome, not an error.
type LoyalLookup interface {
	// FindActive returns the active discount for the mobile number, or
	// (nil, nil) when there is none.
	FindActive(ctx context.Context, mobile string) (*LoyalDiscount, error)
}

// RepoLoyalLookup implements LoyalLookup against a LoyalRepository.
type RepoLoyalLookup struct {
	repo LoyalRepository
}

// NewRepoLoyalLookup creates a RepoLoyalLookup backed by the given repository.
func NewRepoLoyalLookup(repo LoyalRepository) *RepoLoyalLookup {
	return &RepoLoyalLookup{repo: repo}
}

// FindActive trims the mobile number and looks up the unique matching record.
// Inactive records are treated the same as missing ones.
func (l *RepoLoyalLookup) FindActive(ctx context.Context, mobile string) (*LoyalDiscount, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, nil
	}

	d, err := l.repo.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, ErrLoyalNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "lookup loyal discount")
	}
	if !d.Active {
		return nil, nil
	}
	return d, nil
}
