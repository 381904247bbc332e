package discount

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Rejection is a deliberate business-rule refusal with a human-readable
// reason. It is carried alongside the error return so callers can tell
// "the rules said no" apart from "the lookup failed".
type Rejection struct {
	Reason string
}

// VoucherValidator validates a voucher code against the current order
// subtotal. It is a pure read: the usage counter is not touched here.
type VoucherValidator interface {
	// Validate returns exactly one of: the voucher (accepted), a rejection
	// (refused by a business rule), or an error (lookup I/O failure).
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Voucher, *Rejection, error)
}

// RepoValidator implements VoucherValidator against a VoucherRepository.
type RepoValidator struct {
	repo VoucherRepository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given repository.
func NewRepoValidator(repo VoucherRepository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate runs the checks in a fixed short-circuit order: empty code,
// unknown code, inactive, not yet valid, expired, minimum order not met,
// usage limit reached. The first failing check wins and its reason is
// surfaced verbatim to the user.
func (v *RepoValidator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Voucher, *Rejection, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &Rejection{Reason: "enter a voucher code"}, nil
	}

	vo, err := v.repo.FindByCode(ctx, strings.ToLower(code))
	if err != nil {
		if errors.Is(err, ErrVoucherNotFound) {
			return nil, &Rejection{Reason: "invalid voucher code"}, nil
		}
		return nil, nil, errors.Wrap(err, "lookup voucher")
	}

	if !vo.Active {
		return nil, &Rejection{Reason: "this voucher is inactive"}, nil
	}

	now := v.now()
	if vo.ValidFrom != nil && now.Before(startOfDay(*vo.ValidFrom)) {
		return nil, &Rejection{
			Reason: fmt.Sprintf("voucher is not active until %s", vo.ValidFrom.Format("2006-01-02")),
		}, nil
	}
	if vo.ValidUntil != nil && now.After(endOfDay(*vo.ValidUntil)) {
		return nil, &Rejection{Reason: "this voucher has expired"}, nil
	}

	if vo.MinOrderAmount != nil && subtotal.LessThan(*vo.MinOrderAmount) {
		return nil, &Rejection{
			Reason: fmt.Sprintf("minimum order of %s not met", vo.MinOrderAmount.StringFixed(2)),
		}, nil
	}

	if vo.UsageLimit > 0 && vo.TimesUsed >= vo.UsageLimit {
		return nil, &Rejection{Reason: "voucher usage limit reached"}, nil
	}

	return vo, nil, nil
}

// Validity windows are inclusive by calendar day: a voucher valid until the
// 15th is accepted all day on the 15th.

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
