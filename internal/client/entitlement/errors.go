package entitlement

import (
	"fmt"

	"github.com/dmitrijs2005/botfolio/internal/common"
)

// QuotaError is returned by Check when an addition would exceed the plan.
type QuotaError struct {
	Kind    Kind
	Tier    Tier
	Limit   int
	Expired bool
}

func (e *QuotaError) Error() string {
	if e.Expired {
		return fmt.Sprintf("your plan has expired: at most %d %s are allowed, renew your plan to add more", e.Limit, e.Kind)
	}
	return fmt.Sprintf("the %s plan allows at most %d %s, upgrade your plan to add more", e.Tier, e.Limit, e.Kind)
}

func (e *QuotaError) Unwrap() error { return common.ErrQuotaExceeded }
