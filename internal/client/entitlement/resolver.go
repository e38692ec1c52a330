// Package entitlement turns a user's plan into enforceable limits on the
// bounded portfolio collections.
//
// Nothing here is cached: every answer is computed from the plan and the
// clock at the moment of the call, so a plan that expires between two
// requests is caught on the second one. A missing or unrecognised plan is
// treated as expired.
package entitlement

import (
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

// UserSource yields the logged-in user; *session.Store satisfies it.
type UserSource interface {
	CurrentUser() *models.User
}

type Option func(*Resolver)

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

type Resolver struct {
	src UserSource
	now func() time.Time
}

func NewResolver(src UserSource, opts ...Option) *Resolver {
	r := &Resolver{src: src, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// IsExpired reports whether the plan's 30-day window has elapsed. The
// boundary instant itself counts as expired. A nil plan, a plan without a
// purchase time and a plan whose name is not a known tier are also expired,
// so they get the ExpiredFloor treatment rather than their stated quotas.
func (r *Resolver) IsExpired(plan *models.Plan) bool {
	if plan == nil || plan.PurchasedAt == nil || ParseTier(plan.Name) == TierUnknown {
		return true
	}
	return r.now().Sub(*plan.PurchasedAt) >= PlanWindow
}

// QuotaFor returns how many items of kind the plan allows right now. An
// expired plan gets the smaller of its nominal quota and ExpiredFloor.
func (r *Resolver) QuotaFor(plan *models.Plan, kind Kind) int {
	q := nominal(plan, kind)
	if r.IsExpired(plan) {
		return min(q, ExpiredFloor)
	}
	return q
}

func nominal(plan *models.Plan, kind Kind) int {
	if plan == nil {
		return DefaultQuota
	}
	field := plan.LinksAllowed
	if kind == DesignImages {
		field = plan.DesignLimit
	}
	if field == nil {
		return DefaultQuota
	}
	return max(*field, 0)
}

// CanAdd reports whether one more item fits next to count existing ones.
func (r *Resolver) CanAdd(plan *models.Plan, kind Kind, count int) bool {
	return count < r.QuotaFor(plan, kind)
}

// Check is CanAdd with a user-facing reason.
func (r *Resolver) Check(plan *models.Plan, kind Kind, count int) error {
	expired := r.IsExpired(plan)
	limit := r.QuotaFor(plan, kind)
	if count < limit {
		return nil
	}
	tier := TierUnknown
	if plan != nil {
		tier = ParseTier(plan.Name)
	}
	return &QuotaError{Kind: kind, Tier: tier, Limit: limit, Expired: expired}
}

// Visible projects a stored collection for display: the first ExpiredFloor
// items of an expired plan, everything otherwise. The result shares the
// backing array but is clipped so appends cannot write into it.
func Visible[T any](r *Resolver, plan *models.Plan, items []T) []T {
	if !r.IsExpired(plan) || len(items) <= ExpiredFloor {
		return items
	}
	return items[:ExpiredFloor:ExpiredFloor]
}

// RemainingDays is the number of started days left in the plan window, 0
// once expired.
func (r *Resolver) RemainingDays(plan *models.Plan) int {
	if r.IsExpired(plan) {
		return 0
	}
	total := int(PlanWindow / (24 * time.Hour))
	elapsed := int(r.now().Sub(*plan.PurchasedAt) / (24 * time.Hour))
	return min(max(total-elapsed, 0), total)
}

// CurrentPlan is the plan of the session user, or nil when logged out.
func (r *Resolver) CurrentPlan() *models.Plan {
	if r.src == nil {
		return nil
	}
	if u := r.src.CurrentUser(); u != nil {
		return u.Plan
	}
	return nil
}

func (r *Resolver) CanAddCurrent(kind Kind, count int) bool {
	return r.CanAdd(r.CurrentPlan(), kind, count)
}

func (r *Resolver) CheckCurrent(kind Kind, count int) error {
	return r.Check(r.CurrentPlan(), kind, count)
}
