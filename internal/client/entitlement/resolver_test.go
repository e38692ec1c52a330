package entitlement

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func fixed() time.Time { return now }

func plan(name string, age time.Duration, links, designs *int) *models.Plan {
	return &models.Plan{
		Name:         name,
		PurchasedAt:  models.TimePtr(now.Add(-age)),
		LinksAllowed: links,
		DesignLimit:  designs,
	}
}

type staticUser struct{ u *models.User }

func (s staticUser) CurrentUser() *models.User { return s.u }

func TestIsExpired_Boundary(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))

	cases := []struct {
		age  time.Duration
		want bool
	}{
		{0, false},
		{29*24*time.Hour + 23*time.Hour, false},
		{PlanWindow - time.Millisecond, false},
		{PlanWindow, true},
		{PlanWindow + time.Millisecond, true},
		{90 * 24 * time.Hour, true},
	}
	for _, tc := range cases {
		t.Run(tc.age.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, r.IsExpired(plan("standard", tc.age, nil, nil)))
		})
	}
}

func TestIsExpired_FailsClosed(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))

	assert.True(t, r.IsExpired(nil))
	assert.True(t, r.IsExpired(&models.Plan{Name: "premium"}))
	assert.True(t, r.IsExpired(plan("gold", time.Hour, nil, nil)))
	assert.True(t, r.IsExpired(plan("", time.Hour, nil, nil)))
}

func TestIsExpired_FollowsClock(t *testing.T) {
	clock := now
	r := NewResolver(nil, WithClock(func() time.Time { return clock }))
	p := plan("standard", 29*24*time.Hour, nil, nil)

	require.False(t, r.IsExpired(p))
	clock = clock.Add(24 * time.Hour)
	assert.True(t, r.IsExpired(p))
}

func TestQuotaFor(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))
	live := time.Hour
	dead := PlanWindow

	cases := []struct {
		name string
		plan *models.Plan
		kind Kind
		want int
	}{
		{"stated links", plan("standard", live, models.IntPtr(10), models.IntPtr(12)), ShortLinks, 10},
		{"stated designs", plan("standard", live, models.IntPtr(10), models.IntPtr(12)), DesignImages, 12},
		{"long links share quota", plan("premium", live, models.IntPtr(25), nil), LongLinks, 25},
		{"absent field defaults", plan("premium", live, nil, nil), DesignImages, DefaultQuota},
		{"expired caps at floor", plan("premium", dead, models.IntPtr(25), models.IntPtr(25)), ShortLinks, ExpiredFloor},
		{"expired below floor keeps nominal", plan("basic", dead, models.IntPtr(2), nil), ShortLinks, 2},
		{"nil plan", nil, ShortLinks, ExpiredFloor},
		{"negative clamps", plan("basic", live, models.IntPtr(-3), nil), LongLinks, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.QuotaFor(tc.plan, tc.kind))
		})
	}
}

func TestCanAdd_LiveStandard(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))
	p := plan("standard", time.Hour, models.IntPtr(10), nil)

	for n := 0; n < 10; n++ {
		assert.True(t, r.CanAdd(p, ShortLinks, n), "count %d", n)
	}
	assert.False(t, r.CanAdd(p, ShortLinks, 10))
	assert.False(t, r.CanAdd(p, ShortLinks, 11))
}

func TestExpiredPremium_FloorEnforced(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))
	p := plan("premium", 31*24*time.Hour, models.IntPtr(25), nil)

	items := make([]string, 12)
	for i := range items {
		items[i] = fmt.Sprintf("https://example.com/%d", i)
	}

	got := Visible(r, p, items)
	assert.Equal(t, items[:5], got)
	assert.Len(t, items, 12)
	assert.True(t, r.CanAdd(p, ShortLinks, 4))
	assert.False(t, r.CanAdd(p, ShortLinks, 5))
}

func TestVisible_DoesNotAliasStoredTail(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))
	items := []int{1, 2, 3, 4, 5, 6, 7}

	got := Visible(r, nil, items)
	got = append(got, 99)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 99}, got)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, items)
}

func TestVisible_LivePlanShowsAll(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))
	items := []string{"a", "b", "c", "d", "e", "f"}

	assert.Equal(t, items, Visible(r, plan("basic", time.Hour, nil, nil), items))
	assert.Nil(t, Visible[string](r, nil, nil))
}

func TestCheck(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))

	require.NoError(t, r.Check(plan("standard", time.Hour, models.IntPtr(10), nil), LongLinks, 9))

	err := r.Check(plan("Standard", time.Hour, models.IntPtr(10), nil), LongLinks, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQuotaExceeded))

	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, QuotaError{Kind: LongLinks, Tier: TierStandard, Limit: 10}, *qe)
	assert.Contains(t, err.Error(), "upgrade")

	err = r.Check(plan("premium", PlanWindow, models.IntPtr(25), nil), DesignImages, 5)
	require.True(t, errors.As(err, &qe))
	assert.True(t, qe.Expired)
	assert.Contains(t, err.Error(), "renew")
}

func TestRemainingDays(t *testing.T) {
	r := NewResolver(nil, WithClock(fixed))

	assert.Equal(t, 30, r.RemainingDays(plan("standard", time.Hour, nil, nil)))
	assert.Equal(t, 20, r.RemainingDays(plan("standard", 10*24*time.Hour+time.Minute, nil, nil)))
	assert.Equal(t, 1, r.RemainingDays(plan("standard", PlanWindow-time.Minute, nil, nil)))
	assert.Equal(t, 0, r.RemainingDays(plan("standard", PlanWindow, nil, nil)))
	assert.Equal(t, 0, r.RemainingDays(nil))
}

func TestCurrentPlan_ReadsSource(t *testing.T) {
	p := plan("standard", time.Hour, models.IntPtr(10), nil)
	r := NewResolver(staticUser{&models.User{Username: "bob_01", Plan: p}}, WithClock(fixed))

	assert.Same(t, p, r.CurrentPlan())
	assert.True(t, r.CanAddCurrent(ShortLinks, 9))
	assert.ErrorIs(t, r.CheckCurrent(ShortLinks, 10), common.ErrQuotaExceeded)

	loggedOut := NewResolver(staticUser{}, WithClock(fixed))
	assert.Nil(t, loggedOut.CurrentPlan())
	assert.Equal(t, ExpiredFloor, loggedOut.QuotaFor(loggedOut.CurrentPlan(), ShortLinks))
}
