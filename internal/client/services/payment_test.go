package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

type checkoutFunc func(ctx context.Context, o models.Order, offer entitlement.Offer) (models.PaymentConfirmation, error)

func (f checkoutFunc) Pay(ctx context.Context, o models.Order, offer entitlement.Offer) (models.PaymentConfirmation, error) {
	return f(ctx, o, offer)
}

func TestPurchase_Standard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "bob_01")

	var seen models.Order
	pay := checkoutFunc(func(ctx context.Context, o models.Order, offer entitlement.Offer) (models.PaymentConfirmation, error) {
		seen = o
		return e.checkout().Pay(ctx, o, offer)
	})

	u, err := e.payment.Purchase(ctx, entitlement.TierStandard, pay)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), seen.Amount)

	require.NotNil(t, u.Plan)
	assert.Equal(t, "standard", u.Plan.Name)
	assert.False(t, e.resolver.IsExpired(u.Plan))
	assert.Equal(t, 10, e.resolver.QuotaFor(u.Plan, entitlement.ShortLinks))
	assert.Equal(t, 10, e.resolver.QuotaFor(u.Plan, entitlement.DesignImages))

	me, err := e.api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "standard", me.Plan.Name)

	// the editor picks the new plan up on its next load
	ed, err := e.profile.Edit(ctx)
	require.NoError(t, err)
	for _, l := range links("s", 10) {
		require.NoError(t, ed.AddLink(entitlement.ShortLinks, l))
	}
}

func TestPurchase_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.payment.Purchase(ctx, entitlement.TierStandard, e.checkout())
	require.ErrorIs(t, err, ErrNotLoggedIn)

	e.signup(t, "bob_01")

	_, err = e.payment.Purchase(ctx, entitlement.TierBasic, e.checkout())
	require.ErrorIs(t, err, ErrFreePlan)

	_, err = e.payment.Purchase(ctx, entitlement.TierUnknown, e.checkout())
	require.Error(t, err)

	cancel := ConfirmCheckout{
		Confirm: func(context.Context, entitlement.Offer) (bool, error) { return false, nil },
		Next:    e.checkout(),
	}
	_, err = e.payment.Purchase(ctx, entitlement.TierPremium, cancel)
	require.ErrorIs(t, err, ErrPaymentCancelled)

	forged := checkoutFunc(func(_ context.Context, o models.Order, _ entitlement.Offer) (models.PaymentConfirmation, error) {
		return models.PaymentConfirmation{OrderID: o.ID, PaymentID: "pay_x", Signature: "00"}, nil
	})
	_, err = e.payment.Purchase(ctx, entitlement.TierPremium, forged)
	require.ErrorIs(t, err, client.ErrValidation)
	assert.True(t, e.store.IsAuthenticated())

	me, err := e.api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "basic", me.Plan.Name)
}

func TestButtonLabel(t *testing.T) {
	e := newEnv(t)
	now := e.clock.Now()

	user := func(name string, age time.Duration) *models.User {
		return &models.User{Plan: &models.Plan{Name: name, PurchasedAt: models.TimePtr(now.Add(-age))}}
	}

	tests := []struct {
		name string
		tier entitlement.Tier
		user *models.User
		want string
	}{
		{"active standard", entitlement.TierStandard, user("Standard", 24*time.Hour), LabelActive},
		{"expired standard", entitlement.TierStandard, user("standard", 31*24*time.Hour), LabelRenew},
		{"other paid tier", entitlement.TierPremium, user("standard", time.Hour), LabelPurchase},
		{"basic for paid user", entitlement.TierBasic, user("premium", time.Hour), LabelFree},
		{"legacy free name", entitlement.TierBasic, user("free", time.Hour), LabelActive},
		{"no user", entitlement.TierPremium, nil, LabelPurchase},
		{"no plan", entitlement.TierBasic, &models.User{}, LabelFree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.payment.ButtonLabel(tt.tier, tt.user))
		})
	}
}

func TestPlans_IsACopy(t *testing.T) {
	e := newEnv(t)
	plans := e.payment.Plans()
	require.Len(t, plans, len(entitlement.Catalog))
	plans[0].Amount = 99
	assert.Equal(t, int64(0), entitlement.Catalog[0].Amount)
}

func TestConfirmCheckout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "bob_01")

	var asked []string
	approve := ConfirmCheckout{
		Confirm: func(_ context.Context, o entitlement.Offer) (bool, error) {
			asked = append(asked, o.Name)
			return true, nil
		},
		Next: e.checkout(),
	}
	u, err := e.payment.Purchase(ctx, entitlement.TierStandard, approve)
	require.NoError(t, err)
	assert.Equal(t, "standard", u.Plan.Name)
	assert.Len(t, asked, 1)

	broken := ConfirmCheckout{
		Confirm: func(context.Context, entitlement.Offer) (bool, error) { return false, io.ErrUnexpectedEOF },
		Next:    e.checkout(),
	}
	_, err = e.payment.Purchase(ctx, entitlement.TierPremium, broken)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
