package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/cryptox"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// Checkout collects payment for an order. It returns ErrPaymentCancelled
// when the user backs out.
type Checkout interface {
	Pay(ctx context.Context, order models.Order, offer entitlement.Offer) (models.PaymentConfirmation, error)
}

// DevCheckout approves every order, signing it with the secret shared with
// the mock API.
type DevCheckout struct {
	Secret []byte
}

func (c DevCheckout) Pay(_ context.Context, order models.Order, _ entitlement.Offer) (models.PaymentConfirmation, error) {
	paymentID := "pay_" + uuid.NewString()
	return models.PaymentConfirmation{
		OrderID:   order.ID,
		PaymentID: paymentID,
		Signature: cryptox.SignPayment(c.Secret, order.ID, paymentID),
	}, nil
}

// ConfirmCheckout asks before handing the order to Next and returns
// ErrPaymentCancelled when the answer is no.
type ConfirmCheckout struct {
	Confirm func(ctx context.Context, offer entitlement.Offer) (bool, error)
	Next    Checkout
}

func (c ConfirmCheckout) Pay(ctx context.Context, order models.Order, offer entitlement.Offer) (models.PaymentConfirmation, error) {
	ok, err := c.Confirm(ctx, offer)
	if err != nil {
		return models.PaymentConfirmation{}, err
	}
	if !ok {
		return models.PaymentConfirmation{}, ErrPaymentCancelled
	}
	return c.Next.Pay(ctx, order, offer)
}

// Pricing button labels.
const (
	LabelActive   = "Active Plan"
	LabelRenew    = "Renew Plan"
	LabelFree     = "Get Started"
	LabelPurchase = "Buy Now"
)

type PaymentService interface {
	Plans() []entitlement.Offer
	// ButtonLabel is the pricing-page action for tier given the user's plan.
	ButtonLabel(tier entitlement.Tier, user *models.User) string
	// Purchase runs the order/checkout/verify flow and returns the user as
	// the API sees it afterwards.
	Purchase(ctx context.Context, tier entitlement.Tier, checkout Checkout) (*models.User, error)
}

type paymentService struct {
	client   client.Client
	sessions Sessions
	resolver *entitlement.Resolver
	log      logging.Logger
}

func NewPaymentService(c client.Client, sessions Sessions, r *entitlement.Resolver, log logging.Logger) PaymentService {
	if log == nil {
		log = logging.Nop()
	}
	return &paymentService{client: c, sessions: sessions, resolver: r, log: log.With("component", "payment")}
}

func (s *paymentService) Plans() []entitlement.Offer {
	out := make([]entitlement.Offer, len(entitlement.Catalog))
	copy(out, entitlement.Catalog)
	return out
}

func (s *paymentService) ButtonLabel(tier entitlement.Tier, user *models.User) string {
	offer, _ := entitlement.Lookup(tier)
	var plan *models.Plan
	if user != nil {
		plan = user.Plan
	}
	if plan != nil && tier != entitlement.TierUnknown && entitlement.ParseTier(plan.Name) == tier {
		if s.resolver.IsExpired(plan) {
			return LabelRenew
		}
		return LabelActive
	}
	if offer.Amount == 0 {
		return LabelFree
	}
	return LabelPurchase
}

func (s *paymentService) Purchase(ctx context.Context, tier entitlement.Tier, checkout Checkout) (*models.User, error) {
	if !s.sessions.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	offer, ok := entitlement.Lookup(tier)
	if !ok {
		return nil, invalid("plan", "Unknown plan")
	}
	if offer.Amount == 0 {
		return nil, ErrFreePlan
	}

	order, err := s.client.CreateOrder(ctx, offer.Amount, offer.Tier.String())
	if err != nil {
		return nil, guard(ctx, s.sessions, err)
	}
	s.log.Debug(ctx, "order created", "order", order.ID, "amount", order.Amount, "currency", order.Currency)

	conf, err := checkout.Pay(ctx, *order, offer)
	if err != nil {
		return nil, err
	}
	conf.PlanName = offer.Tier.String()

	if err := s.client.VerifyPayment(ctx, conf); err != nil {
		return nil, guard(ctx, s.sessions, fmt.Errorf("payment verification failed: %w", err))
	}
	s.log.Info(ctx, "plan purchased", "plan", conf.PlanName, "order", conf.OrderID)

	u, err := s.client.Me(ctx)
	if err != nil {
		return nil, guard(ctx, s.sessions, err)
	}
	return u, nil
}
