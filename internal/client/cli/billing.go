package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
)

func formatAmount(minor int64) string {
	if minor == 0 {
		return "free"
	}
	return fmt.Sprintf("₹%d.%02d", minor/100, minor%100)
}

func (a *App) Pricing(_ context.Context, _ []string) error {
	user := a.store.CurrentUser()
	for _, o := range a.paymentService.Plans() {
		a.printf("%-10s %-10s %3d links  %3d designs  [%s]\n",
			o.Name, formatAmount(o.Amount), o.Links, o.Designs, a.paymentService.ButtonLabel(o.Tier, user))
	}
	return nil
}

func (a *App) confirmPayment(_ context.Context, o entitlement.Offer) (bool, error) {
	return GetConfirmation(a.reader, fmt.Sprintf("Pay %s for the %s plan?", formatAmount(o.Amount), o.Name), a.out)
}

func (a *App) Buy(ctx context.Context, args []string) error {
	tier := entitlement.ParseTier(args[0])
	if tier == entitlement.TierUnknown {
		a.println("Usage: buy <standard|premium>")
		return nil
	}

	u, err := a.paymentService.Purchase(ctx, tier, a.checkout)
	if err != nil {
		return a.fail(err, "Payment failed")
	}

	a.mu.Lock()
	a.editor = nil
	a.mu.Unlock()

	a.println("Payment successful")
	a.printPlan(u.Plan)
	return nil
}
