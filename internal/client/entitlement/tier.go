package entitlement

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	// PlanWindow is how long a purchase keeps a plan active.
	PlanWindow = 30 * 24 * time.Hour
	// DefaultQuota applies when a live plan does not state a quota.
	DefaultQuota = 5
	// ExpiredFloor caps both display and additions once a plan has expired.
	ExpiredFloor = 5
)

// Tier is the closed set of subscription levels.
type Tier int

const (
	TierUnknown Tier = iota
	TierBasic
	TierStandard
	TierPremium
)

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierStandard:
		return "standard"
	case TierPremium:
		return "premium"
	default:
		return "unknown"
	}
}

// ParseTier maps a backend plan name to a Tier, ignoring case. "free" is the
// legacy name of the basic tier.
func ParseTier(name string) Tier {
	// a Caser is stateful, so one per call
	switch cases.Fold().String(strings.TrimSpace(name)) {
	case "basic", "free":
		return TierBasic
	case "standard":
		return TierStandard
	case "premium":
		return TierPremium
	default:
		return TierUnknown
	}
}

// Kind identifies a bounded collection.
type Kind int

const (
	ShortLinks Kind = iota
	LongLinks
	DesignImages
)

func (k Kind) String() string {
	switch k {
	case ShortLinks:
		return "short video links"
	case LongLinks:
		return "long video links"
	case DesignImages:
		return "design images"
	default:
		return "items"
	}
}

// Offer is a purchasable tier as listed on the pricing page. Amount is in
// minor currency units.
type Offer struct {
	Tier    Tier
	Name    string
	Amount  int64
	Links   int
	Designs int
}

// Catalog lists the tiers in display order.
var Catalog = []Offer{
	{Tier: TierBasic, Name: "Basic", Amount: 0, Links: 5, Designs: 5},
	{Tier: TierStandard, Name: "Standard", Amount: 2500, Links: 10, Designs: 10},
	{Tier: TierPremium, Name: "Premium", Amount: 5000, Links: 25, Designs: 25},
}

// Lookup returns the catalog entry of t.
func Lookup(t Tier) (Offer, bool) {
	for _, o := range Catalog {
		if o.Tier == t {
			return o, true
		}
	}
	return Offer{}, false
}

// Quota returns the nominal quota the offer grants for kind.
func (o Offer) Quota(kind Kind) int {
	if kind == DesignImages {
		return o.Designs
	}
	return o.Links
}
