package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	cases := map[string]Tier{
		"basic":      TierBasic,
		"Basic":      TierBasic,
		"FREE":       TierBasic,
		"standard":   TierStandard,
		" Standard ": TierStandard,
		"PREMIUM":    TierPremium,
		"":           TierUnknown,
		"gold":       TierUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseTier(in), "input %q", in)
	}
}

func TestCatalog(t *testing.T) {
	for _, tier := range []Tier{TierBasic, TierStandard, TierPremium} {
		o, ok := Lookup(tier)
		require.True(t, ok, tier.String())
		assert.Equal(t, tier, ParseTier(o.Name))
		assert.GreaterOrEqual(t, o.Quota(ShortLinks), ExpiredFloor)
	}

	std, _ := Lookup(TierStandard)
	assert.Equal(t, int64(2500), std.Amount)
	assert.Equal(t, 10, std.Quota(LongLinks))
	assert.Equal(t, 10, std.Quota(DesignImages))

	_, ok := Lookup(TierUnknown)
	assert.False(t, ok)
}
