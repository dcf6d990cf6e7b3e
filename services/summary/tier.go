package summary

import "strings"

type Tier string

const (
	TierShort    Tier = "short"
	TierMedium   Tier = "medium"
	TierDetailed Tier = "detailed"
)

// Budget is the (max_length, min_length) token pair passed to the model.
type Budget struct {
	MaxLength int
	MinLength int
}

var budgets = map[Tier]Budget{
	TierShort:    {MaxLength: 80, MinLength: 30},
	TierMedium:   {MaxLength: 150, MinLength: 40},
	TierDetailed: {MaxLength: 250, MinLength: 80},
}

// ResolveTier maps a user supplied tier to a known one. Anything unknown
// becomes medium.
func ResolveTier(tier string) (Tier, Budget) {
	t := Tier(strings.ToLower(strings.TrimSpace(tier)))
	if b, ok := budgets[t]; ok {
		return t, b
	}
	return TierMedium, budgets[TierMedium]
}

func Tiers() []Tier {
	return []Tier{TierShort, TierMedium, TierDetailed}
}
