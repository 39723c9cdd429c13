package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Scope controls which distributors a rule applies to.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeDistributor Scope = "distributor"
)

// Tier overrides the base rate once a monthly volume threshold is met.
// A nil override falls back to the value in force below the tier.
type Tier struct {
	MinVolume int64            `json:"min_volume"`
	Fixed     *decimal.Decimal `json:"fixed,omitempty"`
	Percent   *decimal.Decimal `json:"percent,omitempty"`
}

// Rule prices distributor commission as a fixed amount per transaction plus
// a percentage of the transaction amount, with optional volume tiers.
// Tiers are kept sorted by descending MinVolume from the moment the rule is
// stored, so resolution is a pure scan.
type Rule struct {
	ID            snowflake.ID `json:"id"`
	Name          string       `json:"name"`
	Code          string       `json:"code"`
	Scope         Scope        `json:"scope"`
	DistributorID snowflake.ID `json:"distributor_id,omitempty"`

	BaseFixed   decimal.Decimal `json:"base_fixed"`
	BasePercent decimal.Decimal `json:"base_percent"`
	Tiers       []Tier          `json:"tiers"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Rule) RecordID() snowflake.ID { return r.ID }

// Rate is an effective commission rate after tier resolution.
type Rate struct {
	Fixed   decimal.Decimal `json:"fixed"`
	Percent decimal.Decimal `json:"percent"`
}

// SortTiers orders tiers by descending MinVolume. Ties keep their relative
// order so resolution stays deterministic across reloads.
func SortTiers(tiers []Tier) []Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinVolume > sorted[j].MinVolume
	})
	return sorted
}

// Resolve returns the effective rate for a monthly transaction volume.
// The first tier whose threshold the volume meets or exceeds wins; with no
// qualifying tier the base rate applies. Pure. monthlyVolume must be >= 0;
// callers validate before resolving.
func (r Rule) Resolve(monthlyVolume int64) Rate {
	rate := Rate{Fixed: r.BaseFixed, Percent: r.BasePercent}
	for _, tier := range r.Tiers {
		if monthlyVolume >= tier.MinVolume {
			if tier.Fixed != nil {
				rate.Fixed = *tier.Fixed
			}
			if tier.Percent != nil {
				rate.Percent = *tier.Percent
			}
			break
		}
	}
	return rate
}

// PerTransaction computes fixed + amount*percent/100 for one transaction.
func (rate Rate) PerTransaction(amount decimal.Decimal) decimal.Decimal {
	return rate.Fixed.Add(amount.Mul(rate.Percent).Div(decimal.NewFromInt(100)))
}

// RateSourceKind tags where a distributor's commission rate comes from.
type RateSourceKind string

const (
	// RateSourceRule means a commission rule governs the distributor.
	RateSourceRule RateSourceKind = "rule"
	// RateSourceLegacy means the distributor still carries the old
	// per-entity commissionRateFixed/commissionRatePercent pair.
	RateSourceLegacy RateSourceKind = "legacy"
)

// RateSource is the normalized form of the two commission representations.
// Callers resolve it to a Rate and never inspect the legacy fields again.
type RateSource struct {
	Kind   RateSourceKind
	Rule   *Rule
	Legacy Rate
}

// ResolveAt returns the effective rate for the given monthly volume.
func (s RateSource) ResolveAt(monthlyVolume int64) Rate {
	if s.Kind == RateSourceRule && s.Rule != nil {
		return s.Rule.Resolve(monthlyVolume)
	}
	return s.Legacy
}

// NormalizeRateSource builds the tagged union from whichever representation
// the distributor carries. A rule always wins over legacy fields; the two
// are mutually exclusive by contract. ok is false when neither is present.
func NormalizeRateSource(rule *Rule, legacyFixed, legacyPercent *decimal.Decimal) (RateSource, bool) {
	if rule != nil {
		return RateSource{Kind: RateSourceRule, Rule: rule}, true
	}
	if legacyFixed == nil && legacyPercent == nil {
		return RateSource{}, false
	}
	legacy := Rate{Fixed: decimal.Zero, Percent: decimal.Zero}
	if legacyFixed != nil {
		legacy.Fixed = *legacyFixed
	}
	if legacyPercent != nil {
		legacy.Percent = *legacyPercent
	}
	return RateSource{Kind: RateSourceLegacy, Legacy: legacy}, true
}

// SimulationResult is the commission simulation contract consumed by the
// console UI.
type SimulationResult struct {
	DistributorCommission decimal.Decimal `json:"distributor_commission"`
	MgmtCommission        decimal.Decimal `json:"mgmt_commission"`
	TotalFees             decimal.Decimal `json:"total_fees"`
	EffectiveRatePercent  decimal.Decimal `json:"effective_rate_percent"`
	// EffectiveRate is the 2-decimal percent string shown on KPI cards.
	EffectiveRate string `json:"effective_rate"`
}
