package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/commission/domain"
	"github.com/cashtrail/console/internal/config"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newFixture(t *testing.T) (domain.Service, *store.Store, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fees, err := config.NewStaticFeeScheduleHolder(config.DefaultFeeSchedule())
	require.NoError(t, err)

	st := store.New()
	svc := New(Params{
		Store: st,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		Fees:  fees,
	})
	return svc, st, node
}

func TestTierSelectionHighestQualifyingThresholdWins(t *testing.T) {
	rule := domain.Rule{
		BaseFixed:   dec("5"),
		BasePercent: dec("1.5"),
		Tiers: domain.SortTiers([]domain.Tier{
			{MinVolume: 50, Fixed: decPtr("4.5"), Percent: decPtr("1.4")},
			{MinVolume: 100, Fixed: decPtr("4.0"), Percent: decPtr("1.3")},
			{MinVolume: 150, Fixed: decPtr("3.5"), Percent: decPtr("1.2")},
		}),
	}

	rate := rule.Resolve(120)
	assert.True(t, rate.Fixed.Equal(dec("4.0")), "got %s", rate.Fixed)
	assert.True(t, rate.Percent.Equal(dec("1.3")), "got %s", rate.Percent)
}

func TestTierResolutionFallbacks(t *testing.T) {
	base := domain.Rule{BaseFixed: dec("5"), BasePercent: dec("1.5")}

	t.Run("no tiers uses base", func(t *testing.T) {
		rate := base.Resolve(1000)
		assert.True(t, rate.Fixed.Equal(dec("5")))
		assert.True(t, rate.Percent.Equal(dec("1.5")))
	})

	t.Run("below every threshold uses base", func(t *testing.T) {
		rule := base
		rule.Tiers = domain.SortTiers([]domain.Tier{{MinVolume: 50, Fixed: decPtr("4.5")}})
		rate := rule.Resolve(10)
		assert.True(t, rate.Fixed.Equal(dec("5")))
	})

	t.Run("partial override keeps the value in force", func(t *testing.T) {
		rule := base
		rule.Tiers = domain.SortTiers([]domain.Tier{{MinVolume: 50, Percent: decPtr("1.2")}})
		rate := rule.Resolve(60)
		assert.True(t, rate.Fixed.Equal(dec("5")), "fixed falls back to base")
		assert.True(t, rate.Percent.Equal(dec("1.2")))
	})
}

func TestSimulateEndToEnd(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRuleRequest{
		Name:        "Metro distributors",
		Scope:       domain.ScopeAll,
		BaseFixed:   dec("5.0"),
		BasePercent: dec("1.5"),
		Tiers: []domain.TierInput{
			{MinVolume: 50, Fixed: decPtr("4.5"), Percent: decPtr("1.4")},
		},
		Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "metro-distributors", rule.Code)

	result, err := svc.Simulate(ctx, domain.SimulateRequest{
		RuleID:               rule.ID.String(),
		MonthlyVolume:        100,
		AvgTransactionAmount: dec("2000"),
	})
	require.NoError(t, err)

	// tier selected (100 >= 50): per-txn 4.5 + 2000*1.4/100 = 32.5
	assert.True(t, result.DistributorCommission.Equal(dec("3250")), "got %s", result.DistributorCommission)
	// standard fees: 100 * (10 + 2000*2.5/100) = 6000
	assert.True(t, result.TotalFees.Equal(dec("6000")), "got %s", result.TotalFees)
	// mgmt is the residual
	assert.True(t, result.MgmtCommission.Equal(dec("2750")), "got %s", result.MgmtCommission)
	// 3250 / 200000 * 100 = 1.625
	assert.True(t, result.EffectiveRatePercent.Equal(dec("1.625")), "got %s", result.EffectiveRatePercent)
	assert.Equal(t, "1.63", result.EffectiveRate)
}

func TestSimulateZeroVolume(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRuleRequest{
		Name:        "Base only",
		Scope:       domain.ScopeAll,
		BaseFixed:   dec("5"),
		BasePercent: dec("1.5"),
		Active:      true,
	})
	require.NoError(t, err)

	result, err := svc.Simulate(ctx, domain.SimulateRequest{
		RuleID:               rule.ID.String(),
		MonthlyVolume:        0,
		AvgTransactionAmount: dec("2000"),
	})
	require.NoError(t, err)

	assert.True(t, result.DistributorCommission.IsZero())
	assert.True(t, result.TotalFees.IsZero())
	assert.True(t, result.MgmtCommission.IsZero())
	assert.True(t, result.EffectiveRatePercent.IsZero(), "no NaN, no Infinity, plain zero")
	assert.Equal(t, "0.00", result.EffectiveRate)
}

func TestSimulateRejectsNegativeInputs(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRuleRequest{
		Name:      "Base only",
		Scope:     domain.ScopeAll,
		BaseFixed: dec("5"),
		Active:    true,
	})
	require.NoError(t, err)

	_, err = svc.Simulate(ctx, domain.SimulateRequest{
		RuleID:        rule.ID.String(),
		MonthlyVolume: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVolume)

	_, err = svc.Simulate(ctx, domain.SimulateRequest{
		RuleID:               rule.ID.String(),
		MonthlyVolume:        10,
		AvgTransactionAmount: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSimulateUnknownRule(t *testing.T) {
	svc, _, node := newFixture(t)

	_, err := svc.Simulate(context.Background(), domain.SimulateRequest{
		RuleID:               node.Generate().String(),
		MonthlyVolume:        10,
		AvgTransactionAmount: dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestCreateSortsAndValidatesTiers(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRuleRequest{
		Name:  "Tiered",
		Scope: domain.ScopeAll,
		Tiers: []domain.TierInput{
			{MinVolume: 50, Fixed: decPtr("4.5")},
			{MinVolume: 150, Fixed: decPtr("3.5")},
			{MinVolume: 100, Fixed: decPtr("4.0")},
		},
		Active: true,
	})
	require.NoError(t, err)

	require.Len(t, rule.Tiers, 3)
	assert.Equal(t, int64(150), rule.Tiers[0].MinVolume)
	assert.Equal(t, int64(100), rule.Tiers[1].MinVolume)
	assert.Equal(t, int64(50), rule.Tiers[2].MinVolume)

	_, err = svc.Create(ctx, domain.CreateRuleRequest{
		Name:  "Duplicate thresholds",
		Scope: domain.ScopeAll,
		Tiers: []domain.TierInput{
			{MinVolume: 50, Fixed: decPtr("4.5")},
			{MinVolume: 50, Fixed: decPtr("4.0")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTier)

	_, err = svc.Create(ctx, domain.CreateRuleRequest{
		Name:  "Empty tier",
		Scope: domain.ScopeAll,
		Tiers: []domain.TierInput{{MinVolume: 50}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTier)
}

func TestRateSourceForDistributorNormalization(t *testing.T) {
	svc, st, node := newFixture(t)
	ctx := context.Background()

	legacy := onboardingdomain.Distributor{
		ID: node.Generate(),
		Commission: onboardingdomain.CommissionConfig{
			LegacyRateFixed:   decPtr("3"),
			LegacyRatePercent: decPtr("1.1"),
		},
	}
	st.Distributors.Add(legacy)

	source, ok, err := svc.RateSourceForDistributor(ctx, legacy.ID.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RateSourceLegacy, source.Kind)
	rate := source.ResolveAt(500)
	assert.True(t, rate.Fixed.Equal(dec("3")))
	assert.True(t, rate.Percent.Equal(dec("1.1")))

	// A distributor-scoped rule overrides legacy fields.
	ruled := onboardingdomain.Distributor{ID: node.Generate()}
	st.Distributors.Add(ruled)
	_, err = svc.Create(ctx, domain.CreateRuleRequest{
		Name:          "Scoped",
		Scope:         domain.ScopeDistributor,
		DistributorID: ruled.ID.String(),
		BaseFixed:     dec("4"),
		BasePercent:   dec("1.2"),
		Active:        true,
	})
	require.NoError(t, err)

	source, ok, err = svc.RateSourceForDistributor(ctx, ruled.ID.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RateSourceRule, source.Kind)

	// No rule, no legacy fields: not priceable.
	bare := onboardingdomain.Distributor{ID: node.Generate()}
	st.Distributors.Add(bare)
	_, ok, err = svc.RateSourceForDistributor(ctx, bare.ID.String())
	require.NoError(t, err)
	assert.False(t, ok)
}
