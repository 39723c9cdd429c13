package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/commission/domain"
	"github.com/cashtrail/console/internal/config"
	"github.com/cashtrail/console/internal/store"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	store *store.Store
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	fees  *config.FeeScheduleHolder
}

type Params struct {
	fx.In

	Store *store.Store
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Fees  *config.FeeScheduleHolder
}

func New(p Params) domain.Service {
	return &Service{
		store: p.Store,
		log:   p.Log.Named("commission.service"),
		genID: p.GenID,
		clock: p.Clock,
		fees:  p.Fees,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRuleRequest) (domain.Rule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Rule{}, domain.ErrInvalidName
	}
	if req.BaseFixed.IsNegative() || req.BasePercent.IsNegative() {
		return domain.Rule{}, domain.ErrInvalidRate
	}

	var distributorID snowflake.ID
	switch req.Scope {
	case domain.ScopeAll:
	case domain.ScopeDistributor:
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.DistributorID))
		if err != nil || parsed == 0 {
			return domain.Rule{}, domain.ErrInvalidDistributor
		}
		if _, ok := s.store.Distributors.Get(parsed); !ok {
			return domain.Rule{}, domain.ErrInvalidDistributor
		}
		distributorID = parsed
	default:
		return domain.Rule{}, domain.ErrInvalidScope
	}

	tiers, err := buildTiers(req.Tiers)
	if err != nil {
		return domain.Rule{}, err
	}

	now := s.clock.Now()
	rule := domain.Rule{
		ID:            s.genID.Generate(),
		Name:          name,
		Code:          slug.Make(name),
		Scope:         req.Scope,
		DistributorID: distributorID,
		BaseFixed:     req.BaseFixed,
		BasePercent:   req.BasePercent,
		Tiers:         tiers,
		Active:        req.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.store.CommissionRules.Add(rule)
	s.log.Info("commission rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("code", rule.Code),
		zap.String("scope", string(rule.Scope)),
		zap.Int("tiers", len(rule.Tiers)),
	)
	return rule, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRuleRequest) (domain.Rule, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Rule{}, domain.ErrInvalidID
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.Rule{}, domain.ErrInvalidName
	}
	if req.BaseFixed != nil && req.BaseFixed.IsNegative() {
		return domain.Rule{}, domain.ErrInvalidRate
	}
	if req.BasePercent != nil && req.BasePercent.IsNegative() {
		return domain.Rule{}, domain.ErrInvalidRate
	}

	var tiers []domain.Tier
	if req.Tiers != nil {
		tiers, err = buildTiers(*req.Tiers)
		if err != nil {
			return domain.Rule{}, err
		}
	}

	now := s.clock.Now()
	updated, err := s.store.CommissionRules.Update(id, func(rule *domain.Rule) {
		if req.Name != nil {
			rule.Name = strings.TrimSpace(*req.Name)
			rule.Code = slug.Make(rule.Name)
		}
		if req.BaseFixed != nil {
			rule.BaseFixed = *req.BaseFixed
		}
		if req.BasePercent != nil {
			rule.BasePercent = *req.BasePercent
		}
		if req.Tiers != nil {
			rule.Tiers = tiers
		}
		if req.Active != nil {
			rule.Active = *req.Active
		}
		rule.UpdatedAt = now
	})
	if err != nil {
		return domain.Rule{}, domain.ErrRuleNotFound
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetRuleRequest) (domain.Rule, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Rule{}, domain.ErrInvalidID
	}
	rule, ok := s.store.CommissionRules.Get(id)
	if !ok {
		return domain.Rule{}, domain.ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRulesRequest) (domain.ListRulesResponse, error) {
	var distributorID snowflake.ID
	if strings.TrimSpace(req.DistributorID) != "" {
		parsed, err := parseID(req.DistributorID)
		if err != nil {
			return domain.ListRulesResponse{}, domain.ErrInvalidDistributor
		}
		distributorID = parsed
	}

	rules := s.store.CommissionRules.Find(func(rule domain.Rule) bool {
		if req.ActiveOnly && !rule.Active {
			return false
		}
		if req.Scope != "" && rule.Scope != domain.Scope(req.Scope) {
			return false
		}
		if distributorID != 0 && rule.DistributorID != distributorID {
			return false
		}
		return true
	})
	return domain.ListRulesResponse{Rules: rules}, nil
}

func (s *Service) Simulate(ctx context.Context, req domain.SimulateRequest) (domain.SimulationResult, error) {
	if req.MonthlyVolume < 0 {
		return domain.SimulationResult{}, domain.ErrInvalidVolume
	}
	if req.AvgTransactionAmount.IsNegative() {
		return domain.SimulationResult{}, domain.ErrInvalidAmount
	}

	rule, err := s.Get(ctx, domain.GetRuleRequest{ID: req.RuleID})
	if err != nil {
		return domain.SimulationResult{}, err
	}

	return Simulate(rule, req.MonthlyVolume, req.AvgTransactionAmount, s.fees.Get()), nil
}

func (s *Service) RateSourceForDistributor(ctx context.Context, distributorID string) (domain.RateSource, bool, error) {
	id, err := parseID(distributorID)
	if err != nil {
		return domain.RateSource{}, false, domain.ErrInvalidDistributor
	}
	distributor, ok := s.store.Distributors.Get(id)
	if !ok {
		return domain.RateSource{}, false, domain.ErrInvalidDistributor
	}

	// Explicit rule reference on the profile wins, then the active rule
	// scoped to this distributor, then the active all-scope rule. Legacy
	// fixed/percent fields only apply when no rule governs the profile.
	if distributor.Commission.RuleID != nil {
		if rule, ok := s.store.CommissionRules.Get(*distributor.Commission.RuleID); ok && rule.Active {
			return domain.RateSource{Kind: domain.RateSourceRule, Rule: &rule}, true, nil
		}
	}
	scoped := s.store.CommissionRules.Find(func(rule domain.Rule) bool {
		return rule.Active && rule.Scope == domain.ScopeDistributor && rule.DistributorID == id
	})
	if len(scoped) > 0 {
		rule := scoped[0]
		return domain.RateSource{Kind: domain.RateSourceRule, Rule: &rule}, true, nil
	}
	global := s.store.CommissionRules.Find(func(rule domain.Rule) bool {
		return rule.Active && rule.Scope == domain.ScopeAll
	})
	if len(global) > 0 {
		rule := global[0]
		return domain.RateSource{Kind: domain.RateSourceRule, Rule: &rule}, true, nil
	}

	source, ok := domain.NormalizeRateSource(nil, distributor.Commission.LegacyRateFixed, distributor.Commission.LegacyRatePercent)
	return source, ok, nil
}

// Simulate prices a hypothetical monthly volume. Pure: the fee schedule is
// passed in so the simulator and the transaction writer can never disagree.
// Inputs must be >= 0; the service boundary rejects violations.
func Simulate(rule domain.Rule, monthlyVolume int64, avgAmount decimal.Decimal, fees config.FeeSchedule) domain.SimulationResult {
	volume := decimal.NewFromInt(monthlyVolume)
	hundred := decimal.NewFromInt(100)

	rate := rule.Resolve(monthlyVolume)
	perTxn := rate.PerTransaction(avgAmount)
	distributorCommission := perTxn.Mul(volume)

	perTxnFee := fees.FeeFixed.Add(avgAmount.Mul(fees.FeePercent).Div(hundred))
	totalFees := perTxnFee.Mul(volume)
	mgmtCommission := totalFees.Sub(distributorCommission)

	gross := avgAmount.Mul(volume)
	effective := decimal.Zero
	if !gross.IsZero() {
		effective = distributorCommission.Div(gross).Mul(hundred)
	}

	return domain.SimulationResult{
		DistributorCommission: distributorCommission,
		MgmtCommission:        mgmtCommission,
		TotalFees:             totalFees,
		EffectiveRatePercent:  effective,
		EffectiveRate:         effective.StringFixed(2),
	}
}

func buildTiers(inputs []domain.TierInput) ([]domain.Tier, error) {
	tiers := make([]domain.Tier, 0, len(inputs))
	seen := make(map[int64]struct{}, len(inputs))
	for _, in := range inputs {
		if in.MinVolume < 0 {
			return nil, domain.ErrInvalidTier
		}
		if _, dup := seen[in.MinVolume]; dup {
			return nil, domain.ErrInvalidTier
		}
		seen[in.MinVolume] = struct{}{}
		if in.Fixed == nil && in.Percent == nil {
			return nil, domain.ErrInvalidTier
		}
		if in.Fixed != nil && in.Fixed.IsNegative() {
			return nil, domain.ErrInvalidTier
		}
		if in.Percent != nil && in.Percent.IsNegative() {
			return nil, domain.ErrInvalidTier
		}
		tiers = append(tiers, domain.Tier{MinVolume: in.MinVolume, Fixed: in.Fixed, Percent: in.Percent})
	}
	return domain.SortTiers(tiers), nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
