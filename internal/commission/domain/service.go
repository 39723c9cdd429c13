package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type TierInput struct {
	MinVolume int64            `json:"min_volume"`
	Fixed     *decimal.Decimal `json:"fixed,omitempty"`
	Percent   *decimal.Decimal `json:"percent,omitempty"`
}

type CreateRuleRequest struct {
	Name          string
	Scope         Scope
	DistributorID string
	BaseFixed     decimal.Decimal
	BasePercent   decimal.Decimal
	Tiers         []TierInput
	Active        bool
}

type UpdateRuleRequest struct {
	ID          string
	Name        *string
	BaseFixed   *decimal.Decimal
	BasePercent *decimal.Decimal
	Tiers       *[]TierInput
	Active      *bool
}

type GetRuleRequest struct {
	ID string
}

type ListRulesRequest struct {
	Scope         string
	DistributorID string
	ActiveOnly    bool
}

type ListRulesResponse struct {
	Rules []Rule `json:"rules"`
}

// SimulateRequest prices a hypothetical monthly volume at an average
// transaction amount. MonthlyVolume and AvgTransactionAmount must be >= 0.
type SimulateRequest struct {
	RuleID               string
	MonthlyVolume        int64
	AvgTransactionAmount decimal.Decimal
}

type Service interface {
	Create(context.Context, CreateRuleRequest) (Rule, error)
	Update(context.Context, UpdateRuleRequest) (Rule, error)
	Get(context.Context, GetRuleRequest) (Rule, error)
	List(context.Context, ListRulesRequest) (ListRulesResponse, error)
	Simulate(context.Context, SimulateRequest) (SimulationResult, error)

	// RateSourceForDistributor normalizes a distributor's commission
	// configuration. ok is false when the distributor has neither a rule
	// nor legacy rate fields; callers skip pricing in that case.
	RateSourceForDistributor(ctx context.Context, distributorID string) (RateSource, bool, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidScope       = errors.New("invalid_scope")
	ErrInvalidDistributor = errors.New("invalid_distributor")
	ErrInvalidRate        = errors.New("invalid_rate")
	ErrInvalidTier        = errors.New("invalid_tier")
	ErrInvalidVolume      = errors.New("invalid_volume")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrRuleNotFound       = errors.New("rule_not_found")
)
