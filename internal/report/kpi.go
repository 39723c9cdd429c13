package report

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RangeRequest struct {
	From *time.Time
	To   *time.Time
}

type RollupRequest struct {
	RangeRequest
	TopN int
}

// KPIReport is the dashboard headline block for a date range. Money fields
// only count successful transactions; chargeback exposure counts the
// principal of transactions with an open dispute.
type KPIReport struct {
	GMV                   decimal.Decimal `json:"gmv"`
	TransactionCount      int             `json:"transaction_count"`
	SuccessCount          int             `json:"success_count"`
	SuccessRate           float64         `json:"success_rate"`
	TotalFees             decimal.Decimal `json:"total_fees"`
	DistributorCommission decimal.Decimal `json:"distributor_commission"`
	MgmtCommission        decimal.Decimal `json:"mgmt_commission"`
	ChargebackExposure    decimal.Decimal `json:"chargeback_exposure"`
	NetRevenue            decimal.Decimal `json:"net_revenue"`
	DisputeCount          int             `json:"dispute_count"`
	DisputeRate           float64         `json:"dispute_rate"`
	KYCPassRate           float64         `json:"kyc_pass_rate"`
}

type DistributorRollup struct {
	DistributorID         snowflake.ID    `json:"distributor_id"`
	Name                  string          `json:"name"`
	Volume                int             `json:"volume"`
	GMV                   decimal.Decimal `json:"gmv"`
	DistributorCommission decimal.Decimal `json:"distributor_commission"`
	MgmtCommission        decimal.Decimal `json:"mgmt_commission"`
	NetRevenue            decimal.Decimal `json:"net_revenue"`
}

type Service struct {
	store *store.Store
	log   *zap.Logger
}

type Params struct {
	fx.In

	Store *store.Store
	Log   *zap.Logger
}

func New(p Params) *Service {
	return &Service{store: p.Store, log: p.Log.Named("report.service")}
}

func (s *Service) KPIs(ctx context.Context, req RangeRequest) (KPIReport, error) {
	txns := s.transactionsIn(req)
	succeeded := filterStatus(txns, txndomain.StatusSuccess)

	disputes := FilterByRange(s.store.Disputes.List(), func(d disputedomain.Dispute) time.Time {
		return d.CreatedAt
	}, req.From, req.To)

	exposure := s.chargebackExposure(txns)
	fees := Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.TotalFee })

	return KPIReport{
		GMV:                   Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.Amount }),
		TransactionCount:      len(txns),
		SuccessCount:          len(succeeded),
		SuccessRate:           Percent(len(succeeded), len(txns)),
		TotalFees:             fees,
		DistributorCommission: Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToDistributor }),
		MgmtCommission:        Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToMgmt }),
		ChargebackExposure:    exposure,
		NetRevenue:            fees.Sub(exposure),
		DisputeCount:          len(disputes),
		DisputeRate:           Percent(len(disputes), len(succeeded)),
		KYCPassRate:           s.kycPassRate(),
	}, nil
}

func (s *Service) Rollups(ctx context.Context, req RollupRequest) ([]DistributorRollup, error) {
	txns := s.transactionsIn(req.RangeRequest)

	groups := GroupBy(txns, func(t txndomain.Transaction) string { return t.DistributorID.String() })
	rollups := make([]DistributorRollup, 0, len(groups))
	for _, g := range groups {
		succeeded := filterStatus(g.Rows, txndomain.StatusSuccess)
		fees := Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.TotalFee })
		exposure := s.chargebackExposure(g.Rows)

		rollup := DistributorRollup{
			DistributorID:         g.Rows[0].DistributorID,
			Volume:                len(g.Rows),
			GMV:                   Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.Amount }),
			DistributorCommission: Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToDistributor }),
			MgmtCommission:        Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToMgmt }),
			NetRevenue:            fees.Sub(exposure),
		}
		if d, ok := s.store.Distributors.Get(rollup.DistributorID); ok {
			rollup.Name = d.PersonalInfo.Name
		}
		rollups = append(rollups, rollup)
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].NetRevenue.GreaterThan(rollups[j].NetRevenue)
	})
	if req.TopN > 0 && len(rollups) > req.TopN {
		rollups = rollups[:req.TopN]
	}
	return rollups, nil
}

func (s *Service) DailyGMV(ctx context.Context, req RangeRequest) ([]DayValue, error) {
	succeeded := filterStatus(s.transactionsIn(req), txndomain.StatusSuccess)
	return GroupByDay(succeeded,
		func(t txndomain.Transaction) time.Time { return t.CreatedAt },
		func(t txndomain.Transaction) decimal.Decimal { return t.Amount },
	), nil
}

func (s *Service) transactionsIn(req RangeRequest) []txndomain.Transaction {
	return FilterByRange(s.store.Transactions.List(), func(t txndomain.Transaction) time.Time {
		return t.CreatedAt
	}, req.From, req.To)
}

// chargebackExposure sums the principal of the given successful transactions
// that have at least one open dispute. Disputes on transactions that never
// settled successfully carry no chargeback risk.
func (s *Service) chargebackExposure(txns []txndomain.Transaction) decimal.Decimal {
	open := make(map[snowflake.ID]bool)
	for _, d := range s.store.Disputes.List() {
		if d.Status.Open() {
			open[d.TransactionID] = true
		}
	}

	exposure := decimal.Zero
	for _, t := range txns {
		if t.Status != txndomain.StatusSuccess {
			continue
		}
		if open[t.ID] {
			exposure = exposure.Add(t.Amount)
		}
	}
	return exposure
}

// kycPassRate is verified over decided, across all three entity kinds.
// Undecided records do not count either way.
func (s *Service) kycPassRate() float64 {
	verified, decided := 0, 0
	tally := func(status onboardingdomain.KYCStatus) {
		if !status.Terminal() {
			return
		}
		decided++
		if status == onboardingdomain.KYCVerified {
			verified++
		}
	}
	for _, d := range s.store.Distributors.List() {
		tally(d.KYCStatus)
	}
	for _, r := range s.store.Retailers.List() {
		tally(r.KYCStatus)
	}
	for _, c := range s.store.Customers.List() {
		tally(c.KYCStatus)
	}
	return Percent(verified, decided)
}

func filterStatus(txns []txndomain.Transaction, status txndomain.Status) []txndomain.Transaction {
	out := make([]txndomain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
