package report

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type kpiFixture struct {
	svc   *Service
	store *store.Store
	node  *snowflake.Node
}

func newKPIFixture(t *testing.T) *kpiFixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	st := store.New()
	return &kpiFixture{
		svc:   New(Params{Store: st, Log: zap.NewNop()}),
		store: st,
		node:  node,
	}
}

func (f *kpiFixture) addTxn(distributor snowflake.ID, day int, amount string, status txndomain.Status) txndomain.Transaction {
	a := amt(amount)
	fee := amt("10").Add(a.Mul(amt("2.5")).Div(amt("100")))
	toDistributor := fee.Div(amt("2"))
	txn := txndomain.Transaction{
		ID:                      f.node.Generate(),
		DistributorID:           distributor,
		Amount:                  a,
		TotalFee:                fee,
		CommissionToDistributor: toDistributor,
		CommissionToMgmt:        fee.Sub(toDistributor),
		Status:                  status,
		CreatedAt:               at(day),
	}
	f.store.Transactions.Add(txn)
	return txn
}

func TestKPIsCountOnlySuccessfulMoney(t *testing.T) {
	f := newKPIFixture(t)
	d := f.node.Generate()

	f.addTxn(d, 1, "1000", txndomain.StatusSuccess)
	f.addTxn(d, 2, "2000", txndomain.StatusSuccess)
	f.addTxn(d, 2, "9999", txndomain.StatusFailed)
	f.addTxn(d, 3, "500", txndomain.StatusPending)

	report, err := f.svc.KPIs(context.Background(), RangeRequest{})
	require.NoError(t, err)

	assert.True(t, report.GMV.Equal(amt("3000")), "got %s", report.GMV)
	assert.Equal(t, 4, report.TransactionCount)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 50.0, report.SuccessRate)
	// fees on success: (10+25) + (10+50) = 95
	assert.True(t, report.TotalFees.Equal(amt("95")), "got %s", report.TotalFees)
	assert.True(t, report.NetRevenue.Equal(amt("95")), "no open disputes, nothing withheld")
}

func TestNetRevenueSubtractsChargebackExposure(t *testing.T) {
	f := newKPIFixture(t)
	d := f.node.Generate()

	disputed := f.addTxn(d, 1, "1000", txndomain.StatusSuccess)
	f.addTxn(d, 2, "2000", txndomain.StatusSuccess)

	f.store.Disputes.Add(disputedomain.Dispute{
		ID:            f.node.Generate(),
		TransactionID: disputed.ID,
		Reason:        disputedomain.ReasonFraud,
		Status:        disputedomain.StatusPending,
		CreatedAt:     at(1),
	})
	// A resolved dispute no longer counts toward exposure.
	f.store.Disputes.Add(disputedomain.Dispute{
		ID:            f.node.Generate(),
		TransactionID: f.node.Generate(),
		Reason:        disputedomain.ReasonOther,
		Status:        disputedomain.StatusResolved,
		CreatedAt:     at(2),
	})

	report, err := f.svc.KPIs(context.Background(), RangeRequest{})
	require.NoError(t, err)

	assert.True(t, report.ChargebackExposure.Equal(amt("1000")), "got %s", report.ChargebackExposure)
	// fees 95 - exposure 1000
	assert.True(t, report.NetRevenue.Equal(amt("-905")), "got %s", report.NetRevenue)
	assert.Equal(t, 2, report.DisputeCount)
	assert.Equal(t, 100.0, report.DisputeRate)
}

func TestExposureIgnoresNonSuccessfulTransactions(t *testing.T) {
	f := newKPIFixture(t)
	d := f.node.Generate()

	f.addTxn(d, 1, "1000", txndomain.StatusSuccess)
	failed := f.addTxn(d, 2, "5000", txndomain.StatusFailed)

	f.store.Disputes.Add(disputedomain.Dispute{
		ID:            f.node.Generate(),
		TransactionID: failed.ID,
		Reason:        disputedomain.ReasonFraud,
		Status:        disputedomain.StatusPending,
		CreatedAt:     at(2),
	})

	report, err := f.svc.KPIs(context.Background(), RangeRequest{})
	require.NoError(t, err)

	// The failed transaction never settled, so its open dispute carries no
	// chargeback risk.
	assert.True(t, report.ChargebackExposure.Equal(amt("0")), "got %s", report.ChargebackExposure)
	// fees on the single success: 10 + 25 = 35
	assert.True(t, report.NetRevenue.Equal(amt("35")), "got %s", report.NetRevenue)

	rollups, err := f.svc.Rollups(context.Background(), RollupRequest{})
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	assert.True(t, rollups[0].NetRevenue.Equal(amt("35")), "got %s", rollups[0].NetRevenue)
}

func TestKYCPassRateCountsDecidedOnly(t *testing.T) {
	f := newKPIFixture(t)

	f.store.Distributors.Add(onboardingdomain.Distributor{ID: f.node.Generate(), KYCStatus: onboardingdomain.KYCVerified})
	f.store.Distributors.Add(onboardingdomain.Distributor{ID: f.node.Generate(), KYCStatus: onboardingdomain.KYCPending})
	f.store.Retailers.Add(onboardingdomain.Retailer{ID: f.node.Generate(), KYCStatus: onboardingdomain.KYCRejected})

	report, err := f.svc.KPIs(context.Background(), RangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, report.KYCPassRate, "1 verified of 2 decided; pending ignored")
}

func TestRollupsSortedByNetRevenueWithTopN(t *testing.T) {
	f := newKPIFixture(t)
	big, small, mid := f.node.Generate(), f.node.Generate(), f.node.Generate()

	f.store.Distributors.Add(onboardingdomain.Distributor{
		ID:           big,
		PersonalInfo: onboardingdomain.PersonalInfo{Name: "Big Agency"},
	})

	f.addTxn(big, 1, "10000", txndomain.StatusSuccess)
	f.addTxn(big, 2, "10000", txndomain.StatusSuccess)
	f.addTxn(small, 1, "100", txndomain.StatusSuccess)
	f.addTxn(mid, 1, "5000", txndomain.StatusSuccess)
	f.addTxn(mid, 2, "300", txndomain.StatusFailed)

	rollups, err := f.svc.Rollups(context.Background(), RollupRequest{TopN: 2})
	require.NoError(t, err)

	require.Len(t, rollups, 2)
	assert.Equal(t, big, rollups[0].DistributorID)
	assert.Equal(t, "Big Agency", rollups[0].Name)
	assert.Equal(t, 2, rollups[0].Volume)
	assert.Equal(t, mid, rollups[1].DistributorID)
	assert.Equal(t, 2, rollups[1].Volume, "volume counts every status")
	assert.True(t, rollups[1].GMV.Equal(amt("5000")), "GMV counts success only")
}

func TestDailyGMVSeries(t *testing.T) {
	f := newKPIFixture(t)
	d := f.node.Generate()

	f.addTxn(d, 2, "2000", txndomain.StatusSuccess)
	f.addTxn(d, 1, "1000", txndomain.StatusSuccess)
	f.addTxn(d, 1, "500", txndomain.StatusSuccess)
	f.addTxn(d, 1, "9999", txndomain.StatusFailed)

	series, err := f.svc.DailyGMV(context.Background(), RangeRequest{})
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "2026-08-01", series[0].Date)
	assert.True(t, series[0].Value.Equal(amt("1500")))
	assert.Equal(t, "2026-08-02", series[1].Date)
}

func TestKPIRangeBoundsInclusive(t *testing.T) {
	f := newKPIFixture(t)
	d := f.node.Generate()

	f.addTxn(d, 1, "1000", txndomain.StatusSuccess)
	edge := f.addTxn(d, 2, "2000", txndomain.StatusSuccess)
	f.addTxn(d, 3, "4000", txndomain.StatusSuccess)

	from, to := edge.CreatedAt, edge.CreatedAt
	report, err := f.svc.KPIs(context.Background(), RangeRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.True(t, report.GMV.Equal(amt("2000")))
	assert.Equal(t, 1, report.TransactionCount)
}
