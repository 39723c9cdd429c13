package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	commissionservice "github.com/cashtrail/console/internal/commission/service"
	"github.com/cashtrail/console/internal/config"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	"github.com/cashtrail/console/internal/transaction/domain"
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

type fixture struct {
	svc        domain.Service
	commission commissiondomain.Service
	store      *store.Store
	node       *snowflake.Node
	clock      *clock.FakeClock

	distributor onboardingdomain.Distributor
	retailer    onboardingdomain.Retailer
	customer    onboardingdomain.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fees, err := config.NewStaticFeeScheduleHolder(config.DefaultFeeSchedule())
	require.NoError(t, err)

	st := store.New()
	fake := clock.NewFakeClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))

	commissionSvc := commissionservice.New(commissionservice.Params{
		Store: st,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Fees:  fees,
	})
	svc := New(Params{
		Store:      st,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Fees:       fees,
		Commission: commissionSvc,
	})

	f := &fixture{svc: svc, commission: commissionSvc, store: st, node: node, clock: fake}

	f.distributor = onboardingdomain.Distributor{
		ID: node.Generate(),
		Commission: onboardingdomain.CommissionConfig{
			LegacyRateFixed:   decPtr("3"),
			LegacyRatePercent: decPtr("1.1"),
		},
	}
	st.Distributors.Add(f.distributor)

	f.retailer = onboardingdomain.Retailer{ID: node.Generate(), DistributorID: f.distributor.ID}
	st.Retailers.Add(f.retailer)

	f.customer = onboardingdomain.Customer{ID: node.Generate(), RetailerID: f.retailer.ID}
	st.Customers.Add(f.customer)

	return f
}

func (f *fixture) createRequest() domain.CreateTransactionRequest {
	return domain.CreateTransactionRequest{
		DistributorID: f.distributor.ID.String(),
		RetailerID:    f.retailer.ID.String(),
		CustomerID:    f.customer.ID.String(),
		Amount:        dec("2000"),
		CardBrand:     domain.CardBrandVisa,
	}
}

func TestCreateComputesImmutableSplit(t *testing.T) {
	f := newFixture(t)

	txn, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	// fee schedule 10 + 2.5%: 10 + 2000*2.5/100 = 60
	assert.True(t, txn.TotalFee.Equal(dec("60")), "got %s", txn.TotalFee)
	// legacy rate 3 + 1.1%: 3 + 2000*1.1/100 = 25
	assert.True(t, txn.CommissionToDistributor.Equal(dec("25")), "got %s", txn.CommissionToDistributor)
	assert.True(t, txn.CommissionToMgmt.Equal(dec("35")), "got %s", txn.CommissionToMgmt)

	sum := txn.CommissionToDistributor.Add(txn.CommissionToMgmt)
	assert.True(t, sum.Equal(txn.TotalFee), "split must balance exactly: %s != %s", sum, txn.TotalFee)

	assert.Equal(t, domain.StatusPending, txn.Status)
	assert.Nil(t, txn.CompletedAt)
}

func TestCreateValidatesHierarchy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.createRequest()
	req.DistributorID = f.node.Generate().String()
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDistributorUnknown)

	// Retailer exists but belongs to another distributor.
	other := onboardingdomain.Distributor{
		ID:         f.node.Generate(),
		Commission: onboardingdomain.CommissionConfig{LegacyRateFixed: decPtr("1")},
	}
	f.store.Distributors.Add(other)
	stray := onboardingdomain.Retailer{ID: f.node.Generate(), DistributorID: other.ID}
	f.store.Retailers.Add(stray)

	req = f.createRequest()
	req.RetailerID = stray.ID.String()
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrRetailerUnknown)

	req = f.createRequest()
	req.CustomerID = f.node.Generate().String()
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrCustomerUnknown)
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.createRequest()
	req.Amount = dec("0")
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = f.createRequest()
	req.Amount = dec("-50")
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = f.createRequest()
	req.CardBrand = "diners"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidCardBrand)
}

func TestCreateUnpriceableDistributor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bare := onboardingdomain.Distributor{ID: f.node.Generate()}
	f.store.Distributors.Add(bare)
	retailer := onboardingdomain.Retailer{ID: f.node.Generate(), DistributorID: bare.ID}
	f.store.Retailers.Add(retailer)
	customer := onboardingdomain.Customer{ID: f.node.Generate(), RetailerID: retailer.ID}
	f.store.Customers.Add(customer)

	_, err := f.svc.Create(ctx, domain.CreateTransactionRequest{
		DistributorID: bare.ID.String(),
		RetailerID:    retailer.ID.String(),
		CustomerID:    customer.ID.String(),
		Amount:        dec("100"),
		CardBrand:     domain.CardBrandRupay,
	})
	assert.ErrorIs(t, err, domain.ErrNoCommissionRate)
}

func TestCreatePricesFromRunningMonthlyVolume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A distributor-scoped rule with a tier that kicks in at 2 txns/month.
	_, err := f.commission.Create(ctx, commissiondomain.CreateRuleRequest{
		Name:          "Volume kicker",
		Scope:         commissiondomain.ScopeDistributor,
		DistributorID: f.distributor.ID.String(),
		BaseFixed:     dec("5"),
		Tiers: []commissiondomain.TierInput{
			{MinVolume: 2, Fixed: decPtr("3")},
		},
		Active: true,
	})
	require.NoError(t, err)

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	assert.True(t, first.CommissionToDistributor.Equal(dec("5")), "got %s", first.CommissionToDistributor)

	second, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	assert.True(t, second.CommissionToDistributor.Equal(dec("5")), "got %s", second.CommissionToDistributor)

	// Two prior transactions this month: the tier now applies.
	third, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	assert.True(t, third.CommissionToDistributor.Equal(dec("3")), "got %s", third.CommissionToDistributor)

	// Existing rows keep their original split.
	kept, err := f.svc.Get(ctx, domain.GetTransactionRequest{ID: first.ID.String()})
	require.NoError(t, err)
	assert.True(t, kept.CommissionToDistributor.Equal(dec("5")))
}

func TestTransitionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, domain.TransitionRequest{ID: txn.ID.String(), Status: domain.StatusSuccess})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending cannot jump straight to success")

	_, err = f.svc.Transition(ctx, domain.TransitionRequest{ID: txn.ID.String(), Status: domain.StatusProcessing})
	require.NoError(t, err)

	f.clock.Advance(30 * time.Second)
	done, err := f.svc.Transition(ctx, domain.TransitionRequest{ID: txn.ID.String(), Status: domain.StatusSuccess})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, f.clock.Now(), *done.CompletedAt)

	_, err = f.svc.Transition(ctx, domain.TransitionRequest{ID: txn.ID.String(), Status: domain.StatusReversed})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "terminal states are frozen")
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	second, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, domain.TransitionRequest{ID: first.ID.String(), Status: domain.StatusProcessing})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListTransactionsRequest{Status: string(domain.StatusProcessing)})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, first.ID, resp.Transactions[0].ID)

	// Date range bounds are inclusive.
	from := second.CreatedAt
	to := second.CreatedAt
	resp, err = f.svc.List(ctx, domain.ListTransactionsRequest{CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, second.ID, resp.Transactions[0].ID)

	resp, err = f.svc.List(ctx, domain.ListTransactionsRequest{DistributorID: f.node.Generate().String()})
	require.NoError(t, err)
	assert.Empty(t, resp.Transactions)

	_, err = f.svc.List(ctx, domain.ListTransactionsRequest{Status: "settled"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
