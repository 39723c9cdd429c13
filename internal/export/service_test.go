package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/config"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFixture(t *testing.T) (*Service, *store.Store, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	st := store.New()
	svc := New(Params{
		Store:  st,
		Log:    zap.NewNop(),
		Clock:  clock.NewFakeClock(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)),
		Config: config.Config{Currency: "INR"},
	})
	return svc, st, node
}

func seedTxn(st *store.Store, node *snowflake.Node, distributor snowflake.ID, day int, status txndomain.Status) txndomain.Transaction {
	txn := txndomain.Transaction{
		ID:            node.Generate(),
		DistributorID: distributor,
		Amount:        decimal.RequireFromString("2000"),
		TotalFee:      decimal.RequireFromString("60"),
		Status:        status,
		CardBrand:     txndomain.CardBrandVisa,
		CreatedAt:     time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC),
	}
	st.Transactions.Add(txn)
	return txn
}

func TestTransactionsCSVHonorsFilters(t *testing.T) {
	svc, st, node := newFixture(t)
	ctx := context.Background()

	d1, d2 := node.Generate(), node.Generate()
	kept := seedTxn(st, node, d1, 1, txndomain.StatusSuccess)
	seedTxn(st, node, d1, 2, txndomain.StatusFailed)
	seedTxn(st, node, d2, 1, txndomain.StatusSuccess)

	out, err := svc.TransactionsCSV(ctx, TransactionsRequest{
		Status:        string(txndomain.StatusSuccess),
		DistributorID: d1.String(),
	})
	require.NoError(t, err)

	lines := strings.Split(string(out.Data), "\n")
	require.Len(t, lines, 2, "header plus the one matching row")
	assert.Contains(t, lines[1], kept.ID.String())

	_, parseErr := ulid.Parse(out.Ref)
	assert.NoError(t, parseErr, "ref is a ulid")
	assert.Equal(t, "text/csv", out.ContentType)

	_, err = svc.TransactionsCSV(ctx, TransactionsRequest{Status: "settled"})
	assert.ErrorIs(t, err, txndomain.ErrInvalidStatus)
}

func TestStatementRendersPDF(t *testing.T) {
	svc, st, node := newFixture(t)
	ctx := context.Background()

	distributor := onboardingdomain.Distributor{
		ID:           node.Generate(),
		PersonalInfo: onboardingdomain.PersonalInfo{Name: "Verma Agencies"},
	}
	st.Distributors.Add(distributor)
	seedTxn(st, node, distributor.ID, 3, txndomain.StatusSuccess)
	seedTxn(st, node, distributor.ID, 5, txndomain.StatusSuccess)

	out, err := svc.Statement(ctx, StatementRequest{
		DistributorID: distributor.ID.String(),
		Month:         time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Contains(t, out.Filename, "2026-08")
	assert.NotEmpty(t, out.Data)

	_, err = svc.Statement(ctx, StatementRequest{
		DistributorID: node.Generate().String(),
		Month:         time.Now(),
	})
	assert.ErrorIs(t, err, txndomain.ErrDistributorUnknown)
}
