// Package simulator drives transaction lifecycles in the background: it
// advances pending and processing transactions with deterministic ratios and,
// in development mode, feeds the console with synthetic traffic.
package simulator

import (
	"context"
	"time"

	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/config"
	"github.com/cashtrail/console/internal/observability"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Simulator struct {
	store        *store.Store
	transactions txndomain.Service
	log          *zap.Logger
	clock        clock.Clock
	metrics      *observability.Metrics
	cfg          config.Config

	// seq makes synthetic traffic deterministic across ticks.
	seq int64
}

type Params struct {
	fx.In

	Store        *store.Store
	Transactions txndomain.Service
	Log          *zap.Logger
	Clock        clock.Clock
	Metrics      *observability.Metrics
	Config       config.Config
}

func New(p Params) *Simulator {
	return &Simulator{
		store:        p.Store,
		transactions: p.Transactions,
		log:          p.Log.Named("simulator"),
		clock:        p.Clock,
		metrics:      p.Metrics,
		cfg:          p.Config,
	}
}

// Tick runs one simulation step: advance every pending transaction to
// processing, settle every processing transaction, and in dev mode create one
// synthetic transaction.
func (s *Simulator) Tick(ctx context.Context) {
	start := time.Now()
	s.metrics.SimulatorRuns.Inc()

	// Settle before advancing so a transaction moves one step per tick.
	for _, txn := range s.store.Transactions.Find(func(t txndomain.Transaction) bool {
		return t.Status == txndomain.StatusProcessing
	}) {
		s.transition(ctx, txn.ID.String(), settleStatus(int64(txn.ID)))
	}

	for _, txn := range s.store.Transactions.Find(func(t txndomain.Transaction) bool {
		return t.Status == txndomain.StatusPending
	}) {
		s.transition(ctx, txn.ID.String(), txndomain.StatusProcessing)
	}

	if s.cfg.IsDevelopment() {
		s.createSynthetic(ctx)
	}

	s.metrics.SimulatorDuration.Observe(time.Since(start).Seconds())
}

// settleStatus maps a transaction id to its terminal state: 16/20 success,
// 3/20 failed, 1/20 reversed.
func settleStatus(id int64) txndomain.Status {
	switch n := id % 20; {
	case n < 16:
		return txndomain.StatusSuccess
	case n < 19:
		return txndomain.StatusFailed
	default:
		return txndomain.StatusReversed
	}
}

func (s *Simulator) transition(ctx context.Context, id string, to txndomain.Status) {
	if _, err := s.transactions.Transition(ctx, txndomain.TransitionRequest{ID: id, Status: to}); err != nil {
		s.metrics.SimulatorErrors.Inc()
		s.log.Warn("transition failed", zap.String("transaction_id", id), zap.Error(err))
		return
	}
	s.metrics.SimulatorTransitions.WithLabelValues(string(to)).Inc()
}

var syntheticAmounts = []string{"500", "1200", "2000", "3500", "7500", "15000"}

var syntheticBrands = []txndomain.CardBrand{
	txndomain.CardBrandVisa,
	txndomain.CardBrandMastercard,
	txndomain.CardBrandRupay,
	txndomain.CardBrandAmex,
}

func (s *Simulator) createSynthetic(ctx context.Context) {
	customers := s.store.Customers.List()
	if len(customers) == 0 {
		return
	}

	customer := customers[s.seq%int64(len(customers))]
	retailer, ok := s.store.Retailers.Get(customer.RetailerID)
	if !ok {
		return
	}
	s.seq++

	req := txndomain.CreateTransactionRequest{
		DistributorID: retailer.DistributorID.String(),
		RetailerID:    retailer.ID.String(),
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString(syntheticAmounts[s.seq%int64(len(syntheticAmounts))]),
		CardBrand:     syntheticBrands[s.seq%int64(len(syntheticBrands))],
	}
	if _, err := s.transactions.Create(ctx, req); err != nil {
		s.metrics.SimulatorErrors.Inc()
		s.log.Warn("synthetic transaction rejected",
			zap.String("customer_id", customer.ID.String()),
			zap.Error(err),
		)
		return
	}
	s.metrics.SimulatorCreated.Inc()
}

// Run blocks until ctx is cancelled, ticking at the configured interval.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SimulatorInterval)
	defer ticker.Stop()

	s.log.Info("simulator started", zap.Duration("interval", s.cfg.SimulatorInterval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulator stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
