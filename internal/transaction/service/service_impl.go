package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	"github.com/cashtrail/console/internal/config"
	"github.com/cashtrail/console/internal/store"
	"github.com/cashtrail/console/internal/transaction/domain"
	"github.com/cashtrail/console/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	store      *store.Store
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	fees       *config.FeeScheduleHolder
	commission commissiondomain.Service
}

type Params struct {
	fx.In

	Store      *store.Store
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Fees       *config.FeeScheduleHolder
	Commission commissiondomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		store:      p.Store,
		log:        p.Log.Named("transaction.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		fees:       p.Fees,
		commission: p.Commission,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTransactionRequest) (domain.Transaction, error) {
	distributorID, err := parseID(req.DistributorID)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	retailerID, err := parseID(req.RetailerID)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if !req.CardBrand.Valid() {
		return domain.Transaction{}, domain.ErrInvalidCardBrand
	}

	if _, ok := s.store.Distributors.Get(distributorID); !ok {
		return domain.Transaction{}, domain.ErrDistributorUnknown
	}
	retailer, ok := s.store.Retailers.Get(retailerID)
	if !ok || retailer.DistributorID != distributorID {
		return domain.Transaction{}, domain.ErrRetailerUnknown
	}
	customer, ok := s.store.Customers.Get(customerID)
	if !ok || customer.RetailerID != retailerID {
		return domain.Transaction{}, domain.ErrCustomerUnknown
	}

	source, ok, err := s.commission.RateSourceForDistributor(ctx, req.DistributorID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !ok {
		return domain.Transaction{}, domain.ErrNoCommissionRate
	}

	now := s.clock.Now()
	volume := s.monthlyVolume(distributorID, now)
	rate := source.ResolveAt(volume)

	// The split is computed once, here, and stored immutably. Mgmt is
	// always the residual so the fee balance holds exactly.
	schedule := s.fees.Get()
	totalFee := schedule.FeeFixed.Add(req.Amount.Mul(schedule.FeePercent).Div(decimal.NewFromInt(100)))
	commissionToDistributor := rate.PerTransaction(req.Amount)
	commissionToMgmt := totalFee.Sub(commissionToDistributor)

	txn := domain.Transaction{
		ID:                      s.genID.Generate(),
		DistributorID:           distributorID,
		RetailerID:              retailerID,
		CustomerID:              customerID,
		Amount:                  req.Amount,
		FeeFixed:                schedule.FeeFixed,
		FeePercent:              schedule.FeePercent,
		TotalFee:                totalFee,
		CommissionToDistributor: commissionToDistributor,
		CommissionToMgmt:        commissionToMgmt,
		Status:                  domain.StatusPending,
		CardBrand:               req.CardBrand,
		CreatedAt:               now,
	}

	s.store.Transactions.Add(txn)
	s.log.Info("transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("distributor_id", distributorID.String()),
		zap.String("amount", txn.Amount.String()),
		zap.Int64("monthly_volume", volume),
	)
	return txn, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetTransactionRequest) (domain.Transaction, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	txn, ok := s.store.Transactions.Get(id)
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return txn, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionsRequest) (domain.ListTransactionsResponse, error) {
	if req.Status != "" && !domain.Status(req.Status).Valid() {
		return domain.ListTransactionsResponse{}, domain.ErrInvalidStatus
	}

	var distributorID, retailerID snowflake.ID
	var err error
	if strings.TrimSpace(req.DistributorID) != "" {
		if distributorID, err = parseID(req.DistributorID); err != nil {
			return domain.ListTransactionsResponse{}, domain.ErrInvalidID
		}
	}
	if strings.TrimSpace(req.RetailerID) != "" {
		if retailerID, err = parseID(req.RetailerID); err != nil {
			return domain.ListTransactionsResponse{}, domain.ErrInvalidID
		}
	}

	rows := s.store.Transactions.Find(func(txn domain.Transaction) bool {
		if req.Status != "" && txn.Status != domain.Status(req.Status) {
			return false
		}
		if distributorID != 0 && txn.DistributorID != distributorID {
			return false
		}
		if retailerID != 0 && txn.RetailerID != retailerID {
			return false
		}
		// Range bounds are inclusive at both ends.
		if req.CreatedFrom != nil && txn.CreatedAt.Before(*req.CreatedFrom) {
			return false
		}
		if req.CreatedTo != nil && txn.CreatedAt.After(*req.CreatedTo) {
			return false
		}
		return true
	})

	page, info, err := pagination.Page(rows, req.PageToken, req.PageSize)
	if err != nil {
		return domain.ListTransactionsResponse{}, domain.ErrInvalidID
	}
	return domain.ListTransactionsResponse{PageInfo: info, Transactions: page}, nil
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Transaction, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	if !req.Status.Valid() {
		return domain.Transaction{}, domain.ErrInvalidStatus
	}

	current, ok := s.store.Transactions.Get(id)
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	if !current.Status.CanTransition(req.Status) {
		return domain.Transaction{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated, err := s.store.Transactions.Update(id, func(txn *domain.Transaction) {
		txn.Status = req.Status
		if req.Status.Terminal() {
			completed := now
			txn.CompletedAt = &completed
		}
	})
	if err != nil {
		return domain.Transaction{}, domain.ErrNotFound
	}

	s.log.Info("transaction status changed",
		zap.String("transaction_id", id.String()),
		zap.String("status", string(req.Status)),
	)
	return updated, nil
}

// monthlyVolume counts the distributor's transactions in the calendar month
// of now. The volume the tier resolution sees includes the transaction
// being created only after it lands, matching how the console priced from a
// running count.
func (s *Service) monthlyVolume(distributorID snowflake.ID, now time.Time) int64 {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	rows := s.store.Transactions.Find(func(txn domain.Transaction) bool {
		return txn.DistributorID == distributorID &&
			!txn.CreatedAt.Before(monthStart) &&
			txn.CreatedAt.Before(monthEnd)
	})
	return int64(len(rows))
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
