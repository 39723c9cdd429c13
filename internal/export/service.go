package export

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/config"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	"github.com/cashtrail/console/internal/money"
	"github.com/cashtrail/console/internal/report"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Export is a rendered document plus a ulid reference for audit trails.
type Export struct {
	Ref         string `json:"ref"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type TransactionsRequest struct {
	Status        string
	DistributorID string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

type DisputesRequest struct {
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type StatementRequest struct {
	DistributorID string
	// Month is any instant inside the statement month.
	Month time.Time
}

type Service struct {
	store    *store.Store
	log      *zap.Logger
	clock    clock.Clock
	currency money.Currency

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

type Params struct {
	fx.In

	Store  *store.Store
	Log    *zap.Logger
	Clock  clock.Clock
	Config config.Config
}

func New(p Params) *Service {
	return &Service{
		store:    p.Store,
		log:      p.Log.Named("export.service"),
		clock:    p.Clock,
		currency: money.Currency(p.Config.Currency),
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

var transactionColumns = []string{
	"id", "distributor_id", "retailer_id", "customer_id", "amount",
	"total_fee", "commission_to_distributor", "commission_to_mgmt",
	"status", "card_brand", "created_at",
}

func (s *Service) TransactionsCSV(ctx context.Context, req TransactionsRequest) (Export, error) {
	if req.Status != "" && !txndomain.Status(req.Status).Valid() {
		return Export{}, txndomain.ErrInvalidStatus
	}
	var distributorID snowflake.ID
	if strings.TrimSpace(req.DistributorID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.DistributorID))
		if err != nil || parsed == 0 {
			return Export{}, txndomain.ErrInvalidID
		}
		distributorID = parsed
	}

	txns := s.store.Transactions.Find(func(t txndomain.Transaction) bool {
		if req.Status != "" && t.Status != txndomain.Status(req.Status) {
			return false
		}
		if distributorID != 0 && t.DistributorID != distributorID {
			return false
		}
		if req.CreatedFrom != nil && t.CreatedAt.Before(*req.CreatedFrom) {
			return false
		}
		if req.CreatedTo != nil && t.CreatedAt.After(*req.CreatedTo) {
			return false
		}
		return true
	})

	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []string{
			t.ID.String(),
			t.DistributorID.String(),
			t.RetailerID.String(),
			t.CustomerID.String(),
			t.Amount.String(),
			t.TotalFee.String(),
			t.CommissionToDistributor.String(),
			t.CommissionToMgmt.String(),
			string(t.Status),
			string(t.CardBrand),
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return s.finish("transactions.csv", "text/csv", EncodeCSV(transactionColumns, rows), len(rows)), nil
}

var disputeColumns = []string{
	"id", "transaction_id", "reason", "status", "notes", "created_at", "updated_at",
}

func (s *Service) DisputesCSV(ctx context.Context, req DisputesRequest) (Export, error) {
	if req.Status != "" && !disputedomain.Status(req.Status).Valid() {
		return Export{}, disputedomain.ErrInvalidStatus
	}

	disputes := s.store.Disputes.Find(func(d disputedomain.Dispute) bool {
		if req.Status != "" && d.Status != disputedomain.Status(req.Status) {
			return false
		}
		if req.CreatedFrom != nil && d.CreatedAt.Before(*req.CreatedFrom) {
			return false
		}
		if req.CreatedTo != nil && d.CreatedAt.After(*req.CreatedTo) {
			return false
		}
		return true
	})

	rows := make([][]string, 0, len(disputes))
	for _, d := range disputes {
		notes := make([]string, 0, len(d.Notes))
		for _, n := range d.Notes {
			notes = append(notes, n.Body)
		}
		rows = append(rows, []string{
			d.ID.String(),
			d.TransactionID.String(),
			string(d.Reason),
			string(d.Status),
			strings.Join(notes, "; "),
			d.CreatedAt.UTC().Format(time.RFC3339),
			d.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	return s.finish("disputes.csv", "text/csv", EncodeCSV(disputeColumns, rows), len(rows)), nil
}

func (s *Service) Statement(ctx context.Context, req StatementRequest) (Export, error) {
	distributorID, err := snowflake.ParseString(strings.TrimSpace(req.DistributorID))
	if err != nil || distributorID == 0 {
		return Export{}, txndomain.ErrInvalidID
	}
	distributor, ok := s.store.Distributors.Get(distributorID)
	if !ok {
		return Export{}, txndomain.ErrDistributorUnknown
	}

	monthStart := time.Date(req.Month.Year(), req.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	txns := report.FilterByRange(
		s.store.Transactions.Find(func(t txndomain.Transaction) bool {
			return t.DistributorID == distributorID
		}),
		func(t txndomain.Transaction) time.Time { return t.CreatedAt },
		&monthStart, &monthEnd,
	)

	var succeeded []txndomain.Transaction
	for _, t := range txns {
		if t.Status == txndomain.StatusSuccess {
			succeeded = append(succeeded, t)
		}
	}

	gmv := report.Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.Amount })
	commission := report.Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToDistributor })
	mgmt := report.Sum(succeeded, func(t txndomain.Transaction) decimal.Decimal { return t.CommissionToMgmt })
	daily := report.GroupByDay(succeeded,
		func(t txndomain.Transaction) time.Time { return t.CreatedAt },
		func(t txndomain.Transaction) decimal.Decimal { return t.Amount },
	)

	data, err := renderStatement(statementData{
		DistributorName: distributor.PersonalInfo.Name,
		DistributorID:   distributorID.String(),
		Period:          monthStart.Format("January 2006"),
		Volume:          len(txns),
		GMV:             money.Format(gmv, s.currency, 2),
		Commission:      money.Format(commission, s.currency, 2),
		MgmtCommission:  money.Format(mgmt, s.currency, 2),
		EffectiveRate:   money.FormatPercent(report.Ratio(commission, gmv), 2),
		Daily:           daily,
		Currency:        s.currency,
	})
	if err != nil {
		return Export{}, err
	}

	filename := "statement-" + distributorID.String() + "-" + monthStart.Format("2006-01") + ".pdf"
	return s.finish(filename, "application/pdf", data, len(txns)), nil
}

func (s *Service) finish(filename, contentType string, data []byte, rows int) Export {
	s.mu.Lock()
	ref := ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
	s.mu.Unlock()

	s.log.Info("export generated",
		zap.String("ref", ref),
		zap.String("filename", filename),
		zap.Int("rows", rows),
		zap.Int("bytes", len(data)),
	)
	return Export{Ref: ref, Filename: filename, ContentType: contentType, Data: data}
}
