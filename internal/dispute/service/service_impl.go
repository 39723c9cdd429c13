package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/dispute/domain"
	"github.com/cashtrail/console/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	store *store.Store
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

type Params struct {
	fx.In

	Store *store.Store
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		store: p.Store,
		log:   p.Log.Named("dispute.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Open(ctx context.Context, req domain.OpenDisputeRequest) (domain.Dispute, error) {
	txnID, err := parseID(req.TransactionID)
	if err != nil {
		return domain.Dispute{}, domain.ErrInvalidID
	}
	if !req.Reason.Valid() {
		return domain.Dispute{}, domain.ErrInvalidReason
	}
	if _, ok := s.store.Transactions.Get(txnID); !ok {
		return domain.Dispute{}, domain.ErrTransactionUnknown
	}

	now := s.clock.Now()
	dispute := domain.Dispute{
		ID:            s.genID.Generate(),
		TransactionID: txnID,
		Reason:        req.Reason,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if body := strings.TrimSpace(req.Note); body != "" {
		dispute.Notes = []domain.Note{{Body: body, CreatedAt: now}}
	}

	s.store.Disputes.Add(dispute)
	s.log.Info("dispute opened",
		zap.String("dispute_id", dispute.ID.String()),
		zap.String("transaction_id", txnID.String()),
		zap.String("reason", string(req.Reason)),
	)
	return dispute, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetDisputeRequest) (domain.Dispute, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Dispute{}, domain.ErrInvalidID
	}
	dispute, ok := s.store.Disputes.Get(id)
	if !ok {
		return domain.Dispute{}, domain.ErrNotFound
	}
	return dispute, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDisputesRequest) (domain.ListDisputesResponse, error) {
	if req.Status != "" && !domain.Status(req.Status).Valid() {
		return domain.ListDisputesResponse{}, domain.ErrInvalidStatus
	}

	disputes := s.store.Disputes.Find(func(d domain.Dispute) bool {
		if req.Status != "" && d.Status != domain.Status(req.Status) {
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
	return domain.ListDisputesResponse{Disputes: disputes}, nil
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Dispute, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Dispute{}, domain.ErrInvalidID
	}
	if !req.Status.Valid() {
		return domain.Dispute{}, domain.ErrInvalidStatus
	}

	current, ok := s.store.Disputes.Get(id)
	if !ok {
		return domain.Dispute{}, domain.ErrNotFound
	}
	if !current.Status.CanTransition(req.Status) {
		return domain.Dispute{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated, err := s.store.Disputes.Update(id, func(d *domain.Dispute) {
		d.Status = req.Status
		d.UpdatedAt = now
		if body := strings.TrimSpace(req.Note); body != "" {
			d.Notes = append(append([]domain.Note(nil), d.Notes...), domain.Note{Body: body, CreatedAt: now})
		}
	})
	if err != nil {
		return domain.Dispute{}, domain.ErrNotFound
	}

	s.log.Info("dispute status changed",
		zap.String("dispute_id", id.String()),
		zap.String("status", string(req.Status)),
	)
	return updated, nil
}

func (s *Service) AppendNote(ctx context.Context, req domain.AppendNoteRequest) (domain.Dispute, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Dispute{}, domain.ErrInvalidID
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.Dispute{}, domain.ErrInvalidNote
	}

	now := s.clock.Now()
	updated, err := s.store.Disputes.Update(id, func(d *domain.Dispute) {
		d.Notes = append(append([]domain.Note(nil), d.Notes...), domain.Note{Body: body, CreatedAt: now})
		d.UpdatedAt = now
	})
	if err != nil {
		return domain.Dispute{}, domain.ErrNotFound
	}
	return updated, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
