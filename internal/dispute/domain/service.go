package domain

import (
	"context"
	"errors"
	"time"
)

type OpenDisputeRequest struct {
	TransactionID string
	Reason        Reason
	Note          string
}

type GetDisputeRequest struct {
	ID string
}

type ListDisputesRequest struct {
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListDisputesResponse struct {
	Disputes []Dispute `json:"disputes"`
}

type TransitionRequest struct {
	ID     string
	Status Status
	Note   string
}

type AppendNoteRequest struct {
	ID   string
	Body string
}

type Service interface {
	Open(context.Context, OpenDisputeRequest) (Dispute, error)
	Get(context.Context, GetDisputeRequest) (Dispute, error)
	List(context.Context, ListDisputesRequest) (ListDisputesResponse, error)
	Transition(context.Context, TransitionRequest) (Dispute, error)
	AppendNote(context.Context, AppendNoteRequest) (Dispute, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidReason      = errors.New("invalid_reason")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrInvalidNote        = errors.New("invalid_note")
	ErrNotFound           = errors.New("dispute_not_found")
	ErrTransactionUnknown = errors.New("transaction_unknown")
)
