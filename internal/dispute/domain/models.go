package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Reason string

const (
	ReasonFraud              Reason = "fraud"
	ReasonDuplicate          Reason = "duplicate"
	ReasonServiceNotRendered Reason = "service_not_rendered"
	ReasonAmountMismatch     Reason = "amount_mismatch"
	ReasonOther              Reason = "other"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonFraud, ReasonDuplicate, ReasonServiceNotRendered, ReasonAmountMismatch, ReasonOther:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Open reports whether the dispute still counts toward chargeback exposure.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusProcessing
}

func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusResolved || to == StatusRejected
	default:
		return false
	}
}

type Note struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Dispute struct {
	ID            snowflake.ID `json:"id"`
	TransactionID snowflake.ID `json:"transaction_id"`
	Reason        Reason       `json:"reason"`
	Status        Status       `json:"status"`
	Notes         []Note       `json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (d Dispute) RecordID() snowflake.ID { return d.ID }
