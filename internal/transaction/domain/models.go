package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusReversed   Status = "reversed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSuccess, StatusFailed, StatusReversed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusReversed:
		return true
	default:
		return false
	}
}

// CanTransition enforces pending -> processing -> success|failed|reversed.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusSuccess || to == StatusFailed || to == StatusReversed
	default:
		return false
	}
}

type CardBrand string

const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandRupay      CardBrand = "rupay"
	CardBrandAmex       CardBrand = "amex"
)

func (b CardBrand) Valid() bool {
	switch b {
	case CardBrandVisa, CardBrandMastercard, CardBrandRupay, CardBrandAmex:
		return true
	default:
		return false
	}
}

// Transaction is a card-to-cash movement. The fee/revenue split is computed
// once at creation and stored immutably; rule changes never reprice history.
type Transaction struct {
	ID            snowflake.ID `json:"id"`
	DistributorID snowflake.ID `json:"distributor_id"`
	RetailerID    snowflake.ID `json:"retailer_id"`
	CustomerID    snowflake.ID `json:"customer_id"`

	// Amount is the principal moved to the customer.
	Amount decimal.Decimal `json:"amount"`

	// Fee charged to the customer, as priced by the fee schedule at
	// creation time.
	FeeFixed   decimal.Decimal `json:"fee_fixed"`
	FeePercent decimal.Decimal `json:"fee_percent"`
	TotalFee   decimal.Decimal `json:"total_fee"`

	// Split of the fee. CommissionToMgmt is always the residual
	// TotalFee - CommissionToDistributor, so the split balances exactly.
	CommissionToDistributor decimal.Decimal `json:"commission_to_distributor"`
	CommissionToMgmt        decimal.Decimal `json:"commission_to_mgmt"`

	Status    Status    `json:"status"`
	CardBrand CardBrand `json:"card_brand"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (t Transaction) RecordID() snowflake.ID { return t.ID }
