package domain

import (
	"context"
	"errors"
	"time"

	"github.com/cashtrail/console/pkg/pagination"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	DistributorID string
	RetailerID    string
	CustomerID    string
	Amount        decimal.Decimal
	CardBrand     CardBrand
}

type GetTransactionRequest struct {
	ID string
}

type ListTransactionsRequest struct {
	pagination.Pagination
	Status        string
	DistributorID string
	RetailerID    string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

type ListTransactionsResponse struct {
	pagination.PageInfo
	Transactions []Transaction `json:"transactions"`
}

type TransitionRequest struct {
	ID     string
	Status Status
}

type Service interface {
	Create(context.Context, CreateTransactionRequest) (Transaction, error)
	Get(context.Context, GetTransactionRequest) (Transaction, error)
	List(context.Context, ListTransactionsRequest) (ListTransactionsResponse, error)
	Transition(context.Context, TransitionRequest) (Transaction, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidCardBrand   = errors.New("invalid_card_brand")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrNotFound           = errors.New("transaction_not_found")
	ErrDistributorUnknown = errors.New("distributor_unknown")
	ErrRetailerUnknown    = errors.New("retailer_unknown")
	ErrCustomerUnknown    = errors.New("customer_unknown")
	ErrNoCommissionRate   = errors.New("no_commission_rate")
)
