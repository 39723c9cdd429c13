package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ProfileInput carries the partial field groups accepted by create and
// update operations. Nil groups are left untouched on update.
type ProfileInput struct {
	PersonalInfo *PersonalInfo
	KYCDocs      *[]Document
	KYB          *KYBInfo
	Commission   *CommissionConfig
	SignAgreement bool
}

type CreateDistributorRequest struct {
	Profile ProfileInput
}

type CreateRetailerRequest struct {
	DistributorID string
	Profile       ProfileInput
}

type CreateCustomerRequest struct {
	RetailerID string
	Profile    ProfileInput
}

type UpdateProfileRequest struct {
	ID      string
	Profile ProfileInput
}

type GetRequest struct {
	ID string
}

type ListRequest struct {
	KYCStatus       string
	OnboardingState string
}

type KYCDecisionRequest struct {
	ID      string
	Approve bool
}

// ApprovalQueue groups the records waiting on a KYC decision: submitted
// onboarding state, pending KYC.
type ApprovalQueue struct {
	Distributors []Distributor `json:"distributors"`
	Retailers    []Retailer    `json:"retailers"`
	Customers    []Customer    `json:"customers"`
}

type RequestCardApprovalRequest struct {
	CustomerID     string
	RequestedLimit decimal.Decimal
	Documents      []Document
}

type CardDecisionRequest struct {
	ID      string
	Approve bool
}

type ListCardApprovalsRequest struct {
	Status     string
	CustomerID string
}

type Service interface {
	CreateDistributor(context.Context, CreateDistributorRequest) (Distributor, error)
	CreateRetailer(context.Context, CreateRetailerRequest) (Retailer, error)
	CreateCustomer(context.Context, CreateCustomerRequest) (Customer, error)

	UpdateDistributor(context.Context, UpdateProfileRequest) (Distributor, error)
	UpdateRetailer(context.Context, UpdateProfileRequest) (Retailer, error)
	UpdateCustomer(context.Context, UpdateProfileRequest) (Customer, error)

	GetDistributor(context.Context, GetRequest) (Distributor, error)
	GetRetailer(context.Context, GetRequest) (Retailer, error)
	GetCustomer(context.Context, GetRequest) (Customer, error)

	ListDistributors(context.Context, ListRequest) ([]Distributor, error)
	ListRetailers(context.Context, ListRequest) ([]Retailer, error)
	ListCustomers(context.Context, ListRequest) ([]Customer, error)

	DecideDistributorKYC(context.Context, KYCDecisionRequest) (Distributor, error)
	DecideRetailerKYC(context.Context, KYCDecisionRequest) (Retailer, error)
	DecideCustomerKYC(context.Context, KYCDecisionRequest) (Customer, error)

	Queue(context.Context) (ApprovalQueue, error)

	RequestCardApproval(context.Context, RequestCardApprovalRequest) (CreditCardApproval, error)
	DecideCardApproval(context.Context, CardDecisionRequest) (CreditCardApproval, error)
	ListCardApprovals(context.Context, ListCardApprovalsRequest) ([]CreditCardApproval, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidLimit       = errors.New("invalid_limit")
	ErrNotFound           = errors.New("record_not_found")
	ErrDistributorUnknown = errors.New("distributor_unknown")
	ErrRetailerUnknown    = errors.New("retailer_unknown")
	ErrCustomerUnknown    = errors.New("customer_unknown")
	ErrNotSubmitted       = errors.New("onboarding_not_submitted")
	ErrKYCDecided         = errors.New("kyc_already_decided")
	ErrApprovalDecided    = errors.New("approval_already_decided")
)
