package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCPending, KYCVerified, KYCRejected:
		return true
	default:
		return false
	}
}

func (s KYCStatus) Terminal() bool {
	return s == KYCVerified || s == KYCRejected
}

// OnboardingState is derived from the record's field groups, never set
// directly: submitted iff every required group is populated.
type OnboardingState string

const (
	OnboardingPending   OnboardingState = "pending"
	OnboardingSubmitted OnboardingState = "submitted"
)

type PersonalInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (p PersonalInfo) Complete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Email) != "" &&
		strings.TrimSpace(p.Phone) != ""
}

type Document struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

// KYBInfo is the business verification group, required for distributors
// and retailers but not customers.
type KYBInfo struct {
	LegalName      string `json:"legal_name"`
	RegistrationNo string `json:"registration_no"`
	TaxID          string `json:"tax_id"`
}

func (k KYBInfo) Complete() bool {
	return strings.TrimSpace(k.LegalName) != "" &&
		strings.TrimSpace(k.RegistrationNo) != "" &&
		strings.TrimSpace(k.TaxID) != ""
}

// CommissionConfig is either a reference to a commission rule or the legacy
// per-entity fixed/percent pair. The two are mutually exclusive.
type CommissionConfig struct {
	RuleID            *snowflake.ID    `json:"rule_id,omitempty"`
	LegacyRateFixed   *decimal.Decimal `json:"commission_rate_fixed,omitempty"`
	LegacyRatePercent *decimal.Decimal `json:"commission_rate_percent,omitempty"`
}

func (c CommissionConfig) Complete() bool {
	return c.RuleID != nil || c.LegacyRateFixed != nil || c.LegacyRatePercent != nil
}

type Distributor struct {
	ID snowflake.ID `json:"id"`

	PersonalInfo PersonalInfo     `json:"personal_info"`
	KYCDocs      []Document       `json:"kyc_docs"`
	KYB          *KYBInfo         `json:"kyb,omitempty"`
	Commission   CommissionConfig `json:"commission"`
	AgreementAt  *time.Time       `json:"agreement_at,omitempty"`

	KYCStatus       KYCStatus       `json:"kyc_status"`
	OnboardingState OnboardingState `json:"onboarding_state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d Distributor) RecordID() snowflake.ID { return d.ID }

// Derive recomputes the onboarding state from the field groups.
func (d Distributor) Derive() OnboardingState {
	return deriveState(d.PersonalInfo, d.KYCDocs, d.KYB, true, d.Commission, d.AgreementAt)
}

type Retailer struct {
	ID            snowflake.ID `json:"id"`
	DistributorID snowflake.ID `json:"distributor_id"`

	PersonalInfo PersonalInfo     `json:"personal_info"`
	KYCDocs      []Document       `json:"kyc_docs"`
	KYB          *KYBInfo         `json:"kyb,omitempty"`
	Commission   CommissionConfig `json:"commission"`
	AgreementAt  *time.Time       `json:"agreement_at,omitempty"`

	KYCStatus       KYCStatus       `json:"kyc_status"`
	OnboardingState OnboardingState `json:"onboarding_state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Retailer) RecordID() snowflake.ID { return r.ID }

func (r Retailer) Derive() OnboardingState {
	return deriveState(r.PersonalInfo, r.KYCDocs, r.KYB, true, r.Commission, r.AgreementAt)
}

type Customer struct {
	ID         snowflake.ID `json:"id"`
	RetailerID snowflake.ID `json:"retailer_id"`

	PersonalInfo PersonalInfo     `json:"personal_info"`
	KYCDocs      []Document       `json:"kyc_docs"`
	Commission   CommissionConfig `json:"commission"`
	AgreementAt  *time.Time       `json:"agreement_at,omitempty"`

	KYCStatus       KYCStatus       `json:"kyc_status"`
	OnboardingState OnboardingState `json:"onboarding_state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Customer) RecordID() snowflake.ID { return c.ID }

// Derive recomputes the onboarding state. Customers have no KYB group.
func (c Customer) Derive() OnboardingState {
	return deriveState(c.PersonalInfo, c.KYCDocs, nil, false, c.Commission, c.AgreementAt)
}

func deriveState(info PersonalInfo, docs []Document, kyb *KYBInfo, kybRequired bool, commission CommissionConfig, agreementAt *time.Time) OnboardingState {
	if !info.Complete() {
		return OnboardingPending
	}
	if len(docs) == 0 {
		return OnboardingPending
	}
	if kybRequired && (kyb == nil || !kyb.Complete()) {
		return OnboardingPending
	}
	if !commission.Complete() {
		return OnboardingPending
	}
	if agreementAt == nil {
		return OnboardingPending
	}
	return OnboardingSubmitted
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// CreditCardApproval is a customer's request for a card limit.
type CreditCardApproval struct {
	ID             snowflake.ID    `json:"id"`
	CustomerID     snowflake.ID    `json:"customer_id"`
	RequestedLimit decimal.Decimal `json:"requested_limit"`
	Documents      []Document      `json:"documents"`
	Status         ApprovalStatus  `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	DecidedAt      *time.Time      `json:"decided_at,omitempty"`
}

func (a CreditCardApproval) RecordID() snowflake.ID { return a.ID }
