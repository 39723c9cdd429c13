// Package seed bootstraps a deterministic development dataset so the
// dashboard and exports have something to show on first boot.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/store"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Seeder struct {
	store        *store.Store
	log          *zap.Logger
	clock        clock.Clock
	commission   commissiondomain.Service
	transactions txndomain.Service
	disputes     disputedomain.Service
	onboarding   onboardingdomain.Service
}

type Params struct {
	fx.In

	Store        *store.Store
	Log          *zap.Logger
	Clock        clock.Clock
	Commission   commissiondomain.Service
	Transactions txndomain.Service
	Disputes     disputedomain.Service
	Onboarding   onboardingdomain.Service
}

func New(p Params) *Seeder {
	return &Seeder{
		store:        p.Store,
		log:          p.Log.Named("seed"),
		clock:        p.Clock,
		commission:   p.Commission,
		transactions: p.Transactions,
		disputes:     p.Disputes,
		onboarding:   p.Onboarding,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var distributorNames = []string{"Verma Agencies", "Lakshmi Traders", "Nair & Sons"}

// Run populates the store. It is idempotent per process: a non-empty store is
// left alone.
func (s *Seeder) Run(ctx context.Context) error {
	if s.store.Distributors.Len() > 0 {
		s.log.Info("store not empty, skipping seed")
		return nil
	}

	if _, err := s.commission.Create(ctx, commissiondomain.CreateRuleRequest{
		Name:        "Standard network rate",
		Scope:       commissiondomain.ScopeAll,
		BaseFixed:   dec("4"),
		BasePercent: dec("1.2"),
		Active:      true,
	}); err != nil {
		return fmt.Errorf("seed all-scope rule: %w", err)
	}

	customers := make([]onboardingdomain.Customer, 0, len(distributorNames)*2)
	for i, name := range distributorNames {
		distributor, err := s.onboarding.CreateDistributor(ctx, onboardingdomain.CreateDistributorRequest{
			Profile: profileFor(name, i),
		})
		if err != nil {
			return fmt.Errorf("seed distributor %q: %w", name, err)
		}
		if _, err := s.onboarding.DecideDistributorKYC(ctx, onboardingdomain.KYCDecisionRequest{
			ID: distributor.ID.String(), Approve: true,
		}); err != nil {
			return fmt.Errorf("seed distributor kyc: %w", err)
		}

		// The first distributor gets the tiered metro rule.
		if i == 0 {
			if _, err := s.commission.Create(ctx, commissiondomain.CreateRuleRequest{
				Name:          "Metro distributors",
				Scope:         commissiondomain.ScopeDistributor,
				DistributorID: distributor.ID.String(),
				BaseFixed:     dec("5.0"),
				BasePercent:   dec("1.5"),
				Tiers: []commissiondomain.TierInput{
					{MinVolume: 50, Fixed: decPtr("4.5"), Percent: decPtr("1.4")},
					{MinVolume: 100, Fixed: decPtr("4.0"), Percent: decPtr("1.3")},
				},
				Active: true,
			}); err != nil {
				return fmt.Errorf("seed tiered rule: %w", err)
			}
		}

		for r := 0; r < 2; r++ {
			retailer, err := s.onboarding.CreateRetailer(ctx, onboardingdomain.CreateRetailerRequest{
				DistributorID: distributor.ID.String(),
				Profile:       profileFor(fmt.Sprintf("%s Retail %d", name, r+1), i*10+r),
			})
			if err != nil {
				return fmt.Errorf("seed retailer: %w", err)
			}
			if _, err := s.onboarding.DecideRetailerKYC(ctx, onboardingdomain.KYCDecisionRequest{
				ID: retailer.ID.String(), Approve: true,
			}); err != nil {
				return fmt.Errorf("seed retailer kyc: %w", err)
			}

			profile := profileFor(fmt.Sprintf("Customer %d-%d", i+1, r+1), i*100+r)
			profile.KYB = nil
			customer, err := s.onboarding.CreateCustomer(ctx, onboardingdomain.CreateCustomerRequest{
				RetailerID: retailer.ID.String(),
				Profile:    profile,
			})
			if err != nil {
				return fmt.Errorf("seed customer: %w", err)
			}
			customers = append(customers, customer)
		}
	}

	// One distributor left in the approval queue.
	if _, err := s.onboarding.CreateDistributor(ctx, onboardingdomain.CreateDistributorRequest{
		Profile: profileFor("Pending Partner Co", 99),
	}); err != nil {
		return fmt.Errorf("seed pending distributor: %w", err)
	}

	if err := s.seedTransactions(ctx, customers); err != nil {
		return err
	}

	if _, err := s.onboarding.RequestCardApproval(ctx, onboardingdomain.RequestCardApprovalRequest{
		CustomerID:     customers[0].ID.String(),
		RequestedLimit: dec("50000"),
		Documents:      []onboardingdomain.Document{{Kind: "payslip", Ref: "seed-doc-1"}},
	}); err != nil {
		return fmt.Errorf("seed card approval: %w", err)
	}

	s.log.Info("seed complete",
		zap.Int("distributors", s.store.Distributors.Len()),
		zap.Int("retailers", s.store.Retailers.Len()),
		zap.Int("customers", s.store.Customers.Len()),
		zap.Int("transactions", s.store.Transactions.Len()),
		zap.Int("disputes", s.store.Disputes.Len()),
	)
	return nil
}

var seedAmounts = []string{"500", "1500", "2000", "3200", "5000", "8000", "12000"}

func (s *Seeder) seedTransactions(ctx context.Context, customers []onboardingdomain.Customer) error {
	now := s.clock.Now()

	for i := 0; i < 40; i++ {
		customer := customers[i%len(customers)]
		retailer, ok := s.store.Retailers.Get(customer.RetailerID)
		if !ok {
			continue
		}

		txn, err := s.transactions.Create(ctx, txndomain.CreateTransactionRequest{
			DistributorID: retailer.DistributorID.String(),
			RetailerID:    retailer.ID.String(),
			CustomerID:    customer.ID.String(),
			Amount:        dec(seedAmounts[i%len(seedAmounts)]),
			CardBrand:     []txndomain.CardBrand{txndomain.CardBrandVisa, txndomain.CardBrandMastercard, txndomain.CardBrandRupay}[i%3],
		})
		if err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}

		// Spread history across the last two weeks.
		createdAt := now.AddDate(0, 0, -(i % 14))
		if _, err := s.store.Transactions.Update(txn.ID, func(t *txndomain.Transaction) {
			t.CreatedAt = createdAt
		}); err != nil {
			return fmt.Errorf("seed backdate: %w", err)
		}

		if err := s.settle(ctx, txn.ID.String(), i, createdAt); err != nil {
			return err
		}

		// Every 12th transaction picks up a dispute.
		if i%12 == 0 {
			if _, err := s.disputes.Open(ctx, disputedomain.OpenDisputeRequest{
				TransactionID: txn.ID.String(),
				Reason:        disputedomain.ReasonAmountMismatch,
				Note:          "seeded dispute",
			}); err != nil {
				return fmt.Errorf("seed dispute: %w", err)
			}
		}
	}
	return nil
}

// settle walks most transactions to a terminal state; a few stay pending or
// processing so every status shows up on the dashboard.
func (s *Seeder) settle(ctx context.Context, id string, i int, createdAt time.Time) error {
	if i%10 == 9 {
		return nil // stays pending
	}
	if _, err := s.transactions.Transition(ctx, txndomain.TransitionRequest{
		ID: id, Status: txndomain.StatusProcessing,
	}); err != nil {
		return fmt.Errorf("seed transition: %w", err)
	}
	if i%10 == 8 {
		return nil // stays processing
	}

	terminal := txndomain.StatusSuccess
	switch i % 10 {
	case 6:
		terminal = txndomain.StatusFailed
	case 7:
		terminal = txndomain.StatusReversed
	}
	if _, err := s.transactions.Transition(ctx, txndomain.TransitionRequest{ID: id, Status: terminal}); err != nil {
		return fmt.Errorf("seed transition: %w", err)
	}

	// Keep CompletedAt near the backdated CreatedAt.
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return fmt.Errorf("seed settle: %w", err)
	}
	completed := createdAt.Add(2 * time.Minute)
	if _, err := s.store.Transactions.Update(parsed, func(t *txndomain.Transaction) {
		t.CompletedAt = &completed
	}); err != nil {
		return fmt.Errorf("seed settle: %w", err)
	}
	return nil
}

func profileFor(name string, n int) onboardingdomain.ProfileInput {
	return onboardingdomain.ProfileInput{
		PersonalInfo: &onboardingdomain.PersonalInfo{
			Name:  name,
			Email: fmt.Sprintf("contact%d@example.com", n),
			Phone: fmt.Sprintf("+91 98%08d", n),
		},
		KYCDocs: &[]onboardingdomain.Document{{Kind: "aadhaar", Ref: fmt.Sprintf("seed-kyc-%d", n)}},
		KYB: &onboardingdomain.KYBInfo{
			LegalName:      name + " Pvt Ltd",
			RegistrationNo: fmt.Sprintf("U%06d", n),
			TaxID:          fmt.Sprintf("AAAP%05dA", n),
		},
		Commission:    &onboardingdomain.CommissionConfig{LegacyRateFixed: decPtr("3"), LegacyRatePercent: decPtr("1.1")},
		SignAgreement: true,
	}
}
