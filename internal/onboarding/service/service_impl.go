package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/onboarding/domain"
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
		log:   p.Log.Named("onboarding.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) CreateDistributor(ctx context.Context, req domain.CreateDistributorRequest) (domain.Distributor, error) {
	now := s.clock.Now()
	distributor := domain.Distributor{
		ID:        s.genID.Generate(),
		KYCStatus: domain.KYCPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProfile(&distributor.PersonalInfo, &distributor.KYCDocs, &distributor.KYB, &distributor.Commission, &distributor.AgreementAt, req.Profile, now)
	distributor.OnboardingState = distributor.Derive()

	s.store.Distributors.Add(distributor)
	s.log.Info("distributor created",
		zap.String("distributor_id", distributor.ID.String()),
		zap.String("onboarding_state", string(distributor.OnboardingState)),
	)
	return distributor, nil
}

func (s *Service) CreateRetailer(ctx context.Context, req domain.CreateRetailerRequest) (domain.Retailer, error) {
	distributorID, err := parseID(req.DistributorID)
	if err != nil {
		return domain.Retailer{}, domain.ErrInvalidID
	}
	if _, ok := s.store.Distributors.Get(distributorID); !ok {
		return domain.Retailer{}, domain.ErrDistributorUnknown
	}

	now := s.clock.Now()
	retailer := domain.Retailer{
		ID:            s.genID.Generate(),
		DistributorID: distributorID,
		KYCStatus:     domain.KYCPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyProfile(&retailer.PersonalInfo, &retailer.KYCDocs, &retailer.KYB, &retailer.Commission, &retailer.AgreementAt, req.Profile, now)
	retailer.OnboardingState = retailer.Derive()

	s.store.Retailers.Add(retailer)
	s.log.Info("retailer created",
		zap.String("retailer_id", retailer.ID.String()),
		zap.String("distributor_id", distributorID.String()),
	)
	return retailer, nil
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	retailerID, err := parseID(req.RetailerID)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidID
	}
	if _, ok := s.store.Retailers.Get(retailerID); !ok {
		return domain.Customer{}, domain.ErrRetailerUnknown
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:         s.genID.Generate(),
		RetailerID: retailerID,
		KYCStatus:  domain.KYCPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Customers carry no KYB group.
	applyProfile(&customer.PersonalInfo, &customer.KYCDocs, nil, &customer.Commission, &customer.AgreementAt, req.Profile, now)
	customer.OnboardingState = customer.Derive()

	s.store.Customers.Add(customer)
	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("retailer_id", retailerID.String()),
	)
	return customer, nil
}

func (s *Service) UpdateDistributor(ctx context.Context, req domain.UpdateProfileRequest) (domain.Distributor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Distributor{}, domain.ErrInvalidID
	}
	now := s.clock.Now()
	updated, err := s.store.Distributors.Update(id, func(d *domain.Distributor) {
		applyProfile(&d.PersonalInfo, &d.KYCDocs, &d.KYB, &d.Commission, &d.AgreementAt, req.Profile, now)
		d.OnboardingState = d.Derive()
		d.UpdatedAt = now
	})
	if err != nil {
		return domain.Distributor{}, domain.ErrNotFound
	}
	return updated, nil
}

func (s *Service) UpdateRetailer(ctx context.Context, req domain.UpdateProfileRequest) (domain.Retailer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Retailer{}, domain.ErrInvalidID
	}
	now := s.clock.Now()
	updated, err := s.store.Retailers.Update(id, func(r *domain.Retailer) {
		applyProfile(&r.PersonalInfo, &r.KYCDocs, &r.KYB, &r.Commission, &r.AgreementAt, req.Profile, now)
		r.OnboardingState = r.Derive()
		r.UpdatedAt = now
	})
	if err != nil {
		return domain.Retailer{}, domain.ErrNotFound
	}
	return updated, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, req domain.UpdateProfileRequest) (domain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidID
	}
	now := s.clock.Now()
	updated, err := s.store.Customers.Update(id, func(c *domain.Customer) {
		applyProfile(&c.PersonalInfo, &c.KYCDocs, nil, &c.Commission, &c.AgreementAt, req.Profile, now)
		c.OnboardingState = c.Derive()
		c.UpdatedAt = now
	})
	if err != nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return updated, nil
}

func (s *Service) GetDistributor(ctx context.Context, req domain.GetRequest) (domain.Distributor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Distributor{}, domain.ErrInvalidID
	}
	d, ok := s.store.Distributors.Get(id)
	if !ok {
		return domain.Distributor{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *Service) GetRetailer(ctx context.Context, req domain.GetRequest) (domain.Retailer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Retailer{}, domain.ErrInvalidID
	}
	r, ok := s.store.Retailers.Get(id)
	if !ok {
		return domain.Retailer{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *Service) GetCustomer(ctx context.Context, req domain.GetRequest) (domain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidID
	}
	c, ok := s.store.Customers.Get(id)
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) ListDistributors(ctx context.Context, req domain.ListRequest) ([]domain.Distributor, error) {
	return s.store.Distributors.Find(func(d domain.Distributor) bool {
		return matchList(req, d.KYCStatus, d.OnboardingState)
	}), nil
}

func (s *Service) ListRetailers(ctx context.Context, req domain.ListRequest) ([]domain.Retailer, error) {
	return s.store.Retailers.Find(func(r domain.Retailer) bool {
		return matchList(req, r.KYCStatus, r.OnboardingState)
	}), nil
}

func (s *Service) ListCustomers(ctx context.Context, req domain.ListRequest) ([]domain.Customer, error) {
	return s.store.Customers.Find(func(c domain.Customer) bool {
		return matchList(req, c.KYCStatus, c.OnboardingState)
	}), nil
}

func (s *Service) DecideDistributorKYC(ctx context.Context, req domain.KYCDecisionRequest) (domain.Distributor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Distributor{}, domain.ErrInvalidID
	}
	current, ok := s.store.Distributors.Get(id)
	if !ok {
		return domain.Distributor{}, domain.ErrNotFound
	}
	if err := checkDecidable(current.KYCStatus, current.OnboardingState); err != nil {
		return domain.Distributor{}, err
	}
	now := s.clock.Now()
	updated, err := s.store.Distributors.Update(id, func(d *domain.Distributor) {
		d.KYCStatus = decision(req.Approve)
		d.UpdatedAt = now
	})
	if err != nil {
		return domain.Distributor{}, domain.ErrNotFound
	}
	s.logDecision("distributor", id, updated.KYCStatus)
	return updated, nil
}

func (s *Service) DecideRetailerKYC(ctx context.Context, req domain.KYCDecisionRequest) (domain.Retailer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Retailer{}, domain.ErrInvalidID
	}
	current, ok := s.store.Retailers.Get(id)
	if !ok {
		return domain.Retailer{}, domain.ErrNotFound
	}
	if err := checkDecidable(current.KYCStatus, current.OnboardingState); err != nil {
		return domain.Retailer{}, err
	}
	now := s.clock.Now()
	updated, err := s.store.Retailers.Update(id, func(r *domain.Retailer) {
		r.KYCStatus = decision(req.Approve)
		r.UpdatedAt = now
	})
	if err != nil {
		return domain.Retailer{}, domain.ErrNotFound
	}
	s.logDecision("retailer", id, updated.KYCStatus)
	return updated, nil
}

func (s *Service) DecideCustomerKYC(ctx context.Context, req domain.KYCDecisionRequest) (domain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidID
	}
	current, ok := s.store.Customers.Get(id)
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err := checkDecidable(current.KYCStatus, current.OnboardingState); err != nil {
		return domain.Customer{}, err
	}
	now := s.clock.Now()
	updated, err := s.store.Customers.Update(id, func(c *domain.Customer) {
		c.KYCStatus = decision(req.Approve)
		c.UpdatedAt = now
	})
	if err != nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	s.logDecision("customer", id, updated.KYCStatus)
	return updated, nil
}

func (s *Service) Queue(ctx context.Context) (domain.ApprovalQueue, error) {
	waiting := func(kyc domain.KYCStatus, state domain.OnboardingState) bool {
		return kyc == domain.KYCPending && state == domain.OnboardingSubmitted
	}
	return domain.ApprovalQueue{
		Distributors: s.store.Distributors.Find(func(d domain.Distributor) bool {
			return waiting(d.KYCStatus, d.OnboardingState)
		}),
		Retailers: s.store.Retailers.Find(func(r domain.Retailer) bool {
			return waiting(r.KYCStatus, r.OnboardingState)
		}),
		Customers: s.store.Customers.Find(func(c domain.Customer) bool {
			return waiting(c.KYCStatus, c.OnboardingState)
		}),
	}, nil
}

func (s *Service) RequestCardApproval(ctx context.Context, req domain.RequestCardApprovalRequest) (domain.CreditCardApproval, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.CreditCardApproval{}, domain.ErrInvalidID
	}
	if _, ok := s.store.Customers.Get(customerID); !ok {
		return domain.CreditCardApproval{}, domain.ErrCustomerUnknown
	}
	if !req.RequestedLimit.IsPositive() {
		return domain.CreditCardApproval{}, domain.ErrInvalidLimit
	}

	approval := domain.CreditCardApproval{
		ID:             s.genID.Generate(),
		CustomerID:     customerID,
		RequestedLimit: req.RequestedLimit,
		Documents:      append([]domain.Document(nil), req.Documents...),
		Status:         domain.ApprovalPending,
		CreatedAt:      s.clock.Now(),
	}
	s.store.CardApprovals.Add(approval)
	s.log.Info("card approval requested",
		zap.String("approval_id", approval.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("requested_limit", approval.RequestedLimit.String()),
	)
	return approval, nil
}

func (s *Service) DecideCardApproval(ctx context.Context, req domain.CardDecisionRequest) (domain.CreditCardApproval, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.CreditCardApproval{}, domain.ErrInvalidID
	}
	current, ok := s.store.CardApprovals.Get(id)
	if !ok {
		return domain.CreditCardApproval{}, domain.ErrNotFound
	}
	if current.Status.Terminal() {
		return domain.CreditCardApproval{}, domain.ErrApprovalDecided
	}

	now := s.clock.Now()
	updated, err := s.store.CardApprovals.Update(id, func(a *domain.CreditCardApproval) {
		if req.Approve {
			a.Status = domain.ApprovalApproved
		} else {
			a.Status = domain.ApprovalRejected
		}
		decided := now
		a.DecidedAt = &decided
	})
	if err != nil {
		return domain.CreditCardApproval{}, domain.ErrNotFound
	}
	return updated, nil
}

func (s *Service) ListCardApprovals(ctx context.Context, req domain.ListCardApprovalsRequest) ([]domain.CreditCardApproval, error) {
	var customerID snowflake.ID
	if strings.TrimSpace(req.CustomerID) != "" {
		parsed, err := parseID(req.CustomerID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		customerID = parsed
	}
	return s.store.CardApprovals.Find(func(a domain.CreditCardApproval) bool {
		if req.Status != "" && a.Status != domain.ApprovalStatus(req.Status) {
			return false
		}
		if customerID != 0 && a.CustomerID != customerID {
			return false
		}
		return true
	}), nil
}

// applyProfile copies the non-nil groups of in onto the record fields. kyb is
// nil for customers. Slices are replaced wholesale, never appended, so the
// caller's view of a group is exactly what was last sent.
func applyProfile(info *domain.PersonalInfo, docs *[]domain.Document, kyb **domain.KYBInfo, commission *domain.CommissionConfig, agreementAt **time.Time, in domain.ProfileInput, now time.Time) {
	if in.PersonalInfo != nil {
		*info = *in.PersonalInfo
	}
	if in.KYCDocs != nil {
		*docs = append([]domain.Document(nil), (*in.KYCDocs)...)
	}
	if kyb != nil && in.KYB != nil {
		copied := *in.KYB
		*kyb = &copied
	}
	if in.Commission != nil {
		*commission = *in.Commission
	}
	if in.SignAgreement && *agreementAt == nil {
		signed := now
		*agreementAt = &signed
	}
}

func matchList(req domain.ListRequest, kyc domain.KYCStatus, state domain.OnboardingState) bool {
	if req.KYCStatus != "" && kyc != domain.KYCStatus(req.KYCStatus) {
		return false
	}
	if req.OnboardingState != "" && state != domain.OnboardingState(req.OnboardingState) {
		return false
	}
	return true
}

func checkDecidable(kyc domain.KYCStatus, state domain.OnboardingState) error {
	if kyc.Terminal() {
		return domain.ErrKYCDecided
	}
	if state != domain.OnboardingSubmitted {
		return domain.ErrNotSubmitted
	}
	return nil
}

func decision(approve bool) domain.KYCStatus {
	if approve {
		return domain.KYCVerified
	}
	return domain.KYCRejected
}

func (s *Service) logDecision(kind string, id snowflake.ID, status domain.KYCStatus) {
	s.log.Info("kyc decided",
		zap.String("kind", kind),
		zap.String("id", id.String()),
		zap.String("kyc_status", string(status)),
	)
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
