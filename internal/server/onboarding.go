package server

import (
	"net/http"

	"github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/gin-gonic/gin"
)

type profileBody struct {
	PersonalInfo  *domain.PersonalInfo     `json:"personal_info"`
	KYCDocs       *[]domain.Document       `json:"kyc_docs"`
	KYB           *domain.KYBInfo          `json:"kyb"`
	Commission    *domain.CommissionConfig `json:"commission"`
	SignAgreement bool                     `json:"sign_agreement"`
}

func (b profileBody) toInput() domain.ProfileInput {
	return domain.ProfileInput{
		PersonalInfo:  b.PersonalInfo,
		KYCDocs:       b.KYCDocs,
		KYB:           b.KYB,
		Commission:    b.Commission,
		SignAgreement: b.SignAgreement,
	}
}

type createDistributorBody struct {
	profileBody
}

func (s *Server) CreateDistributor(c *gin.Context) {
	var body createDistributorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	distributor, err := s.onboardingSvc.CreateDistributor(c.Request.Context(), domain.CreateDistributorRequest{
		Profile: body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, distributor)
}

type createRetailerBody struct {
	profileBody
	DistributorID string `json:"distributor_id"`
}

func (s *Server) CreateRetailer(c *gin.Context) {
	var body createRetailerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	retailer, err := s.onboardingSvc.CreateRetailer(c.Request.Context(), domain.CreateRetailerRequest{
		DistributorID: body.DistributorID,
		Profile:       body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, retailer)
}

type createCustomerBody struct {
	profileBody
	RetailerID string `json:"retailer_id"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var body createCustomerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	customer, err := s.onboardingSvc.CreateCustomer(c.Request.Context(), domain.CreateCustomerRequest{
		RetailerID: body.RetailerID,
		Profile:    body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (s *Server) UpdateDistributor(c *gin.Context) {
	var body profileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	distributor, err := s.onboardingSvc.UpdateDistributor(c.Request.Context(), domain.UpdateProfileRequest{
		ID:      c.Param("id"),
		Profile: body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, distributor)
}

func (s *Server) UpdateRetailer(c *gin.Context) {
	var body profileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	retailer, err := s.onboardingSvc.UpdateRetailer(c.Request.Context(), domain.UpdateProfileRequest{
		ID:      c.Param("id"),
		Profile: body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, retailer)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var body profileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	customer, err := s.onboardingSvc.UpdateCustomer(c.Request.Context(), domain.UpdateProfileRequest{
		ID:      c.Param("id"),
		Profile: body.toInput(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) GetDistributor(c *gin.Context) {
	distributor, err := s.onboardingSvc.GetDistributor(c.Request.Context(), domain.GetRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, distributor)
}

func (s *Server) GetRetailer(c *gin.Context) {
	retailer, err := s.onboardingSvc.GetRetailer(c.Request.Context(), domain.GetRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, retailer)
}

func (s *Server) GetCustomer(c *gin.Context) {
	customer, err := s.onboardingSvc.GetCustomer(c.Request.Context(), domain.GetRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func listRequest(c *gin.Context) domain.ListRequest {
	return domain.ListRequest{
		KYCStatus:       c.Query("kyc_status"),
		OnboardingState: c.Query("onboarding_state"),
	}
}

func (s *Server) ListDistributors(c *gin.Context) {
	distributors, err := s.onboardingSvc.ListDistributors(c.Request.Context(), listRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distributors": distributors})
}

func (s *Server) ListRetailers(c *gin.Context) {
	retailers, err := s.onboardingSvc.ListRetailers(c.Request.Context(), listRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"retailers": retailers})
}

func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.onboardingSvc.ListCustomers(c.Request.Context(), listRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

type kycDecisionBody struct {
	Approve bool `json:"approve"`
}

func (s *Server) DecideDistributorKYC(c *gin.Context) {
	var body kycDecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	distributor, err := s.onboardingSvc.DecideDistributorKYC(c.Request.Context(), domain.KYCDecisionRequest{
		ID:      c.Param("id"),
		Approve: body.Approve,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, distributor)
}

func (s *Server) DecideRetailerKYC(c *gin.Context) {
	var body kycDecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	retailer, err := s.onboardingSvc.DecideRetailerKYC(c.Request.Context(), domain.KYCDecisionRequest{
		ID:      c.Param("id"),
		Approve: body.Approve,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, retailer)
}

func (s *Server) DecideCustomerKYC(c *gin.Context) {
	var body kycDecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	customer, err := s.onboardingSvc.DecideCustomerKYC(c.Request.Context(), domain.KYCDecisionRequest{
		ID:      c.Param("id"),
		Approve: body.Approve,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) ApprovalQueue(c *gin.Context) {
	queue, err := s.onboardingSvc.Queue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}
