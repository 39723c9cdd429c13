package server

import (
	"net/http"

	"github.com/cashtrail/console/internal/commission/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createRuleBody struct {
	Name          string             `json:"name"`
	Scope         string             `json:"scope"`
	DistributorID string             `json:"distributor_id"`
	BaseFixed     decimal.Decimal    `json:"base_fixed"`
	BasePercent   decimal.Decimal    `json:"base_percent"`
	Tiers         []domain.TierInput `json:"tiers"`
	Active        bool               `json:"active"`
}

func (s *Server) CreateCommissionRule(c *gin.Context) {
	var body createRuleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rule, err := s.commissionSvc.Create(c.Request.Context(), domain.CreateRuleRequest{
		Name:          body.Name,
		Scope:         domain.Scope(body.Scope),
		DistributorID: body.DistributorID,
		BaseFixed:     body.BaseFixed,
		BasePercent:   body.BasePercent,
		Tiers:         body.Tiers,
		Active:        body.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

type updateRuleBody struct {
	Name        *string             `json:"name"`
	BaseFixed   *decimal.Decimal    `json:"base_fixed"`
	BasePercent *decimal.Decimal    `json:"base_percent"`
	Tiers       *[]domain.TierInput `json:"tiers"`
	Active      *bool               `json:"active"`
}

func (s *Server) UpdateCommissionRule(c *gin.Context) {
	var body updateRuleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rule, err := s.commissionSvc.Update(c.Request.Context(), domain.UpdateRuleRequest{
		ID:          c.Param("id"),
		Name:        body.Name,
		BaseFixed:   body.BaseFixed,
		BasePercent: body.BasePercent,
		Tiers:       body.Tiers,
		Active:      body.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) GetCommissionRule(c *gin.Context) {
	rule, err := s.commissionSvc.Get(c.Request.Context(), domain.GetRuleRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) ListCommissionRules(c *gin.Context) {
	resp, err := s.commissionSvc.List(c.Request.Context(), domain.ListRulesRequest{
		Scope:         c.Query("scope"),
		DistributorID: c.Query("distributor_id"),
		ActiveOnly:    c.Query("active") == "true",
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type simulateBody struct {
	MonthlyVolume        int64           `json:"monthly_volume"`
	AvgTransactionAmount decimal.Decimal `json:"avg_transaction_amount"`
}

func (s *Server) SimulateCommissionRule(c *gin.Context) {
	var body simulateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.commissionSvc.Simulate(c.Request.Context(), domain.SimulateRequest{
		RuleID:               c.Param("id"),
		MonthlyVolume:        body.MonthlyVolume,
		AvgTransactionAmount: body.AvgTransactionAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
