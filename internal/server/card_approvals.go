package server

import (
	"net/http"

	"github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cardApprovalBody struct {
	CustomerID     string            `json:"customer_id"`
	RequestedLimit decimal.Decimal   `json:"requested_limit"`
	Documents      []domain.Document `json:"documents"`
}

func (s *Server) RequestCardApproval(c *gin.Context) {
	var body cardApprovalBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	approval, err := s.onboardingSvc.RequestCardApproval(c.Request.Context(), domain.RequestCardApprovalRequest{
		CustomerID:     body.CustomerID,
		RequestedLimit: body.RequestedLimit,
		Documents:      body.Documents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, approval)
}

type cardDecisionBody struct {
	Approve bool `json:"approve"`
}

func (s *Server) DecideCardApproval(c *gin.Context) {
	var body cardDecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	approval, err := s.onboardingSvc.DecideCardApproval(c.Request.Context(), domain.CardDecisionRequest{
		ID:      c.Param("id"),
		Approve: body.Approve,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, approval)
}

func (s *Server) ListCardApprovals(c *gin.Context) {
	approvals, err := s.onboardingSvc.ListCardApprovals(c.Request.Context(), domain.ListCardApprovalsRequest{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card_approvals": approvals})
}
