package server

import (
	"net/http"

	"github.com/cashtrail/console/internal/dispute/domain"
	"github.com/gin-gonic/gin"
)

type openDisputeBody struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	Note          string `json:"note"`
}

func (s *Server) OpenDispute(c *gin.Context) {
	var body openDisputeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	dispute, err := s.disputeSvc.Open(c.Request.Context(), domain.OpenDisputeRequest{
		TransactionID: body.TransactionID,
		Reason:        domain.Reason(body.Reason),
		Note:          body.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dispute)
}

func (s *Server) GetDispute(c *gin.Context) {
	dispute, err := s.disputeSvc.Get(c.Request.Context(), domain.GetDisputeRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dispute)
}

func (s *Server) ListDisputes(c *gin.Context) {
	from, to, err := parseRange(c.Query("created_from"), c.Query("created_to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.disputeSvc.List(c.Request.Context(), domain.ListDisputesRequest{
		Status:      c.Query("status"),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type disputeTransitionBody struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (s *Server) TransitionDispute(c *gin.Context) {
	var body disputeTransitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	dispute, err := s.disputeSvc.Transition(c.Request.Context(), domain.TransitionRequest{
		ID:     c.Param("id"),
		Status: domain.Status(body.Status),
		Note:   body.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dispute)
}

type noteBody struct {
	Body string `json:"body"`
}

func (s *Server) AppendDisputeNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	dispute, err := s.disputeSvc.AppendNote(c.Request.Context(), domain.AppendNoteRequest{
		ID:   c.Param("id"),
		Body: body.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dispute)
}
