package server

import (
	"net/http"
	"strconv"

	"github.com/cashtrail/console/internal/transaction/domain"
	"github.com/cashtrail/console/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createTransactionBody struct {
	DistributorID string          `json:"distributor_id"`
	RetailerID    string          `json:"retailer_id"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	CardBrand     string          `json:"card_brand"`
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var body createTransactionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txn, err := s.txnSvc.Create(c.Request.Context(), domain.CreateTransactionRequest{
		DistributorID: body.DistributorID,
		RetailerID:    body.RetailerID,
		CustomerID:    body.CustomerID,
		Amount:        body.Amount,
		CardBrand:     domain.CardBrand(body.CardBrand),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (s *Server) GetTransaction(c *gin.Context) {
	txn, err := s.txnSvc.Get(c.Request.Context(), domain.GetTransactionRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) ListTransactions(c *gin.Context) {
	from, to, err := parseRange(c.Query("created_from"), c.Query("created_to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	resp, err := s.txnSvc.List(c.Request.Context(), domain.ListTransactionsRequest{
		Pagination: pagination.Pagination{
			PageToken: c.Query("page_token"),
			PageSize:  pageSize,
		},
		Status:        c.Query("status"),
		DistributorID: c.Query("distributor_id"),
		RetailerID:    c.Query("retailer_id"),
		CreatedFrom:   from,
		CreatedTo:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type transitionBody struct {
	Status string `json:"status"`
}

func (s *Server) TransitionTransaction(c *gin.Context) {
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txn, err := s.txnSvc.Transition(c.Request.Context(), domain.TransitionRequest{
		ID:     c.Param("id"),
		Status: domain.Status(body.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
