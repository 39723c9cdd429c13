package server

import (
	"errors"
	"net/http"

	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate_limited")
	ErrInvalidRequest = errors.New("invalid_request")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware renders the last gin error as a JSON payload once
// the handler chain finishes without writing a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

var notFoundErrors = []error{
	commissiondomain.ErrRuleNotFound,
	txndomain.ErrNotFound,
	disputedomain.ErrNotFound,
	onboardingdomain.ErrNotFound,
	txndomain.ErrDistributorUnknown,
	txndomain.ErrRetailerUnknown,
	txndomain.ErrCustomerUnknown,
	disputedomain.ErrTransactionUnknown,
	onboardingdomain.ErrDistributorUnknown,
	onboardingdomain.ErrRetailerUnknown,
	onboardingdomain.ErrCustomerUnknown,
}

var conflictErrors = []error{
	txndomain.ErrInvalidTransition,
	disputedomain.ErrInvalidTransition,
	onboardingdomain.ErrKYCDecided,
	onboardingdomain.ErrApprovalDecided,
	onboardingdomain.ErrNotSubmitted,
}

var badRequestErrors = []error{
	ErrInvalidRequest,
	commissiondomain.ErrInvalidID,
	commissiondomain.ErrInvalidName,
	commissiondomain.ErrInvalidScope,
	commissiondomain.ErrInvalidDistributor,
	commissiondomain.ErrInvalidRate,
	commissiondomain.ErrInvalidTier,
	commissiondomain.ErrInvalidVolume,
	commissiondomain.ErrInvalidAmount,
	txndomain.ErrInvalidID,
	txndomain.ErrInvalidAmount,
	txndomain.ErrInvalidCardBrand,
	txndomain.ErrInvalidStatus,
	disputedomain.ErrInvalidID,
	disputedomain.ErrInvalidReason,
	disputedomain.ErrInvalidStatus,
	disputedomain.ErrInvalidNote,
	onboardingdomain.ErrInvalidID,
	onboardingdomain.ErrInvalidLimit,
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "missing or invalid api key"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many requests"}
	case errors.Is(err, txndomain.ErrNoCommissionRate):
		return http.StatusUnprocessableEntity, errorPayload{Type: "no_commission_rate", Message: err.Error()}
	case matchesAny(err, notFoundErrors):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	case matchesAny(err, conflictErrors):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
	case matchesAny(err, badRequestErrors):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
