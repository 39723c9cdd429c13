package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/cashtrail/console/internal/export"
	"github.com/gin-gonic/gin"
)

func (s *Server) ExportTransactionsCSV(c *gin.Context) {
	from, to, err := parseRange(c.Query("created_from"), c.Query("created_to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out, err := s.exportSvc.TransactionsCSV(c.Request.Context(), export.TransactionsRequest{
		Status:        c.Query("status"),
		DistributorID: c.Query("distributor_id"),
		CreatedFrom:   from,
		CreatedTo:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.serveExport(c, "transactions_csv", out)
}

func (s *Server) ExportDisputesCSV(c *gin.Context) {
	from, to, err := parseRange(c.Query("created_from"), c.Query("created_to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out, err := s.exportSvc.DisputesCSV(c.Request.Context(), export.DisputesRequest{
		Status:      c.Query("status"),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.serveExport(c, "disputes_csv", out)
}

func (s *Server) ExportStatementPDF(c *gin.Context) {
	distributorID := strings.TrimSuffix(c.Param("file"), ".pdf")

	month := s.clock.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		month = parsed
	}

	out, err := s.exportSvc.Statement(c.Request.Context(), export.StatementRequest{
		DistributorID: distributorID,
		Month:         month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.serveExport(c, "statement_pdf", out)
}

func (s *Server) serveExport(c *gin.Context, kind string, out export.Export) {
	s.metrics.ExportsGenerated.WithLabelValues(kind).Inc()
	c.Header("X-Export-Ref", out.Ref)
	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
