package server

import (
	"net/http"
	"strconv"

	"github.com/cashtrail/console/internal/report"
	"github.com/gin-gonic/gin"
)

func (s *Server) DashboardKPIs(c *gin.Context) {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	kpis, err := s.reportSvc.KPIs(c.Request.Context(), report.RangeRequest{From: from, To: to})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}

func (s *Server) DashboardRollups(c *gin.Context) {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	topN, _ := strconv.Atoi(c.Query("top"))

	rollups, err := s.reportSvc.Rollups(c.Request.Context(), report.RollupRequest{
		RangeRequest: report.RangeRequest{From: from, To: to},
		TopN:         topN,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rollups": rollups})
}

func (s *Server) DashboardDailyGMV(c *gin.Context) {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	series, err := s.reportSvc.DailyGMV(c.Request.Context(), report.RangeRequest{From: from, To: to})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}
