package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth gates the admin API with a constant-time hashed comparison
// against the configured key. An empty configured key disables auth, which
// only makes sense in development.
func (s *Server) APIKeyAuth() gin.HandlerFunc {
	configured := sha256.Sum256([]byte(s.cfg.AdminAPIKey))
	enabled := strings.TrimSpace(s.cfg.AdminAPIKey) != ""

	if !enabled && !s.cfg.IsDevelopment() {
		s.log.Warn("admin api key not configured outside development")
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		presented := sha256.Sum256([]byte(c.GetHeader(apiKeyHeader)))
		if subtle.ConstantTimeCompare(configured[:], presented[:]) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
