package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderSessionID     = "X-Session-ID"
	HeaderExtractionKey = "X-Extraction-Key"
	ContextKeySessionID = "session_id"
)

// Session echoes the client's X-Session-ID, or issues a new one when the
// header is missing or not a UUID.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(HeaderSessionID)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
		}
		c.Set(ContextKeySessionID, sessionID)
		c.Header(HeaderSessionID, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID set by Session, or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
