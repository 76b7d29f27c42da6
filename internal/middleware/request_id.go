package middleware

import (
	"strings"
	"unicode"

	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"

	// outbox_events.request_id is VARCHAR(64)
	maxRequestIDLen = 64
)

// RequestID propagates the caller's X-Request-ID, replacing it with a fresh uuid when it
// is missing, too long or carries non-printable characters.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := resolveRequestID(c)

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}

func resolveRequestID(c *gin.Context) string {
	if rid := contextutil.GetRequestID(c.Request.Context()); rid != "" {
		return rid
	}
	if rid, ok := sanitizeRequestID(c.GetHeader(HeaderRequestID)); ok {
		return rid
	}
	return uuid.NewString()
}

func sanitizeRequestID(raw string) (string, bool) {
	rid := strings.TrimSpace(raw)
	if rid == "" || len(rid) > maxRequestIDLen {
		return "", false
	}
	for _, r := range rid {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return "", false
		}
	}
	return rid, true
}
