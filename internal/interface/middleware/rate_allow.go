package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the general limiter for loopback and RFC 1918
// addresses so health probes and in-cluster calls never burn the budget.
// The login limiter must not use this: its budget is an anti-enumeration
// measure and applies to every caller.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
