package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIP is the gin context key holding the resolved client address.
const CtxRealIP = "real_ip"

// proxyHeaders are consulted in order when proxy headers are trusted.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP resolves the client address once per request. With trustProxy the
// Cloudflare, X-Real-IP and left-most X-Forwarded-For headers win over the
// socket address; otherwise only c.ClientIP() is used.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		if trustProxy {
			ip = fromHeaders(c)
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(CtxRealIP, ip)
		c.Next()
	}
}

func fromHeaders(c *gin.Context) string {
	for _, h := range proxyHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For is a chain; the client is left-most
		if first, _, ok := strings.Cut(v, ","); ok {
			v = first
		}
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
