package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const RealIPKey = "real_ip"

// forwardedHeaders are consulted in order when the service sits behind a proxy.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// RealIP stores the caller's address under RealIPKey. Forwarded headers are
// only honoured when trustProxy is set; otherwise the socket peer is used.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		if trustProxy {
			ip = forwardedIP(c.Request.Header.Get)
		}
		if ip == "" {
			ip = c.RemoteIP()
		}
		c.Set(RealIPKey, ip)
		c.Next()
	}
}

// forwardedIP returns the left-most parseable address of the first header
// that carries one.
func forwardedIP(get func(string) string) string {
	for _, h := range forwardedHeaders {
		v := get(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
