package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// paystackOrigins are loaded by the inline checkout popup
const paystackOrigins = "https://js.paystack.co https://checkout.paystack.com"

// SecurityConfig holds the security header settings
type SecurityConfig struct {
	HSTS        bool
	HSTSMaxAge  int // seconds
	CSP         string
	Permissions string
}

// StorefrontSecurity returns headers that let the storefront embed the
// Paystack checkout. HSTS is only sent in production, where TLS terminates
// in front of the server.
func StorefrontSecurity(production bool) SecurityConfig {
	return SecurityConfig{
		HSTS:       production,
		HSTSMaxAge: 31536000,
		CSP: "default-src 'self'; " +
			"script-src 'self' " + paystackOrigins + "; " +
			"frame-src " + paystackOrigins + "; " +
			"connect-src 'self' https://api.paystack.co; " +
			"img-src 'self' data: https:; style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'; base-uri 'self'",
		Permissions: "camera=(), geolocation=(), microphone=(), payment=(self)",
	}
}

// SecureWithConfig sets the security headers on every response
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	static := [][2]string{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}
	if cfg.CSP != "" {
		static = append(static, [2]string{"Content-Security-Policy", cfg.CSP})
	}
	if cfg.Permissions != "" {
		static = append(static, [2]string{"Permissions-Policy", cfg.Permissions})
	}
	if cfg.HSTS {
		static = append(static, [2]string{"Strict-Transport-Security",
			fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge)})
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range static {
			h.Set(kv[0], kv[1])
		}
		c.Next()
	}
}
