package middleware

// identity.go holds the user-identity helper shared by the rate limiter
// and any other middleware that needs a per-user key.  It reads the
// "user_id" value stored by JWTAuth and falls back to "anon" for
// unauthenticated traffic so public routes still get a stable key.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's identifier as a string,
// or "anon" when the request carries no usable identity.  JWT numeric
// claims decode as float64, so that shape is handled alongside strings.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v > 0 {
			return strconv.FormatUint(uint64(v), 10)
		}
	case uint64:
		if v > 0 {
			return strconv.FormatUint(v, 10)
		}
	}
	return "anon"
}
