package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWTAuth(testSecret)(next)(c)
	require.NoError(t, err)
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "42", "role": "CUSTOMER"})
	rec, c := runJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", c.Get("user_id"))
	assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runJWT(t, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrong := signToken(t, "other-secret", jwt.MapClaims{"sub": "42", "role": "CUSTOMER"})
	rec, _ = runJWT(t, "Bearer "+wrong)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("CUSTOMER", "ADMIN")(next)

	check := func(role interface{}) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		require.NoError(t, mw(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, check("CUSTOMER"))
	assert.Equal(t, http.StatusOK, check("ADMIN"))
	assert.Equal(t, http.StatusForbidden, check("OWNER"))
	assert.Equal(t, http.StatusForbidden, check(nil))
	assert.Equal(t, http.StatusForbidden, check(123)) // non-string claim
}
