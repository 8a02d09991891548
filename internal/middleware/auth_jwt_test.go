package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"shopapi/internal/config"
	"shopapi/internal/middleware"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{JWTSecret: testSecret}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return s
}

func validClaims(userID uuid.UUID, role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
}

// AuthJWTを通過したらuser_idとroleがcontextに入っている
func runAuthJWT(t *testing.T, authz string) (*httptest.ResponseRecorder, uuid.UUID, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uuid.UUID
	var gotRole string
	h := middleware.AuthJWT(testConfig())(func(c echo.Context) error {
		gotID, _ = c.Get(middleware.CtxUserIDKey).(uuid.UUID)
		gotRole, _ = c.Get(middleware.CtxUserRoleKey).(string)
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	assert.NoError(t, err)
	return rec, gotID, gotRole
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _, _ := runAuthJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, _, _ := runAuthJWT(t, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims(uuid.New(), "user"))
	rec, _, _ := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := validClaims(uuid.New(), "user")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)

	rec, _, _ := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_BadSubject(t *testing.T) {
	claims := validClaims(uuid.New(), "user")
	claims["sub"] = "not-a-uuid"
	token := signToken(t, testSecret, claims)

	rec, _, _ := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, validClaims(userID, "admin"))

	rec, gotID, gotRole := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "admin", gotRole)
}

// =====================
// AdminOnly
// =====================

func runAdminOnly(t *testing.T, role string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.CtxUserRoleKey, role)
	}

	h := middleware.AdminOnly()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	assert.NoError(t, err)
	return rec
}

func TestAdminOnly_UserRejected(t *testing.T) {
	rec := runAdminOnly(t, "user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly_NoRoleRejected(t *testing.T) {
	rec := runAdminOnly(t, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly_AdminAllowed(t *testing.T) {
	rec := runAdminOnly(t, "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
}
