package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KISORE-A/akshuutransports/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, mw gin.HandlerFunc, authHeader string, final gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	if final == nil {
		final = func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	}
	r := gin.New()
	r.GET("/protected", mw, final)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	tokenStr, err := GenerateToken(42, models.RoleDriver)
	require.NoError(t, err)

	token, err := ValidateToken(tokenStr)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "driver", claims["role"])
}

func TestRequireAuthMissingHeader(t *testing.T) {
	w := performRequest(t, RequireAuth(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthGarbageToken(t *testing.T) {
	w := performRequest(t, RequireAuth(), "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"role":    "student",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	w := performRequest(t, RequireAuth(), "Bearer "+tokenStr, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthWrongSigningKey(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"role":    "student",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someotherkey"))
	require.NoError(t, err)

	w := performRequest(t, RequireAuth(), "Bearer "+tokenStr, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExposesVerifiedClaims(t *testing.T) {
	tokenStr, err := GenerateToken(7, models.RoleTeacher)
	require.NoError(t, err)

	w := performRequest(t, RequireAuth(), "Bearer "+tokenStr, func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		require.True(t, ok)
		role, ok2 := CurrentRole(c)
		require.True(t, ok2)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"teacher"`)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	tokenStr, err := GenerateToken(1, models.RoleAdmin)
	require.NoError(t, err)

	w := performRequest(t, RequireRoles(models.RoleTeacher, models.RoleAdmin), "Bearer "+tokenStr, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	tokenStr, err := GenerateToken(1, models.RoleStudent)
	require.NoError(t, err)

	// Wrong role is 403, not 401: the token itself is fine.
	w := performRequest(t, RequireRoles(models.RoleTeacher, models.RoleAdmin), "Bearer "+tokenStr, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesNormalizesClaimCasing(t *testing.T) {
	// A token minted elsewhere with "Admin" must still match admin.
	claims := jwt.MapClaims{
		"user_id": 1,
		"role":    "Admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	w := performRequest(t, RequireRoles(models.RoleAdmin), "Bearer "+tokenStr, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
