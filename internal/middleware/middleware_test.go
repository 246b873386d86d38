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

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthServiceForTest() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "dorm-api-test",
	})
}

func issueToken(t *testing.T, user *models.User) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func protectedRouter(svc *service.AuthService, roles ...models.UserRole) *gin.Engine {
	router := gin.New()
	group := router.Group("/", JWT(svc))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return router
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	router := protectedRouter(newAuthServiceForTest())

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer not-a-token").Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	svc := newAuthServiceForTest()
	token := issueToken(t, &models.User{ID: "u1", Role: models.RoleStudent})

	rec := get(protectedRouter(svc), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
}

func TestRequireRolesForbidsMismatchedRole(t *testing.T) {
	svc := newAuthServiceForTest()
	studentToken := issueToken(t, &models.User{ID: "u1", Role: models.RoleStudent})
	adminToken := issueToken(t, &models.User{ID: "u2", Role: models.RoleAdmin})

	router := protectedRouter(svc, models.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, get(router, "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusOK, get(router, "Bearer "+adminToken).Code)
}
