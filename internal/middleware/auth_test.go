package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cause-connect/internal/models"
	"cause-connect/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupAuthRouter(t *testing.T, jwtManager *auth.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(jwtManager)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet("user_id").(primitive.ObjectID).Hex(),
			"role":    c.MustGet("role").(models.UserRole).String(),
		})
	})
	router.GET("/protected", chain...)
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthRouter(t, auth.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadHeaderFormat(t *testing.T) {
	router := setupAuthRouter(t, auth.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := setupAuthRouter(t, auth.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	router := setupAuthRouter(t, jwtManager)

	token, err := jwtManager.GenerateToken(primitive.NewObjectID(), "ada@example.com", "volunteer")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "volunteer")
}

func TestAuthMiddlewareUnknownRole(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	router := setupAuthRouter(t, jwtManager)

	token, err := jwtManager.GenerateToken(primitive.NewObjectID(), "ada@example.com", "superuser")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleAllowed(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	router := setupAuthRouter(t, jwtManager, RequireRole(models.RoleOrganization))

	token, err := jwtManager.GenerateToken(primitive.NewObjectID(), "org@example.com", "organization")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidden(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	router := setupAuthRouter(t, jwtManager, RequireRole(models.RoleOrganization))

	token, err := jwtManager.GenerateToken(primitive.NewObjectID(), "ada@example.com", "volunteer")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "volunteer")
}
