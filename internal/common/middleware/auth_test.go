package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(jwtManager *auth.JWTManager, roles ...staff.Role) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	handlers := []gin.HandlerFunc{AuthMiddleware(jwtManager)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := GetUserRole(c)
		c.String(http.StatusOK, string(role))
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, time.Hour)
	token, err := jwtManager.GenerateAccessToken(uuid.New(), "a@hotel.test", "manager")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newProtectedRouter(jwtManager).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manager", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_UnknownRoleFallsBackToStaff(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, time.Hour)
	token, err := jwtManager.GenerateAccessToken(uuid.New(), "a@hotel.test", "owner")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newProtectedRouter(jwtManager).ServeHTTP(w, req)

	assert.Equal(t, "staff", w.Body.String())
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	newProtectedRouter(jwtManager).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRole_Forbidden(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, time.Hour)
	token, err := jwtManager.GenerateAccessToken(uuid.New(), "a@hotel.test", "receptionist")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newProtectedRouter(jwtManager, staff.RoleAdmin, staff.RoleManager).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
