package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewContextPopulatesFromGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/graphs/Root", nil)

	ctx := NewContext(c)

	assert.NotNil(t, ctx.GinContext)
	assert.NotNil(t, ctx.Request)
}

func TestOptionsShouldSkip(t *testing.T) {
	opts := Options{SkipPaths: []string{"/health"}}
	assert.True(t, opts.ShouldSkip("/health"))
	assert.False(t, opts.ShouldSkip("/graphs/Root"))
}

func TestJWTGuardIssuesAndValidatesToken(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Hour)

	token, err := g.GenerateToken("user1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := g.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user1", claims.Subject)
}

func TestJWTGuardCanActivateWithValidToken(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Hour)
	token, _ := g.GenerateToken("user1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/graphs/Root", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	ok, err := g.CanActivate(NewContext(c))
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestJWTGuardRejectsInvalidToken(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Hour)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/graphs/Root", nil)
	c.Request.Header.Set("Authorization", "Bearer invalid-token")

	ok, err := g.CanActivate(NewContext(c))
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestJWTGuardRejectsMissingToken(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Hour)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/graphs/Root", nil)

	ok, err := g.CanActivate(NewContext(c))
	assert.False(t, ok)
	assert.Equal(t, ErrMissingToken, err)
}

func TestJWTGuardExpiredToken(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Millisecond)
	token, err := g.GenerateToken("user1")
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := g.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTGuardSkipPaths(t *testing.T) {
	g := NewJWTGuard("test-secret", time.Hour)
	g.Options.SkipPaths = []string{"/health"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", nil)
	ok, err := g.CanActivate(NewContext(c))
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestMiddlewareAbortsWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := NewJWTGuard("test-secret", time.Hour)
	r := gin.New()
	r.Use(Middleware(g))
	r.GET("/graphs/:component", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/graphs/Root", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
