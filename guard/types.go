// Package guard protects the httpserver inspection endpoints
// (GET /graphs/:component, GET /runs) behind a JWT bearer token. One
// GraphGuard covers the whole server: httpserver has exactly two
// routes and no per-route policy variation, so there is no per-route
// guard registry.
package guard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrMissingToken = errors.New("missing authentication token")
)

// Context carries the request state a GraphGuard inspects.
type Context struct {
	GinContext *gin.Context
	Path       string
	Request    *http.Request
	// User is populated with the validated claims on success.
	User interface{}
}

// NewContext builds a Context from a gin request. Path is the matched
// route pattern, or the request's URL path when no route matched.
func NewContext(c *gin.Context) *Context {
	path := c.FullPath()
	if path == "" && c.Request != nil {
		path = c.Request.URL.Path
	}
	return &Context{
		GinContext: c,
		Path:       path,
		Request:    c.Request,
	}
}

// GraphGuard decides whether a request to an httpserver inspection
// endpoint may proceed.
type GraphGuard interface {
	CanActivate(ctx *Context) (bool, error)
}

// Options configures which paths a GraphGuard skips entirely.
type Options struct {
	SkipPaths []string
}

// ShouldSkip reports whether path is exempt from the guard.
func (o Options) ShouldSkip(path string) bool {
	for _, p := range o.SkipPaths {
		if p == path {
			return true
		}
	}
	return false
}

// Middleware turns a GraphGuard into gin middleware: requests that
// fail CanActivate are aborted with 401/403 and never reach the route
// handler.
func Middleware(g GraphGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := NewContext(c)

		ok, err := g.CanActivate(ctx)
		if !ok {
			status := http.StatusForbidden
			if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired) {
				status = http.StatusUnauthorized
			}
			if err != nil {
				c.AbortWithError(status, err)
			} else {
				c.AbortWithStatus(status)
			}
			return
		}

		if ctx.User != nil {
			c.Set("user", ctx.User)
		}
		c.Next()
	}
}

// IsAuthenticated reports whether the request context carries a
// validated user, set by Middleware on success.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user")
	return exists
}
