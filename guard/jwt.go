package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTGuard is the GraphGuard implementation httpserver wires by
// default: a bearer token signed with a shared secret, carrying the
// caller's identity and nothing else; there is no per-component
// authorization model, anyone holding a valid token may inspect any
// resolved graph.
type JWTGuard struct {
	Options   Options
	secretKey []byte
	tokenTTL  time.Duration
}

// Claims is the JWT payload a JWTGuard issues and validates.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// NewJWTGuard creates a JWTGuard signing/validating with secretKey,
// issuing tokens valid for tokenTTL.
func NewJWTGuard(secretKey string, tokenTTL time.Duration) *JWTGuard {
	return &JWTGuard{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// CanActivate implements GraphGuard: it requires a valid
// "Authorization: Bearer <token>" header, unless the request path is
// in g.Options.SkipPaths.
func (g *JWTGuard) CanActivate(ctx *Context) (bool, error) {
	if g.Options.ShouldSkip(ctx.Path) {
		return true, nil
	}

	authHeader := ctx.Request.Header.Get("Authorization")
	if authHeader == "" {
		return false, ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false, ErrInvalidToken
	}

	claims, err := g.ValidateToken(parts[1])
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return false, ErrTokenExpired
		}
		return false, ErrInvalidToken
	}

	ctx.User = claims
	return true, nil
}

// GenerateToken issues a signed token for subject.
func (g *JWTGuard) GenerateToken(subject string) (string, error) {
	claims := &Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secretKey)
}

// ValidateToken parses and validates tokenString, returning its Claims.
func (g *JWTGuard) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
