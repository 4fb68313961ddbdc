package middleware

import (
	"net/http"
	"os"

	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// TokenHeader is the custom request header carrying the bearer token.
// The SPA sends the raw token here instead of an Authorization header.
const TokenHeader = "token"

const principalKey = "principal"

// Principal identifies the authenticated caller of a request
type Principal struct {
	UserID uint
	Role   string
}

// JWTSecret returns the signing secret for bearer tokens
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "supersecretjwtkey" // Must match the secret used for signing
	}
	return secret
}

// Authenticate resolves an optional principal from the token header. A
// missing header leaves the request anonymous instead of rejecting it;
// routes that need a role add RequireRoles on top.
func Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := c.Request().Header.Get(TokenHeader)
			if tokenString == "" {
				return next(c)
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(JWTSecret()), nil
			})
			if err != nil || !token.Valid {
				// A present but broken token is not anonymous traffic.
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role})
			return next(c)
		}
	}
}

// RequireRoles rejects requests whose principal is absent or holds none of
// the given roles.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := GetPrincipal(c)
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			for _, role := range roles {
				if p.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
		}
	}
}

// RequireAuth rejects anonymous requests regardless of role
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetPrincipal(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			return next(c)
		}
	}
}

// GetPrincipal returns the authenticated principal, or nil for anonymous
// requests.
func GetPrincipal(c echo.Context) *Principal {
	p, _ := c.Get(principalKey).(*Principal)
	return p
}

// SetPrincipal stores a principal on the context; used by tests to bypass
// token parsing.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalKey, p)
}
