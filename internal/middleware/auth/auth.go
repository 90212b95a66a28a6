package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentsupply/shop/pkg/tokens"
)

// StaffRoles is the role set allowed through RequireStaff. Authorization is
// a predicate over the actor's role, evaluated here before any service code
// runs, never inside it.
var StaffRoles = map[string]bool{
	"admin":   true,
	"manager": true,
	"support": true,
}

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func (m *Middleware) claimsFromCookie(c echo.Context) (*tokens.AccessClaims, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret)
	if err != nil || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// OptionalAuth attaches identity when a valid token is present and lets the
// request through anonymously otherwise. Checkout and payment verification
// accept both authenticated and guest callers.
func (m *Middleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.claimsFromCookie(c); err == nil {
			setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *Middleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		if !StaffRoles[claims.Role] {
			return echo.NewHTTPError(http.StatusForbidden, "staff access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}
