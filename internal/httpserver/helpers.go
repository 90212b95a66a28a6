package httpserver

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errUnauthorized = errors.New("unauthorized")

// userID reads the authenticated user id set by the auth middleware.
func userID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, errUnauthorized
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errUnauthorized
	}
	return uint(id), nil
}

// optionalUserID returns nil for anonymous callers; checkout and payment
// endpoints serve guests too.
func optionalUserID(c echo.Context) *uint {
	id, err := userID(c)
	if err != nil {
		return nil
	}
	return &id
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
