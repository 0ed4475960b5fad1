package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key under which the JWT middleware stores the
// parsed token.
const ContextKey = "user"

// ErrNoIdentity is returned when the request context carries no verified token.
var ErrNoIdentity = errors.New("no authenticated user in context")

// UserID returns the authenticated user's id from the verified token attached
// to the request. This is the only owner identity the resource layer ever
// sees; ids supplied in request bodies or paths must not be trusted.
func UserID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == uuid.Nil {
		return uuid.Nil, ErrNoIdentity
	}
	return claims.UserID, nil
}
