package webserver

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// TokenClaims is the JWT payload. The token ID doubles as the primary key
// of the revocable auth_tokens row.
type TokenClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
	Role string `json:"role"`
}

// ClaimsFrom extracts the verified claims set by the jwt middleware.
func ClaimsFrom(c echo.Context) (*TokenClaims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("no token in context")
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}

// IssueToken signs a bearer token for the given actor. The caller persists
// the matching auth_tokens row under tokenID.
func IssueToken(secret, tokenID, kind, role string, actorID int64, ttl time.Duration) (string, time.Time, error) {
	now := timeNow()
	expires := now.Add(ttl)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatInt(actorID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Kind: kind,
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, errors.WithStack(err)
	}
	return signed, expires, nil
}
