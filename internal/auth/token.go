package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/flixhub/apiserver/types"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed session payload carried by a bearer token.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the account's role at issue time.
	Role types.Role `json:"role"`
}

// TokenCodec issues and verifies stateless HS256-signed session tokens.
// Verification is a pure function of the token, the secret, and the clock;
// it never touches storage.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec constructs a codec with the server signing secret and the
// default token validity window.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the default validity window for issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given account, valid from now for the codec's
// TTL.
func (c *TokenCodec) Issue(accountID int, role types.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(accountID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify validates the signature and expiry and returns the caller identity.
// Failures map to ErrTokenMalformed, ErrTokenInvalidSignature, or
// ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalidSignature
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Identity{}, ErrTokenMalformed
		default:
			return Identity{}, ErrTokenInvalidSignature
		}
	}
	if !token.Valid {
		return Identity{}, ErrTokenInvalidSignature
	}

	subject, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || subject < 1 {
		return Identity{}, ErrTokenMalformed
	}
	role, ok := types.ParseRole(string(claims.Role))
	if !ok {
		return Identity{}, ErrTokenMalformed
	}

	return Identity{Subject: subject, Role: role}, nil
}
