package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "product-catalog"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("empty jwt secret")
)

// TokenMaker signs and verifies HS256 service tokens for catalog writes.
type TokenMaker struct {
	secret []byte
}

func NewTokenMaker(secret string) (*TokenMaker, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenMaker{secret: []byte(secret)}, nil
}

type Claims struct {
	jwt.RegisteredClaims
}

func (t *TokenMaker) New(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Source returns a func that mints a fresh token per call, for clients
// that attach one to every write.
func (t *TokenMaker) Source(subject string, ttl time.Duration) func() (string, error) {
	return func() (string, error) { return t.New(subject, ttl) }
}

func (t *TokenMaker) Parse(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return c, nil
}
