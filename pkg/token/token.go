package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// payload, or elapsed expiry. Callers treat them all as the same rejection.
var ErrInvalidToken = errors.New("invalid or expired token")

// Codec issues and verifies signed session tokens. Verification needs only
// the secret, never a database lookup.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL reports the session lifetime, which the cookie max-age mirrors.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// IssueSession produces an HS256 JWT with the user id as subject and an
// absolute expiry of the codec's TTL from now.
func (c *Codec) IssueSession(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// VerifySession returns the embedded user id, or ErrInvalidToken.
func (c *Codec) VerifySession(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// NewOneTimeCode returns 160 bits from crypto/rand, hex-encoded. Used for
// both verification and reset codes; uniqueness is probabilistic by entropy
// width, not checked against the store.
func NewOneTimeCode() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
