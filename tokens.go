package authkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when the issuer is constructed with a zero TTL.
// Deployments configure anything from 30 minutes to 24 hours.
const DefaultTokenTTL = 30 * time.Minute

// TokenIssuer issues and validates signed session tokens. Tokens are
// stateless: validity is determined purely by signature and expiry, there is
// no revocation list. A token compromised before expiry stays valid for its
// full TTL - that is an accepted property of this design.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is swappable for expiry tests
	now func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with the given secret.
// A zero ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a session token asserting the given account id
func (t *TokenIssuer) Issue(accountID string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": accountID,
		"iss": t.issuer,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the account id the
// token asserts. Bad signature, malformed structure and expiry all collapse
// to ErrInvalidToken; callers treat them identically.
func (t *TokenIssuer) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
