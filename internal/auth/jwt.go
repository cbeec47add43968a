package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("token is not a JWT")

// Identity is what whoami can tell about a token without the signing key.
type Identity struct {
	Subject   string
	Issuer    string
	Audience  []string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	Claims    jwt.MapClaims
}

// Inspect decodes the claims of a JWT. The signature is not verified: the
// server does that, the client only reads what it was handed.
func Inspect(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(stripBearer(token), claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}
	id := &Identity{Claims: claims}
	id.Subject, _ = claims.GetSubject()
	id.Issuer, _ = claims.GetIssuer()
	if aud, err := claims.GetAudience(); err == nil {
		id.Audience = aud
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		id.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		id.ExpiresAt = &t
	}
	return id, nil
}

func expiryOf(token string) *time.Time {
	id, err := Inspect(token)
	if err != nil {
		return nil
	}
	return id.ExpiresAt
}
