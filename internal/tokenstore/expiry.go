package tokenstore

import (
	"github.com/golang-jwt/jwt/v5"
)

// IsExpired decodes the token's exp claim and reports whether it falls inside
// the safety skew. Missing, malformed, and exp-less tokens count as expired —
// a token that cannot prove it is valid is not.
func (s *Store) IsExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(s.now().Add(s.skew))
}
