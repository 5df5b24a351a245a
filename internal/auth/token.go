package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity attributes embedded in issued bearer tokens.
// The credential store treats the token as an opaque string; these claims
// exist for the platform API, which validates them on each request.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints HMAC-signed bearer tokens for authenticated operators.
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token for the account covering the given validity window.
func (t *TokenIssuer) Issue(account *Account, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
