// Package auth provides JWT issuing/verification, password hashing and the
// request identity context shared by the HTTP layer and the domains.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"modulith/pkg/domain"
	"modulith/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// Claims are the JWT claims issued by the TokenManager. The subject is the
// user ID; Type distinguishes access from refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	Type string `json:"typ"`
}

// TokenManagerOptions configure token issuing and verification.
type TokenManagerOptions struct {
	// Secret is the HS256 signing secret.
	Secret string
	// Issuer is set as the "iss" claim on issued tokens.
	Issuer string
	// AccessTTL is the lifetime of access tokens.
	AccessTTL time.Duration
	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration
}

// TokenManager issues and verifies HS256-signed JWTs.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a TokenManager. The secret must be non-empty.
func NewTokenManager(opts TokenManagerOptions) (*TokenManager, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return &TokenManager{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
	}, nil
}

// issue signs a token of the given type for the user with the given TTL.
func (m *TokenManager) issue(userID domain.UserID, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign JWT: %w", err)
	}

	return signed, nil
}

// IssueAccess signs a short-lived access token for the user.
func (m *TokenManager) IssueAccess(userID domain.UserID) (string, error) {
	return m.issue(userID, AccessToken, m.accessTTL)
}

// IssueRefresh signs a refresh token for the user.
func (m *TokenManager) IssueRefresh(userID domain.UserID) (string, error) {
	return m.issue(userID, RefreshToken, m.refreshTTL)
}

// Verify parses and validates a token string and checks its "typ" claim.
// Expired, malformed, wrongly-signed or wrongly-typed tokens return an
// unauthorized error.
func (m *TokenManager) Verify(token, typ string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return m.secret, nil
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	if claims.Type != typ {
		return nil, serrors.With(serrors.ErrUnauthorized, "unexpected token type %q", claims.Type)
	}

	return &claims, nil
}

// UserID extracts the subject user ID from verified claims.
func (c *Claims) UserID() (domain.UserID, error) {
	id, err := domain.ParseUserID(c.Subject)
	if err != nil {
		return domain.UserID{}, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return id, nil
}

// GenerateSecret returns a new random hex-encoded signing secret suitable for
// the JWT_SECRET_KEY setting.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
