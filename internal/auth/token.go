package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 15 * time.Minute

// ErrMissingSecret is returned when an Issuer is constructed without a secret.
var ErrMissingSecret = errors.New("auth: signing secret is required")

// Claims is the identity payload embedded in issued tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// VerifyResult is the structured outcome of token verification. Exactly one
// of the three states holds: valid, expired (signature fine, window lapsed),
// or invalid (Err describes the failure).
type VerifyResult struct {
	Valid   bool
	Expired bool
	Claims  *Claims
	Err     error
}

// Issuer creates and verifies signed identity tokens using one fixed
// HMAC algorithm and a server-held secret.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewIssuer constructs an Issuer. The secret is mandatory; an empty one is a
// configuration fault surfaced at startup, not per request.
func NewIssuer(secret, algorithm string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// Issue signs a token for the given subject carrying email and role claims.
func (i *Issuer) Issue(subject int64, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", subject),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry. Only the configured algorithm is
// accepted, so tokens signed with anything else come back invalid.
func (i *Issuer) Verify(token string) VerifyResult {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return VerifyResult{Expired: true, Err: err}
		}
		return VerifyResult{Err: err}
	}
	if !parsed.Valid {
		return VerifyResult{Err: jwt.ErrTokenUnverifiable}
	}
	return VerifyResult{Valid: true, Claims: &claims}
}

// Decode extracts claims without verifying the signature. Never use the
// result for authorization decisions.
func (i *Issuer) Decode(token string) *Claims {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	return &claims
}

// TTL exposes the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
