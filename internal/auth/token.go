package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/docquery-auth/internal/domain"
)

// TokenTTL is the lifetime of every issued token.
const TokenTTL = 24 * time.Hour

var (
	// ErrEmptySecret is returned when the signing secret is blank.
	ErrEmptySecret = errors.New("token signing secret is empty")
	// ErrInvalidToken covers any token that fails signature, expiry or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. It refuses an empty secret so a
// misconfigured process fails at startup rather than on first sign-in.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenManager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// Claims describes JWT payload.
type Claims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject.
func (tm *TokenManager) Issue(subjectID string, role domain.Role) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID: subjectID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Parse validates a token and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

// Principal converts claims into the caller identity.
func (c *Claims) Principal() *domain.Principal {
	p := &domain.Principal{UserID: c.UserID, Role: c.Role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}
