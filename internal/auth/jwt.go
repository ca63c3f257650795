package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleSeller   = "seller"
	RoleCustomer = "customer"
)

var errNoSubject = errors.New("jwt has no subject")

// Claims is what a caller's token says about them. The subject is the
// account id; for sellers it is also the seller id.
type Claims struct {
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the account id carried in the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// JWTManager validates HS256 tokens shared with the account service.
// It can also mint them, which tests and local tooling rely on.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(5*time.Second),
		),
	}
}

// GenerateAccessToken signs a token for the given account.
func (m *JWTManager) GenerateAccessToken(userID, role, phone string) (string, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:  role,
		Phone: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}
	return signed, nil
}

// ParseAndValidate checks signature, algorithm and expiry, and requires a subject.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	var claims Claims
	if _, err := m.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}
	if claims.Subject == "" {
		return nil, errNoSubject
	}
	return &claims, nil
}
