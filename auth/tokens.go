// Package auth issues and validates the signed credentials that bind
// requests to a project or admin identity, and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const roleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid or expired token")

// Tokens issues and parses HS256-signed, time-limited access tokens.
// Construct it from configuration; there is no package-level default.
type Tokens struct {
	Secret []byte
	Expiry time.Duration
}

func NewTokens(secret string, expiry time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), Expiry: expiry}
}

type sessionClaims struct {
	ProjectID string `json:"project_id,omitempty"`
	AdminID   string `json:"admin_id,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueProjectToken creates a dashboard session token for a project.
func (t *Tokens) IssueProjectToken(projectID uuid.UUID) (string, error) {
	return t.sign(sessionClaims{
		ProjectID:        projectID.String(),
		RegisteredClaims: t.registered(),
	})
}

// IssueAdminToken creates a session token carrying the admin role.
func (t *Tokens) IssueAdminToken(adminID uuid.UUID) (string, error) {
	return t.sign(sessionClaims{
		AdminID:          adminID.String(),
		Role:             roleAdmin,
		RegisteredClaims: t.registered(),
	})
}

// ParseProjectToken validates a dashboard token and returns the bound
// project id.
func (t *Tokens) ParseProjectToken(token string) (uuid.UUID, error) {
	claims, err := t.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.ProjectID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// ParseAdminToken validates an admin token, including the role claim,
// and returns the bound admin id.
func (t *Tokens) ParseAdminToken(token string) (uuid.UUID, error) {
	claims, err := t.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Role != roleAdmin {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.AdminID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (t *Tokens) registered() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.Expiry)),
	}
}

func (t *Tokens) sign(claims sessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
