// Package auth provides the credential service (password hashing, JWT
// issuance and verification) and the request middleware that derives an
// authentication verdict for each request.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/blogql-go/config"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 12

// Claims is the JWT payload: the user's id and email plus the registered
// claims carrying expiry.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and verifies credentials. Tokens are stateless; nothing is
// persisted.
type Service struct {
	cfg config.AuthConfig
}

// NewService creates a credential service from the auth configuration.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{cfg: cfg}
}

// HashPassword hashes a plaintext password with bcrypt. The hash is one-way
// and embeds its own salt and cost.
func (s *Service) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func (s *Service) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken signs a time-limited token carrying the user's id and email.
func (s *Service) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token string. On any failure (bad
// signature, expiry, malformed input) it returns the unauthenticated
// verdict; verification failures never surface as errors to callers.
func (s *Service) VerifyToken(tokenString string) Verdict {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return Verdict{}
	}

	return Verdict{IsAuth: true, UserID: claims.UserID, Email: claims.Email}
}
