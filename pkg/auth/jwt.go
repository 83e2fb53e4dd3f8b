package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

type Config struct {
	Secret             string
	RefreshSecret      string
	ExpiryHours        int
	RefreshExpiryHours int
}

// TokenService issues and validates JWTs for clinic accounts.
type TokenService struct {
	cfg Config
}

func NewTokenService(cfg Config) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) GenerateAccessToken(accountID uuid.UUID, email, role string) (string, error) {
	return s.generate(accountID, email, role, s.cfg.Secret, time.Duration(s.cfg.ExpiryHours)*time.Hour)
}

func (s *TokenService) GenerateRefreshToken(accountID uuid.UUID, email, role string) (string, error) {
	return s.generate(accountID, email, role, s.cfg.RefreshSecret, time.Duration(s.cfg.RefreshExpiryHours)*time.Hour)
}

func (s *TokenService) generate(accountID uuid.UUID, email, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Email:     email,
		Role:      role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.cfg.Secret)
}

func (s *TokenService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.cfg.RefreshSecret)
}

func (s *TokenService) validate(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
