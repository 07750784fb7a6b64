package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	ErrInvalidPIN   = errors.New("invalid pin")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// SessionOwner is the subject of every session token.
const SessionOwner = "owner"

// SessionService unlocks the catalogue with a PIN and issues session tokens.
type SessionService struct {
	pinHash   []byte
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionService(pinHash, jwtSecret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		pinHash:   []byte(pinHash),
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// HashPIN returns the bcrypt hash stored in configuration.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", fmt.Errorf("%w: pin is empty", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// Unlock checks pin and returns a signed session token.
func (s *SessionService) Unlock(pin string) (string, error) {
	if len(s.pinHash) == 0 || bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) != nil {
		return "", ErrInvalidPIN
	}
	now := s.now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SessionOwner,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token.
func (s *SessionService) ValidateToken(tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject != SessionOwner {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
