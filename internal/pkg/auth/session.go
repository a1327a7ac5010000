package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// SessionConfig defines session token settings
type SessionConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// SessionService issues and verifies signed lecturer session tokens
type SessionService struct {
	config SessionConfig
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(config SessionConfig) *SessionService {
	return &SessionService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines session token content
type Claims struct {
	LecturerID int64  `json:"lecturerId"`
	PFNumber   string `json:"pfNumber"`
	jwt.RegisteredClaims
}

// Identity is the verified caller of a request
type Identity struct {
	LecturerID int64
	PFNumber   string
}

// TTL returns how long issued tokens stay valid
func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

// Issue signs a token for the given lecturer and returns it with its expiry
func (s *SessionService) Issue(lecturerID int64, pfNumber string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TTL)

	claims := &Claims{
		LecturerID: lecturerID,
		PFNumber:   pfNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(lecturerID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify validates signature and expiry of a session token
func (s *SessionService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.LecturerID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Identify verifies a token and reports the caller, if any.
// Every failure is the ordinary "not logged in" answer.
func (s *SessionService) Identify(tokenString string) (*Identity, bool) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, false
	}
	return &Identity{LecturerID: claims.LecturerID, PFNumber: claims.PFNumber}, true
}
