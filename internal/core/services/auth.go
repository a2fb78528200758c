// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// Claims is the JWT payload issued on login
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthService handles staff authentication and session tokens
type AuthService struct {
	staff      ports.StaffRepository
	secret     []byte
	expiry     time.Duration
	bcryptCost int
	logger     *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(staff ports.StaffRepository, secret string, expiry time.Duration, bcryptCost int, logger *slog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		staff:      staff,
		secret:     []byte(secret),
		expiry:     expiry,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("service", "auth")),
	}
}

// Login verifies credentials and issues a signed session token.
// A missing account and a wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Staff, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrInvalidRequest)
	}

	staff, err := s.staff.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.WarnContext(ctx, "login for unknown username")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !staff.Active {
		s.logger.WarnContext(ctx, "login for disabled account",
			slog.Int64("employee_id", staff.ID))
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "login with wrong password",
			slog.Int64("employee_id", staff.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(staff)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.Int64("employee_id", staff.ID),
		slog.String("role", string(staff.Role)))

	return token, staff, nil
}

// Register creates a staff account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, staff *domain.Staff, password string) error {
	if err := staff.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	staff.PasswordHash = string(hash)
	staff.Active = true

	if err := s.staff.Save(ctx, staff); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// VerifyToken parses and validates a session token
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}

	return claims, nil
}

func (s *AuthService) issueToken(staff *domain.Staff) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(staff.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Issuer:    "pharmadesk",
		},
		Username: staff.Username,
		Role:     string(staff.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
