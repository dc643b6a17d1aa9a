// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fl1capital/liquidation-backend/internal/calculation"
	"github.com/fl1capital/liquidation-backend/internal/config"
	"github.com/fl1capital/liquidation-backend/internal/core"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrEmailDomain        = errors.New("email outside permitted domain")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service owns the Unregistered → PendingVerification → Verified transitions.
// Verified is terminal; Login is a query, not a transition.
type Service struct {
	repo         Repository
	emailPattern *regexp.Regexp
	codeLength   int
	codeTTL      time.Duration
	now          func() time.Time
}

func NewService(repo Repository, cfg config.AuthConfig) *Service {
	pattern := regexp.MustCompile(
		`^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(cfg.AllowedEmailDomain) + `$`,
	)

	return &Service{
		repo:         repo,
		emailPattern: pattern,
		codeLength:   cfg.CodeLength,
		codeTTL:      cfg.CodeTTL,
		now:          time.Now,
	}
}

// Register creates the user in PendingVerification and hands the freshly
// issued code back to the caller. Email uniqueness is enforced by the store's
// unique index, never by check-then-insert, so exactly one of two racing
// registrations wins and the other maps to ErrEmailExists.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !s.emailPattern.MatchString(email) {
		return nil, fmt.Errorf("register %q: %w", email, ErrEmailDomain)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := core.GenerateVerificationCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	expires := s.now().Add(s.codeTTL)

	user := &User{
		ID:                      uuid.New().String(),
		Email:                   email,
		PasswordHash:            passwordHash,
		FullName:                req.FullName,
		EmailVerified:           false,
		VerificationCode:        &code,
		VerificationCodeExpires: &expires,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &RegisterResponse{
		VerificationCode: code,
		UserID:           user.ID,
	}, nil
}

// ResendCode issues a fresh code unconditionally. Last write wins: whatever
// code was outstanding becomes invalid the instant the new one is stored.
func (s *Service) ResendCode(
	ctx context.Context,
	email string,
) (*ResendResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	code, err := core.GenerateVerificationCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	expires := s.now().Add(s.codeTTL)

	if err := s.repo.SetVerificationCode(ctx, user.ID, code, expires); err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	return &ResendResponse{VerificationCode: code}, nil
}

// VerifyCode succeeds exactly once per issued code. Success clears the stored
// code, so a repeat call finds nothing to match and fails with ErrInvalidCode
// instead of silently re-confirming.
func (s *Service) VerifyCode(ctx context.Context, email, code string) error {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	if user.VerificationCode == nil {
		return ErrInvalidCode
	}

	if !core.CompareVerificationCode(*user.VerificationCode, code) {
		return ErrInvalidCode
	}

	if user.CodeExpired(s.now()) {
		return ErrCodeExpired
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	return nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.EmailVerified {
		return nil, fmt.Errorf("login %s: %w", user.ID, ErrNotVerified)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.repo.UpdatePassword(ctx, user.ID, newHash)
	}

	return &LoginResponse{User: toPublicUser(user)}, nil
}

// GetByEmail resolves a user for callers that identify themselves by the
// X-User-Email fallback header on ledger reads.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) UserIDByEmail(
	ctx context.Context,
	email string,
) (string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ calculation.UserResolver = (*Service)(nil)
