package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth-backend/internal/data/entity"
	"auth-backend/internal/data/repository"
	"auth-backend/internal/dto/request"
	"auth-backend/internal/dto/response"
	"auth-backend/pkg/mailer"
	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = 1 * time.Hour
)

type AuthService interface {
	Register(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, string, error)
	VerifyEmail(ctx context.Context, code string) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, code, newPassword string) error
}

type authService struct {
	repo   *repository.Repository
	codec  *token.Codec
	mail   mailer.Sender
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	codec *token.Codec,
	mail mailer.Sender,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		codec:  codec,
		mail:   mail,
		config: config,
		log:    log,
	}
}

// Register creates an unverified account with a fresh 24h verification code,
// issues a session immediately (pre-verification sessions are permitted) and
// emails the code. The unique email constraint is the real duplicate guard;
// the lookup just gives a friendlier fast path.
func (s *authService) Register(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, string, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	code, err := token.NewOneTimeCode()
	if err != nil {
		return nil, "", fmt.Errorf("generate verification code: %w", err)
	}

	now := time.Now()
	verifyExpiry := now.Add(verificationTTL)
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:                 email,
		FullName:              strings.TrimSpace(req.FullName),
		PasswordHash:          &hash,
		Phone:                 req.Phone,
		IsVerified:            false,
		VerificationToken:     &code,
		VerificationExpiresAt: &verifyExpiry,
		Provider:              entity.ProviderLocal,
		LastLogin:             now,
		Role:                  entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	session, err := s.codec.IssueSession(user.ID.String())
	if err != nil {
		s.log.Error("Failed to issue session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	// The record is committed at this point. A failed send surfaces as an
	// internal error without rolling the signup back; the user can request
	// a fresh code later.
	if err := s.mail.SendVerification(user.Email, code); err != nil {
		return nil, "", fmt.Errorf("send verification email: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.UserToResponse(user), session, nil
}

// VerifyEmail redeems a verification code. The repository consumes the code
// and flips is_verified in a single statement, so an expired or already-used
// code never mutates anything.
func (s *authService) VerifyEmail(ctx context.Context, code string) (*response.UserResponse, error) {
	user, err := s.repo.User.ConsumeVerificationToken(ctx, code)
	if err != nil {
		s.log.Error("Failed to consume verification code", zap.Error(err))
		return nil, fmt.Errorf("verify email: %w", err)
	}
	if user == nil {
		return nil, ErrCodeInvalidOrExpired
	}

	if err := s.mail.SendWelcome(user.Email, user.FullName); err != nil {
		return nil, fmt.Errorf("send welcome email: %w", err)
	}

	s.log.Info("Email verified",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.UserToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, string, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	// Federated accounts carry no password hash and cannot log in locally.
	if user.PasswordHash == nil || !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsVerified {
		s.log.Warn("Unverified user tried to login", zap.String("user_id", user.ID.String()))
		return nil, "", ErrNotVerified
	}

	if err := s.repo.User.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is advisory.
		s.log.Warn("Failed to update last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	session, err := s.codec.IssueSession(user.ID.String())
	if err != nil {
		s.log.Error("Failed to issue session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.UserToResponse(user), session, nil
}

// RequestPasswordReset stores a fresh one-time code with a 1h expiry on the
// record and emails a reset link. Any previous pending code is overwritten.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for reset", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := token.NewOneTimeCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	if err := s.repo.User.SetResetToken(ctx, user.ID, code, time.Now().Add(resetTTL)); err != nil {
		s.log.Error("Failed to store reset token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := strings.TrimRight(s.config.Reset.URLBase, "/") + "/" + code
	if err := s.mail.SendPasswordReset(user.Email, resetURL); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	s.log.Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// CompletePasswordReset redeems a reset code and stores the new password
// hash. The repository clears the code in the same statement, so a second
// redemption of the same code fails.
func (s *authService) CompletePasswordReset(ctx context.Context, code, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.User.ConsumeResetToken(ctx, code, hash)
	if err != nil {
		s.log.Error("Failed to consume reset code", zap.Error(err))
		return fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		return ErrCodeInvalidOrExpired
	}

	if err := s.mail.SendResetSuccess(user.Email); err != nil {
		return fmt.Errorf("send reset confirmation: %w", err)
	}

	s.log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
