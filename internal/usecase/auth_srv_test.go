package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"auth-backend/internal/data/entity"
	"auth-backend/internal/data/repository"
	"auth-backend/internal/dto/request"
	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserRepo is an in-memory UserRepository with the same consumption
// semantics as the SQL implementation: one-time codes are redeemed and
// cleared atomically, and expired codes never match.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ConsumeVerificationToken(_ context.Context, tok string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.VerificationToken != nil && *u.VerificationToken == tok &&
			u.VerificationExpiresAt != nil && u.VerificationExpiresAt.After(time.Now()) {
			u.IsVerified = true
			u.VerificationToken = nil
			u.VerificationExpiresAt = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, tok string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.ResetPasswordToken = &tok
	u.ResetPasswordExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(_ context.Context, tok, passwordHash string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tok &&
			u.ResetPasswordExpiresAt != nil && u.ResetPasswordExpiresAt.After(time.Now()) {
			u.PasswordHash = &passwordHash
			u.ResetPasswordToken = nil
			u.ResetPasswordExpiresAt = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LastLogin = time.Now()
	}
	return nil
}

// get returns the stored record directly, for assertions on internal state.
func (f *fakeUserRepo) get(email string) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

type fakeMailer struct {
	failSend      bool
	verifications map[string]string // email -> code
	welcomes      []string
	resetURLs     map[string]string // email -> url
	resetDone     []string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		verifications: make(map[string]string),
		resetURLs:     make(map[string]string),
	}
}

func (m *fakeMailer) SendVerification(to, code string) error {
	if m.failSend {
		return errors.New("smtp unavailable")
	}
	m.verifications[to] = code
	return nil
}

func (m *fakeMailer) SendWelcome(to, _ string) error {
	if m.failSend {
		return errors.New("smtp unavailable")
	}
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, resetURL string) error {
	if m.failSend {
		return errors.New("smtp unavailable")
	}
	m.resetURLs[to] = resetURL
	return nil
}

func (m *fakeMailer) SendResetSuccess(to string) error {
	if m.failSend {
		return errors.New("smtp unavailable")
	}
	m.resetDone = append(m.resetDone, to)
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeMailer, *token.Codec) {
	t.Helper()
	repo := newFakeUserRepo()
	mail := newFakeMailer()
	codec := token.NewCodec("test-secret", 24*time.Hour)
	config := &utils.Config{}
	config.Reset.URLBase = "http://localhost:3000/reset-password"

	svc := NewAuthService(
		&repository.Repository{User: repo},
		codec, mail, config, zap.NewNop(),
	)
	return svc, repo, mail, codec
}

func signupRequest() *request.SignupRequest {
	return &request.SignupRequest{
		Email:    "alice@example.com",
		FullName: "Alice Doe",
		Password: "correct-horse",
	}
}

func TestRegister(t *testing.T) {
	svc, repo, mail, codec := newTestAuthService(t)

	user, session, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsVerified)

	// The session is usable immediately, before verification.
	subject, err := codec.VerifySession(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	stored := repo.get("alice@example.com")
	require.NotNil(t, stored)
	require.NotNil(t, stored.VerificationToken)
	require.NotNil(t, stored.VerificationExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.VerificationExpiresAt, time.Minute)
	assert.Equal(t, entity.ProviderLocal, stored.Provider)
	assert.Equal(t, entity.RoleUser, stored.Role)

	// Password is stored hashed, never verbatim.
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "correct-horse", *stored.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("correct-horse", *stored.PasswordHash))

	// The emailed code is the stored one.
	assert.Equal(t, *stored.VerificationToken, mail.verifications["alice@example.com"])
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	req := signupRequest()
	req.Email = "  Alice@Example.COM "
	user, _, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotNil(t, repo.get("alice@example.com"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), signupRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_EmailSendFailureKeepsUser(t *testing.T) {
	svc, repo, mail, _ := newTestAuthService(t)
	mail.failSend = true

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)

	// The record was committed before the send; no rollback.
	assert.NotNil(t, repo.get("alice@example.com"))
}

func TestVerifyEmail(t *testing.T) {
	svc, repo, mail, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	code := mail.verifications["alice@example.com"]

	user, err := svc.VerifyEmail(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	stored := repo.get("alice@example.com")
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)
	assert.Nil(t, stored.VerificationExpiresAt)
	assert.Contains(t, mail.welcomes, "alice@example.com")

	// A code is single-use.
	_, err = svc.VerifyEmail(context.Background(), code)
	assert.ErrorIs(t, err, ErrCodeInvalidOrExpired)
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.VerifyEmail(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrCodeInvalidOrExpired)
	assert.False(t, repo.get("alice@example.com").IsVerified)
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	svc, repo, mail, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	code := mail.verifications["alice@example.com"]

	expired := time.Now().Add(-time.Minute)
	repo.get("alice@example.com").VerificationExpiresAt = &expired

	_, err = svc.VerifyEmail(context.Background(), code)
	assert.ErrorIs(t, err, ErrCodeInvalidOrExpired)
	assert.False(t, repo.get("alice@example.com").IsVerified)
}

func TestLogin(t *testing.T) {
	svc, _, mail, codec := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	_, err = svc.VerifyEmail(context.Background(), mail.verifications["alice@example.com"])
	require.NoError(t, err)

	user, session, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	subject, err := codec.VerifySession(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mail, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	_, err = svc.VerifyEmail(context.Background(), mail.verifications["alice@example.com"])
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	// Correct password, but the email was never verified.
	_, _, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLogin_FederatedAccountWithoutPassword(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	now := time.Now()
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:      "bob@example.com",
		FullName:   "Bob",
		IsVerified: true,
		Provider:   entity.ProviderGoogle,
		LastLogin:  now,
		Role:       entity.RoleUser,
	}))

	_, _, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "bob@example.com",
		Password: "anything",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, mail, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	_, err = svc.VerifyEmail(context.Background(), mail.verifications["alice@example.com"])
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))

	stored := repo.get("alice@example.com")
	require.NotNil(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetPasswordExpiresAt, time.Minute)

	resetURL := mail.resetURLs["alice@example.com"]
	require.True(t, strings.HasPrefix(resetURL, "http://localhost:3000/reset-password/"))
	code := strings.TrimPrefix(resetURL, "http://localhost:3000/reset-password/")
	assert.Equal(t, *stored.ResetPasswordToken, code)

	require.NoError(t, svc.CompletePasswordReset(context.Background(), code, "new-password-1"))
	assert.Contains(t, mail.resetDone, "alice@example.com")

	// Token is cleared and cannot be replayed.
	stored = repo.get("alice@example.com")
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpiresAt)
	err = svc.CompletePasswordReset(context.Background(), code, "another-password")
	assert.ErrorIs(t, err, ErrCodeInvalidOrExpired)

	// Old password no longer works, the new one does.
	_, _, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "new-password-1",
	})
	assert.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCompletePasswordReset_ExpiredCode(t *testing.T) {
	svc, repo, mail, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))

	stored := repo.get("alice@example.com")
	expired := time.Now().Add(-time.Minute)
	stored.ResetPasswordExpiresAt = &expired

	resetURL := mail.resetURLs["alice@example.com"]
	code := resetURL[strings.LastIndex(resetURL, "/")+1:]
	err = svc.CompletePasswordReset(context.Background(), code, "new-password-1")
	assert.ErrorIs(t, err, ErrCodeInvalidOrExpired)
}

func TestGetProfile(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	user, _, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	users := NewUserService(repo, zap.NewNop())

	id, err := uuid.Parse(user.ID)
	require.NoError(t, err)

	profile, err := users.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)

	_, err = users.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
