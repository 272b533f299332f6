package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auth-backend/internal/data/entity"
	"auth-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateEmail is returned by Create when the unique email constraint
// rejects the insert. The existence check in the service layer races with
// concurrent signups; the constraint is the authority.
var ErrDuplicateEmail = errors.New("email already exists")

const userColumns = `id, email, fullname, password, phone, is_verified,
	       verification_token, verification_expires_at,
	       reset_password_token, reset_password_expires_at,
	       provider, last_login, role, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*entity.User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, fullname, password, phone, is_verified,
		                   verification_token, verification_expires_at,
		                   reset_password_token, reset_password_expires_at,
		                   provider, last_login, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Phone,
		user.IsVerified,
		user.VerificationToken,
		user.VerificationExpiresAt,
		user.ResetPasswordToken,
		user.ResetPasswordExpiresAt,
		user.Provider,
		user.LastLogin,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEmail
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	user, err := ur.scanUser(ur.db.QueryRow(ctx, query, id))
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	user, err := ur.scanUser(ur.db.QueryRow(ctx, query, email))
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// ConsumeVerificationToken marks the matching user as verified and clears the
// token pair in one statement, so a code can only ever be redeemed once.
// Returns nil without error when no user holds this token with a live expiry.
func (ur *userRepository) ConsumeVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	query := `
		UPDATE users
		SET is_verified = true,
		    verification_token = NULL,
		    verification_expires_at = NULL,
		    updated_at = NOW()
		WHERE verification_token = $1
		  AND verification_expires_at > NOW()
		RETURNING ` + userColumns + `
	`

	user, err := ur.scanUser(ur.db.QueryRow(ctx, query, token))
	if err != nil {
		ur.log.Error("Failed to consume verification token", zap.Error(err))
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	return user, nil
}

func (ur *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $2,
		    reset_password_expires_at = $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, id, token, expiresAt)
	if err != nil {
		ur.log.Error("Failed to set reset token",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set reset token for %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

// ConsumeResetToken stores the new password hash and clears the reset token
// pair in one statement. Returns nil without error when no user holds this
// token with a live expiry.
func (ur *userRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (*entity.User, error) {
	query := `
		UPDATE users
		SET password = $2,
		    reset_password_token = NULL,
		    reset_password_expires_at = NULL,
		    updated_at = NOW()
		WHERE reset_password_token = $1
		  AND reset_password_expires_at > NOW()
		RETURNING ` + userColumns + `
	`

	user, err := ur.scanUser(ur.db.QueryRow(ctx, query, token, passwordHash))
	if err != nil {
		ur.log.Error("Failed to consume reset token", zap.Error(err))
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	return user, nil
}

func (ur *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET last_login = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	_, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to update last login",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("update last login for %s: %w", id.String(), err)
	}

	return nil
}

func (ur *userRepository) scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Phone,
		&user.IsVerified,
		&user.VerificationToken,
		&user.VerificationExpiresAt,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpiresAt,
		&user.Provider,
		&user.LastLogin,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
