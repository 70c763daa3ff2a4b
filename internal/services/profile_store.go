package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mindwell-app/mindwell-backend/internal/database"
	"github.com/mindwell-app/mindwell-backend/internal/models"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// CreateUserWithProfile inserts the user row and its profile in one
// transaction, so a failed profile insert never leaves an orphan account.
func CreateUserWithProfile(ctx context.Context, email, passwordHash string, profile *models.Profile) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, is_active)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, passwordHash, user.CreatedAt, user.IsActive,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	profile.UserID = user.ID
	profile.CreatedAt = user.CreatedAt
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, full_name, date_of_birth, gender, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		profile.UserID, profile.FullName, profile.DateOfBirth, profile.Gender, profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail fetches a user plus password hash for signin.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user := &models.User{}
	err := database.PostgresDB.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, is_active
		 FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID fetches a user by primary key.
func GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user := &models.User{}
	err := database.PostgresDB.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, is_active
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile fetches the profile row for a user.
func GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	profile := &models.Profile{}
	err := database.PostgresDB.QueryRowContext(ctx,
		`SELECT user_id, full_name, date_of_birth, gender, created_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.FullName, &profile.DateOfBirth, &profile.Gender, &profile.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdatePassword replaces a user's password hash.
func UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := database.PostgresDB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
