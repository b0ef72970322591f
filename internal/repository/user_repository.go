package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, created_at`

// GetUser retrieves a user by ID. Returns apperrors.ErrUserNotFound when absent.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByLogin retrieves a user whose username or email equals identifier.
func (r *UserRepository) GetUserByLogin(ctx context.Context, identifier string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE username = ? OR email = ? ORDER BY id LIMIT 1`,
		identifier, identifier,
	)
	return scanUser(row)
}

// InsertUser stores u and sets its ID and creation time.
// Returns apperrors.ErrUsernameTaken when the username or email already exists.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	u.CreatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO "user" (username, email, hashed_password, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.HashedPassword, u.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	u.ID = id
	return nil
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var createdAt string

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
