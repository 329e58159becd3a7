package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/civicpulse/internal/db"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Store is the persistence the user service depends on.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SetRole(ctx context.Context, username string, role Role, isStaff bool) (*User, error)
}

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, role, is_staff, is_superuser, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, u, query, u.Username, u.Email, u.PasswordHash, u.Role, u.IsStaff, u.IsSuperuser)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) SetRole(ctx context.Context, username string, role Role, isStaff bool) (*User, error) {
	query := `
		UPDATE users
		SET role = $2, is_staff = $3, updated_at = NOW()
		WHERE username = $1
		RETURNING ` + userColumns
	var user User
	err := r.db.GetContext(ctx, &user, query, username, role, isStaff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return &user, nil
}
