package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/curaious/civicpulse/internal/perrors"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	repo Store
	cost int
}

func NewUserService(repo Store) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register validates the sign-up payload and creates a CITIZEN account.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if fields := req.Validate(); len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}

	return s.create(ctx, req.Username, req.Email, req.Password, RoleCitizen, false, false)
}

// CreateUser is the administrative path used by the CLI; it may assign any role.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, role Role, superuser bool) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	fields := perrors.FieldErrors{}
	checkPassword(fields, "password", password)
	if len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}

	return s.create(ctx, username, email, password, role, superuser, superuser)
}

func (s *UserService) create(ctx context.Context, username, email, password string, role Role, staff, superuser bool) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsStaff:      staff,
		IsSuperuser:  superuser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, perrors.NewErrFieldValidation("username", "A user with that username already exists.")
		}
		return nil, err
	}

	return u, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetRole is the only path that mutates a role after registration.
func (s *UserService) SetRole(ctx context.Context, username string, role Role, isStaff bool) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return s.repo.SetRole(ctx, username, role, isStaff)
}
