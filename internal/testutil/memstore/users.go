package memstore

import (
	"context"

	"github.com/curaious/civicpulse/internal/services/user"
)

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, in *user.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}

	for _, existing := range s.users {
		if existing.Username == in.Username {
			return user.ErrUsernameTaken
		}
	}

	if in.Role == "" {
		in.Role = user.RoleCitizen
	}
	in.ID, in.CreatedAt = s.next()
	in.UpdatedAt = in.CreatedAt
	s.users[in.ID] = copyOf(in)
	return nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*user.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	found, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return copyOf(found), nil
}

func (u *Users) GetByUsername(_ context.Context, username string) (*user.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	for _, found := range s.users {
		if found.Username == username {
			return copyOf(found), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (u *Users) SetRole(_ context.Context, username string, role user.Role, isStaff bool) (*user.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	for _, found := range s.users {
		if found.Username == username {
			found.Role = role
			found.IsStaff = isStaff
			_, found.UpdatedAt = s.next()
			return copyOf(found), nil
		}
	}
	return nil, user.ErrUserNotFound
}
