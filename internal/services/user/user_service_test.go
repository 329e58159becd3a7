package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/curaious/civicpulse/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() *user.UserService {
	return user.NewUserService(memstore.New().Users()).WithHashCost(bcrypt.MinCost)
}

func TestRegisterCreatesCitizen(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	u, err := svc.Register(ctx, &user.RegisterRequest{
		Username:  "otieno",
		Email:     "otieno@example.com",
		Password:  "long-enough",
		Password2: "long-enough",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, user.RoleCitizen, u.Role)
	assert.False(t, u.IsStaff)
	assert.NotEqual(t, "long-enough", u.PasswordHash)

	authed, err := svc.Authenticate(ctx, "otieno", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	_, err := newService().Register(context.Background(), &user.RegisterRequest{
		Username:  "otieno",
		Password:  "long-enough",
		Password2: "long-enough-2",
	})
	require.Error(t, err)

	fields, ok := perrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Passwords do not match."}, fields["password2"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	req := func() *user.RegisterRequest {
		return &user.RegisterRequest{Username: "amina", Password: "long-enough", Password2: "long-enough"}
	}

	_, err := svc.Register(ctx, req())
	require.NoError(t, err)

	_, err = svc.Register(ctx, req())
	fields, ok := perrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"A user with that username already exists."}, fields["username"])
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.CreateUser(ctx, "kamau", "", "correct-horse", user.RoleOfficial, false)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "kamau", "wrong-horse")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestCreateUserAndSetRole(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateUser(ctx, "root", "", "pw-for-root", user.Role("KING"), true)
	require.Error(t, err)

	admin, err := svc.CreateUser(ctx, "root", "", "pw-for-root", user.RoleAdmin, true)
	require.NoError(t, err)
	assert.True(t, admin.IsSuperuser)
	assert.True(t, admin.IsStaff)

	citizen, err := svc.CreateUser(ctx, "njeri", "", "pw-for-njeri", user.RoleCitizen, false)
	require.NoError(t, err)

	promoted, err := svc.SetRole(ctx, "njeri", user.RoleOfficial, false)
	require.NoError(t, err)
	assert.Equal(t, citizen.ID, promoted.ID)
	assert.Equal(t, user.RoleOfficial, promoted.Role)

	_, err = svc.SetRole(ctx, "ghost", user.RoleOfficial, false)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestPasswordsOverBcryptLimitAreFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	long := strings.Repeat("p", 80)

	_, err := svc.Register(ctx, &user.RegisterRequest{Username: "otieno", Password: long, Password2: long})
	fields, ok := perrors.AsFieldErrors(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"Ensure this field has no more than 72 bytes."}, fields["password"])

	_, err = svc.CreateUser(ctx, "otieno", "", long, user.RoleOfficial, false)
	fields, ok = perrors.AsFieldErrors(err)
	require.True(t, ok, "got %v", err)
	assert.Contains(t, fields, "password")

	limit := strings.Repeat("p", 72)
	_, err = svc.Register(ctx, &user.RegisterRequest{Username: "otieno", Password: limit, Password2: limit})
	require.NoError(t, err)
}
