package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/infrastructure/auth"
	"github.com/gudang/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryUserRepo is an in-memory UserRepository
type memoryUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *memoryUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *identity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryUserRepo) FindAll(_ context.Context) ([]*identity.User, error) {
	out := make([]*identity.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memoryUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func authConfig() config.AuthConfig {
	return config.AuthConfig{MaxLoginAttempts: 3, LockDuration: time.Hour}
}

func jwtService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-unit-tests-only!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "gudang-backend",
		MaxRefreshCount:        5,
	})
}

func seedUser(t *testing.T, repo *memoryUserRepo, username, password string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, password, role)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		repo := newMemoryUserRepo()
		seedUser(t, repo, "gudang.admin", "rahasia123", identity.RoleAdmin)
		svc := NewAuthService(repo, jwtService(), authConfig(), zap.NewNop())

		result, err := svc.Login(ctx, LoginInput{Username: "gudang.admin", Password: "rahasia123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "admin", result.User.Role)
		assert.Equal(t, "gudang.admin", result.User.DisplayName)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAuthService(newMemoryUserRepo(), jwtService(), authConfig(), zap.NewNop())
		_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "whatever1"})
		assert.Error(t, err)
	})

	t.Run("lock after repeated failures", func(t *testing.T) {
		repo := newMemoryUserRepo()
		seedUser(t, repo, "petugas", "rahasia123", identity.RoleStaff)
		svc := NewAuthService(repo, jwtService(), authConfig(), zap.NewNop())

		for i := 0; i < 3; i++ {
			_, err := svc.Login(ctx, LoginInput{Username: "petugas", Password: "salah123"})
			assert.Error(t, err)
		}

		// even the right password is refused while locked
		_, err := svc.Login(ctx, LoginInput{Username: "petugas", Password: "rahasia123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})

	t.Run("deactivated account", func(t *testing.T) {
		repo := newMemoryUserRepo()
		user := seedUser(t, repo, "petugas", "rahasia123", identity.RoleStaff)
		require.NoError(t, user.Deactivate())
		svc := NewAuthService(repo, jwtService(), authConfig(), zap.NewNop())

		_, err := svc.Login(ctx, LoginInput{Username: "petugas", Password: "rahasia123"})
		assert.Error(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	seedUser(t, repo, "petugas", "rahasia123", identity.RoleStaff)
	svc := NewAuthService(repo, jwtService(), authConfig(), zap.NewNop())

	login, err := svc.Login(ctx, LoginInput{Username: "petugas", Password: "rahasia123"})
	require.NoError(t, err)

	t.Run("valid refresh", func(t *testing.T) {
		result, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "nope"})
		assert.Error(t, err)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		user, err := repo.FindByUsername(ctx, "petugas")
		require.NoError(t, err)
		require.NoError(t, user.Deactivate())

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	user := seedUser(t, repo, "petugas", "rahasia123", identity.RoleStaff)
	svc := NewAuthService(repo, jwtService(), authConfig(), zap.NewNop())

	err := svc.ChangePassword(ctx, ChangePasswordInput{
		UserID: user.ID, OldPassword: "salah", NewPassword: "barubaru1",
	})
	assert.Error(t, err)

	err = svc.ChangePassword(ctx, ChangePasswordInput{
		UserID: user.ID, OldPassword: "rahasia123", NewPassword: "barubaru1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "petugas", Password: "barubaru1"})
	assert.NoError(t, err)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	admin := seedUser(t, repo, "gudang.admin", "rahasia123", identity.RoleAdmin)
	svc := NewUserService(repo, zap.NewNop())

	adminActor := admin.Actor()
	staffActor := identity.Actor{UserID: uuid.New().String(), Role: identity.RoleStaff}

	t.Run("admin creates a user", func(t *testing.T) {
		info, err := svc.Create(ctx, adminActor, CreateUserInput{
			Username: "petugas", Password: "rahasia123", Role: "staff", DisplayName: "Petugas Gudang",
		})
		require.NoError(t, err)
		assert.Equal(t, "staff", info.Role)
		assert.Equal(t, "Petugas Gudang", info.DisplayName)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Create(ctx, adminActor, CreateUserInput{
			Username: "petugas", Password: "rahasia123", Role: "staff",
		})
		assert.Error(t, err)
	})

	t.Run("staff cannot administer users", func(t *testing.T) {
		_, err := svc.Create(ctx, staffActor, CreateUserInput{
			Username: "lain", Password: "rahasia123", Role: "staff",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)

		_, err = svc.List(ctx, staffActor)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		err := svc.Deactivate(ctx, adminActor, admin.ID)
		assert.Error(t, err)
	})

	t.Run("deactivate another user", func(t *testing.T) {
		target, err := repo.FindByUsername(ctx, "petugas")
		require.NoError(t, err)
		require.NoError(t, svc.Deactivate(ctx, adminActor, target.ID))
		assert.False(t, target.CanLogin())
	})
}
