package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	t.Run("creates account with user role and hashed password", func(t *testing.T) {
		t.Parallel()
		var created *models.User
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 1
			created = u
			return nil
		}

		svc := NewUserService(repo)
		user, err := svc.Signup(context.Background(), SignupInput{
			Email:       "jamie@example.com",
			Password:    "SecurePass123!",
			DisplayName: "Jamie",
		})
		require.NoError(t, err)

		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.Active)
		assert.NotEqual(t, "SecurePass123!", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("SecurePass123!")))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 2, Email: email}, nil
		}

		svc := NewUserService(repo)
		_, err := svc.Signup(context.Background(), SignupInput{
			Email:    "taken@example.com",
			Password: "SecurePass123!",
		})
		assertValidationError(t, err)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.Signup(context.Background(), SignupInput{
			Email:    "jamie@example.com",
			Password: "short",
		})
		assertValidationError(t, err)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass123!"), bcrypt.MinCost)
	require.NoError(t, err)

	withAccount := func(active bool) *userRepoStub {
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, Password: string(hash), Role: models.RoleUser, Active: active}, nil
		}
		return repo
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(withAccount(true))
		user, err := svc.Login(context.Background(), "jamie@example.com", "SecurePass123!")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(withAccount(true))
		_, err := svc.Login(context.Background(), "jamie@example.com", "WrongPass123!")
		assertUnauthorizedError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.Login(context.Background(), "nobody@example.com", "SecurePass123!")
		assertUnauthorizedError(t, err)
	})

	t.Run("deactivated account", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(withAccount(false))
		_, err := svc.Login(context.Background(), "jamie@example.com", "SecurePass123!")
		assertUnauthorizedError(t, err)
	})
}

func TestUserService_PromoteAdmin(t *testing.T) {
	t.Parallel()

	var gotRole models.UserRole
	repo := noopUserRepo()
	repo.setRoleFn = func(_ context.Context, _ uint, role models.UserRole) error {
		gotRole = role
		return nil
	}

	svc := NewUserService(repo)
	user, err := svc.PromoteAdmin(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, gotRole)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserService_IsAdmin(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		role := models.RoleUser
		if id == 99 {
			role = models.RoleAdmin
		}
		return &models.User{ID: id, Role: role}, nil
	}

	svc := NewUserService(repo)
	admin, err := svc.IsAdmin(context.Background(), 99)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, admin)
}
