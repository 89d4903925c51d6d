package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func newAuthFixture() *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            4,
		},
	}
	store := repository.NewMemoryStore()
	return NewAuthService(cfg, store.Users())
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, UserInput{
		Name:     "Rita Requester",
		Email:    "Rita@Example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "rita@example.com", created.Email)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NotEqual(t, "hunter2", created.PasswordHash)

	user, token, err := svc.Login(ctx, "rita@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserInput{Name: "Rita", Email: "rita@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "rita@example.com", "wrong")
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2")
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserInput{Name: "Rita", Email: "rita@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, UserInput{Name: "Other", Email: "RITA@example.com", Password: "x"})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, UserInput{Name: "Rita", Email: "rita@example.com", Password: "hunter2"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, UserInput{Name: "Rita R.", Role: domain.RoleTechnician})
	require.NoError(t, err)
	assert.Equal(t, "Rita R.", updated.Name)
	assert.Equal(t, domain.RoleTechnician, updated.Role)

	_, _, err = svc.Login(ctx, "rita@example.com", "hunter2")
	assert.NoError(t, err)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.CreateUser(context.Background(), UserInput{
		Name: "X", Email: "x@example.com", Password: "p", Role: domain.UserRole("wizard"),
	})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}
