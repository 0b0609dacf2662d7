package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository/mocks"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
)

func newTestService(t *testing.T) (Authenticator, *mocks.MockUserRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	cfg := &config.Config{
		Auth: config.Auth{
			Secret:      "test-secret",
			TokenExpiry: time.Hour,
		},
	}

	return NewService(repo, cfg), repo
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           7,
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleSuper,
		Active:       true,
	}
}

func authCode(t *testing.T, err error) string {
	t.Helper()

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	return authErr.Code
}

func TestLoginUser(t *testing.T) {
	service, repo := newTestService(t)

	user := activeUser(t, "s3cret")
	repo.EXPECT().GetByUsername("admin").Return(user, nil)
	repo.EXPECT().UpdateLastLogin(user.ID).Return(nil)

	resp, err := service.LoginUser("admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, domain.RoleSuper, resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginUser_LastLoginFailureIsNotFatal(t *testing.T) {
	service, repo := newTestService(t)

	user := activeUser(t, "s3cret")
	repo.EXPECT().GetByUsername("admin").Return(user, nil)
	repo.EXPECT().UpdateLastLogin(user.ID).Return(errors.New("deadlock"))

	resp, err := service.LoginUser("admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByUsername("admin").Return(activeUser(t, "s3cret"), nil)

	_, err := service.LoginUser("admin", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apiErrors.ErrInvalidCredentials, authCode(t, err))
}

func TestLoginUser_UnknownUsername(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByUsername("ghost").Return(nil, nil)

	_, err := service.LoginUser("ghost", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apiErrors.ErrInvalidCredentials, authCode(t, err))
}

func TestLoginUser_DisabledUser(t *testing.T) {
	service, repo := newTestService(t)

	user := activeUser(t, "s3cret")
	user.Active = false
	repo.EXPECT().GetByUsername("admin").Return(user, nil)

	_, err := service.LoginUser("admin", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserDisabled)
	assert.Equal(t, apiErrors.ErrUserDisabled, authCode(t, err))

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, user.ID, authErr.UserID)
}

func TestLoginUser_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "no username", username: "", password: "s3cret"},
		{name: "no password", username: "admin", password: ""},
		{name: "neither", username: "", password: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newTestService(t)

			_, err := service.LoginUser(tc.username, tc.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRequiredData)
			assert.Equal(t, apiErrors.ErrMissingRequiredData, authCode(t, err))
		})
	}
}

func TestLoginUser_RepositoryError(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByUsername("admin").Return(nil, errors.New("connection refused"))

	_, err := service.LoginUser("admin", "s3cret")
	require.Error(t, err)
	assert.Equal(t, apiErrors.ErrDatabaseOperation, authCode(t, err))
}

func TestValidateToken_Roundtrip(t *testing.T) {
	service, repo := newTestService(t)

	user := activeUser(t, "s3cret")
	repo.EXPECT().GetByUsername("admin").Return(user, nil)
	repo.EXPECT().UpdateLastLogin(user.ID).Return(nil)

	resp, err := service.LoginUser("admin", "s3cret")
	require.NoError(t, err)

	claims, err := service.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, domain.RoleSuper, claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, IsAuthorizationError(err))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockUserRepository(ctrl)

	issuer := NewService(repo, &config.Config{
		Auth: config.Auth{Secret: "other-secret", TokenExpiry: time.Hour},
	})
	verifier := NewService(repo, &config.Config{
		Auth: config.Auth{Secret: "test-secret", TokenExpiry: time.Hour},
	})

	user := activeUser(t, "s3cret")
	repo.EXPECT().GetByUsername("admin").Return(user, nil)
	repo.EXPECT().UpdateLastLogin(user.ID).Return(nil)

	resp, err := issuer.LoginUser("admin", "s3cret")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	service, _ := newTestService(t)

	claims := domain.Claims{
		UserID:   7,
		Username: "admin",
		Role:     domain.RoleSuper,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(expired)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Equal(t, apiErrors.ErrExpiredToken, authCode(t, err))
}

func TestGetUserProfile_StripsPasswordHash(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByUsername("admin").Return(activeUser(t, "s3cret"), nil)

	user, err := service.GetUserProfile("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestGetUserProfile_NotFound(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByUsername("ghost").Return(nil, nil)

	_, err := service.GetUserProfile("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, IsCredentialsError(err))
}
