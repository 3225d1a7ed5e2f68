package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"e-approval/internal/auth"
	autherrors "e-approval/internal/auth/errors"
	authMock "e-approval/internal/auth/mock"
	"e-approval/internal/notification"
	notificationMock "e-approval/internal/notification/mock"
	"e-approval/internal/user"
	usererrors "e-approval/internal/user/errors"
	userMock "e-approval/internal/user/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type authDeps struct {
	repo     *userMock.MockRepository
	notifier *notificationMock.MockNotifier
	options  *authMock.MockOptionsInvalidator
	service  auth.Service
}

func setupAuthService(t *testing.T) authDeps {
	ctrl := gomock.NewController(t)
	d := authDeps{
		repo:     userMock.NewMockRepository(ctrl),
		notifier: notificationMock.NewMockNotifier(ctrl),
		options:  authMock.NewMockOptionsInvalidator(ctrl),
	}
	d.service = auth.NewService(d.repo, d.notifier, d.options, auth.Config{
		Secret:       testSecret,
		AccessTTL:    time.Hour,
		DashboardURL: "https://approvals.corp.test/",
	}, zap.NewNop())
	return d
}

func hashedUser(t *testing.T, password string) *user.User {
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{
		ID:         uuid.New(),
		Name:       "Andi",
		Email:      "andi@corp.test",
		Password:   string(pw),
		Role:       user.RoleApprover,
		Department: "Finance",
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success carries role and department in the token", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")
		d.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		res, err := d.service.Login(ctx, u.Email, "password123")

		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), res.User.ID)
		assert.Equal(t, user.RoleApprover, res.User.Role)

		claims := parseClaims(t, res.Tokens.AccessToken)
		assert.Equal(t, u.ID.String(), claims["user_id"])
		assert.Equal(t, user.RoleApprover, claims["role"])
		assert.Equal(t, "Finance", claims["department"])
		assert.NotEmpty(t, res.Tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")
		d.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		_, err := d.service.Login(ctx, u.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByEmail(ctx, "ghost@corp.test").Return(&user.User{}, gorm.ErrRecordNotFound)

		_, err := d.service.Login(ctx, "ghost@corp.test", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByEmail(ctx, gomock.Any()).Return(nil, errors.New("db down"))

		_, err := d.service.Login(ctx, "andi@corp.test", "password123")
		assert.EqualError(t, err, "db down")
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	d := setupAuthService(t)
	u := hashedUser(t, "password123")

	d.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
	login, err := d.service.Login(ctx, u.Email, "password123")
	require.NoError(t, err)

	t.Run("refresh token issues a new pair", func(t *testing.T) {
		d.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)

		res, err := d.service.RefreshToken(ctx, login.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, u.Email, res.User.Email)
		assert.NotEmpty(t, res.Tokens.AccessToken)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		_, err := d.service.RefreshToken(ctx, login.Tokens.AccessToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := d.service.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes password and invalidates pickers", func(t *testing.T) {
		d := setupAuthService(t)
		req := auth.RegisterRequest{
			Name:       "Tika",
			Email:      "Tika@Corp.test",
			Password:   "password123",
			Role:       user.RoleTechnician,
			Department: "Facilities",
		}

		d.repo.EXPECT().FindByEmail(ctx, "tika@corp.test").Return(&user.User{}, gorm.ErrRecordNotFound)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, "tika@corp.test", u.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
			return nil
		})
		d.options.EXPECT().InvalidateOptions(ctx, user.RoleTechnician)

		resp, err := d.service.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, user.RoleTechnician, resp.Role)
		assert.Equal(t, "Facilities", resp.Department)
	})

	t.Run("duplicate email", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByEmail(ctx, "andi@corp.test").Return(&user.User{}, nil)

		_, err := d.service.Register(ctx, auth.RegisterRequest{
			Name: "Andi", Email: "andi@corp.test", Password: "password123", Role: user.RoleStaff,
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("unique index race", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByEmail(ctx, gomock.Any()).Return(&user.User{}, gorm.ErrRecordNotFound)
		d.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("duplicate key"))

		_, err := d.service.Register(ctx, auth.RegisterRequest{
			Name: "Andi", Email: "andi@corp.test", Password: "password123", Role: user.RoleStaff,
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("invalid role", func(t *testing.T) {
		d := setupAuthService(t)
		_, err := d.service.Register(ctx, auth.RegisterRequest{
			Name: "X", Email: "x@corp.test", Password: "password123", Role: "janitor",
		})
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("weak password", func(t *testing.T) {
		d := setupAuthService(t)
		_, err := d.service.Register(ctx, auth.RegisterRequest{
			Name: "X", Email: "x@corp.test", Password: "short", Role: user.RoleStaff,
		})
		assert.ErrorIs(t, err, autherrors.ErrWeakPassword)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")
		d.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)

		resp, err := d.service.GetMe(ctx, u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Andi", resp.Name)
	})

	t.Run("invalid id", func(t *testing.T) {
		d := setupAuthService(t)
		_, err := d.service.GetMe(ctx, "nope")
		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("deleted user", func(t *testing.T) {
		d := setupAuthService(t)
		id := uuid.NewString()
		d.repo.EXPECT().FindByID(ctx, id).Return(&user.User{}, gorm.ErrRecordNotFound)

		_, err := d.service.GetMe(ctx, id)
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("forgot password stores only the token hash and emails the raw token", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")

		var stored *string
		var sent notification.Message
		d.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		d.repo.EXPECT().Update(ctx, u).DoAndReturn(func(_ context.Context, got *user.User) error {
			stored = got.ResetPasswordToken
			require.NotNil(t, got.ResetPasswordExpiresAt)
			assert.WithinDuration(t, time.Now().Add(10*time.Minute), *got.ResetPasswordExpiresAt, 5*time.Second)
			return nil
		})
		d.notifier.EXPECT().Send(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, msg notification.Message) error {
			sent = msg
			return nil
		})

		require.NoError(t, d.service.ForgotPassword(ctx, u.Email))
		require.NotNil(t, stored)
		assert.Equal(t, []string{u.Email}, sent.To)

		const marker = "https://approvals.corp.test/reset-password/"
		i := strings.Index(sent.HTMLBody, marker)
		require.GreaterOrEqual(t, i, 0)
		raw := sent.HTMLBody[i+len(marker) : i+len(marker)+64]
		assert.NotEqual(t, *stored, raw)
		assert.NotContains(t, sent.HTMLBody, *stored)

		// The emailed token resets the password.
		d.repo.EXPECT().FindByResetToken(ctx, *stored).Return(u, nil)
		d.repo.EXPECT().Update(ctx, u).Return(nil)

		require.NoError(t, d.service.ResetPassword(ctx, raw, "newpassword1"))
		assert.Nil(t, u.ResetPasswordToken)
		assert.Nil(t, u.ResetPasswordExpiresAt)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpassword1")))
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByEmail(ctx, "ghost@corp.test").Return(&user.User{}, gorm.ErrRecordNotFound)

		assert.NoError(t, d.service.ForgotPassword(ctx, "ghost@corp.test"))
	})

	t.Run("email failure does not surface", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")
		d.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		d.repo.EXPECT().Update(ctx, u).Return(nil)
		d.notifier.EXPECT().Send(ctx, gomock.Any()).Return(errors.New("smtp down"))

		assert.NoError(t, d.service.ForgotPassword(ctx, u.Email))
	})

	t.Run("expired token", func(t *testing.T) {
		d := setupAuthService(t)
		u := hashedUser(t, "password123")
		expired := time.Now().Add(-time.Minute)
		u.ResetPasswordExpiresAt = &expired
		d.repo.EXPECT().FindByResetToken(ctx, gomock.Any()).Return(u, nil)

		err := d.service.ResetPassword(ctx, "some-token", "newpassword1")
		assert.ErrorIs(t, err, autherrors.ErrInvalidResetToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		d := setupAuthService(t)
		d.repo.EXPECT().FindByResetToken(ctx, gomock.Any()).Return(&user.User{}, gorm.ErrRecordNotFound)

		err := d.service.ResetPassword(ctx, "some-token", "newpassword1")
		assert.ErrorIs(t, err, autherrors.ErrInvalidResetToken)
	})

	t.Run("weak new password", func(t *testing.T) {
		d := setupAuthService(t)
		err := d.service.ResetPassword(ctx, "some-token", "short")
		assert.ErrorIs(t, err, autherrors.ErrWeakPassword)
	})
}
