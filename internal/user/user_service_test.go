package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"e-approval/internal/user"
	usererrors "e-approval/internal/user/errors"
	mock_user "e-approval/internal/user/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo, nil)
	return mockRepo, svc
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindAll(gomock.Any(), user.RoleApprover).
			Return([]user.User{
				{ID: uuid.New(), Name: "Bima", Email: "bima@mail.com", Role: user.RoleApprover},
			}, nil)

		res, err := svc.GetAll(ctx, user.RoleApprover)

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "bima@mail.com", res[0].Email)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, svc := setup(t)

		res, err := svc.GetAll(ctx, "janitor")

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
		assert.Nil(t, res)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindAll(gomock.Any(), "").
			Return(nil, errors.New("db error"))

		res, err := svc.GetAll(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), userID.String()).
			Return(&user.User{ID: userID, Email: "john@mail.com", Role: user.RoleStaff}, nil)

		res, err := svc.GetByID(ctx, userID.String())

		assert.NoError(t, err)
		assert.Equal(t, userID.String(), res.ID)
		assert.Equal(t, user.RoleStaff, res.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), userID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, userID.String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_ResolvePrincipal(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(&user.User{ID: id, Name: "Tika", Role: user.RoleTechnician, Department: "IT"}, nil)

		p, err := svc.ResolvePrincipal(ctx, id.String())

		require.NoError(t, err)
		assert.Equal(t, user.RoleTechnician, p.Role)
		assert.Equal(t, "IT", p.Department)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.ResolvePrincipal(ctx, "42")

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_GetOptions(t *testing.T) {
	ctx := context.Background()
	key := user.GetUserOptionsKey(user.RoleApprover)

	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mock_user.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		svc := user.NewService(mockRepo, rdb)

		cached := []user.UserOption{{ID: "u-1", Name: "Bima"}}
		payload, _ := json.Marshal(cached)
		rmock.ExpectGet(key).SetVal(string(payload))

		res, err := svc.GetOptions(ctx, user.RoleApprover)

		require.NoError(t, err)
		assert.Equal(t, cached, res)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mock_user.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		svc := user.NewService(mockRepo, rdb)

		id := uuid.New()
		mockRepo.EXPECT().
			FindAll(gomock.Any(), user.RoleApprover).
			Return([]user.User{{ID: id, Name: "Bima", Email: "bima@mail.com", Department: "Finance"}}, nil)

		expected := []user.UserOption{{ID: id.String(), Name: "Bima", Department: "Finance", Email: "bima@mail.com"}}
		payload, _ := json.Marshal(expected)

		rmock.ExpectGet(key).RedisNil()
		rmock.ExpectSet(key, payload, time.Hour).SetVal("OK")

		res, err := svc.GetOptions(ctx, user.RoleApprover)

		require.NoError(t, err)
		assert.Equal(t, expected, res)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("invalid role", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetOptions(ctx, "")

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success invalidates options cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mock_user.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		svc := user.NewService(mockRepo, rdb)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(&user.User{ID: id, Role: user.RoleTechnician}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), id.String()).Return(nil)
		rmock.ExpectDel(user.GetUserOptionsKey(user.RoleTechnician)).SetVal(1)

		err := svc.Delete(ctx, uuid.NewString(), id.String())

		assert.NoError(t, err)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("cannot delete self", func(t *testing.T) {
		_, svc := setup(t)

		err := svc.Delete(ctx, id.String(), id.String())

		assert.ErrorIs(t, err, usererrors.ErrCannotDeleteSelf)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(nil, gorm.ErrRecordNotFound)

		err := svc.Delete(ctx, uuid.NewString(), id.String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}
