package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"e-approval/internal/shared/contextutil"
	usererrors "e-approval/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const UserOptionsKeyPrefix = "users:options:"

const userOptionsTTL = time.Hour

func GetUserOptionsKey(role string) string {
	return UserOptionsKeyPrefix + role
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, role string) ([]UserResponse, error)
	GetOptions(ctx context.Context, role string) ([]UserOption, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	ResolvePrincipal(ctx context.Context, id string) (Principal, error)
	Delete(ctx context.Context, actorID, id string) error
	InvalidateOptions(ctx context.Context, roles ...string)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context, role string) ([]UserResponse, error) {
	if role != "" && !IsValidRole(role) {
		return nil, usererrors.ErrInvalidRole
	}

	users, err := s.repo.FindAll(ctx, role)
	if err != nil {
		s.logger.Error("get all users failed", zap.String("role", role), zap.Error(err))
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

// GetOptions serves approver/technician pickers from redis, collapsing concurrent misses.
func (s *service) GetOptions(ctx context.Context, role string) ([]UserOption, error) {
	if !IsValidRole(role) {
		return nil, usererrors.ErrInvalidRole
	}
	cacheKey := GetUserOptionsKey(role)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []UserOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		users, err := s.repo.FindAll(ctx, role)
		if err != nil {
			return nil, err
		}

		resp := make([]UserOption, len(users))
		for i, u := range users {
			resp[i] = UserOption{
				ID:         u.ID.String(),
				Name:       u.Name,
				Department: u.Department,
				Email:      u.Email,
			}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, userOptionsTTL).Err(); err != nil {
					s.logger.Warn("cache user options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get user options failed", zap.String("role", role), zap.Error(err))
		return nil, err
	}

	return v.([]UserOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.findByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

// ResolvePrincipal reports ErrUserNotFound for any id that does not name a live user, malformed ids included.
func (s *service) ResolvePrincipal(ctx context.Context, id string) (Principal, error) {
	u, err := s.findByID(ctx, id)
	if errors.Is(err, usererrors.ErrInvalidUserID) {
		return Principal{}, usererrors.ErrUserNotFound
	}
	if err != nil {
		return Principal{}, err
	}
	return u.Principal(), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if actorID == id {
		return usererrors.ErrCannotDeleteSelf
	}
	u, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		l.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.InvalidateOptions(ctx, u.Role)
	l.Info("delete user success", zap.String("user_id", id), zap.String("role", u.Role))
	return nil
}

func (s *service) InvalidateOptions(ctx context.Context, roles ...string) {
	if s.rdb == nil || len(roles) == 0 {
		return
	}
	keys := make([]string, len(roles))
	for i, role := range roles {
		keys[i] = GetUserOptionsKey(role)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate user options cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *service) findByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		s.logger.Error("find user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
