package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	autherrors "e-approval/internal/auth/errors"
	"e-approval/internal/notification"
	"e-approval/internal/shared/contextutil"
	"e-approval/internal/user"
	usererrors "e-approval/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
	resetTokenTTL     = 10 * time.Minute
	minPasswordLength = 8

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (LoginResult, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// OptionsInvalidator drops cached approver/technician pickers after a new account appears.
type OptionsInvalidator interface {
	InvalidateOptions(ctx context.Context, roles ...string)
}

type Config struct {
	Secret       string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	DashboardURL string
}

type service struct {
	repo     user.Repository
	notifier notification.Notifier
	options  OptionsInvalidator
	cfg      Config
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(repo user.Repository, notifier notification.Notifier, options OptionsInvalidator, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	cfg.DashboardURL = strings.TrimRight(cfg.DashboardURL, "/")

	return &service{
		repo:     repo,
		notifier: notifier,
		options:  options,
		cfg:      cfg,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login lookup failed", zap.Error(err))
			return LoginResult{}, err
		}
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		l.Error("issue tokens failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}

	l.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return LoginResult{Tokens: tokens, User: mapToResponse(u)}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (LoginResult, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return LoginResult{}, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return LoginResult{}, autherrors.ErrInvalidRefreshToken
	}
	userID, _ := claims["user_id"].(string)

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return LoginResult{}, autherrors.ErrInvalidRefreshToken
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}
	return LoginResult{Tokens: tokens, User: mapToResponse(u)}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, usererrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	return mapToResponse(u), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !user.IsValidRole(req.Role) {
		return AuthResponse{}, usererrors.ErrInvalidRole
	}
	if len(req.Password) < minPasswordLength {
		return AuthResponse{}, autherrors.ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Password:   string(hashed),
		Role:       req.Role,
		Department: strings.TrimSpace(req.Department),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// A concurrent register can still lose the unique index race.
		l.Warn("register user failed", zap.String("email", email), zap.Error(err))
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	if s.options != nil {
		s.options.InvalidateOptions(ctx, u.Role)
	}

	l.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return mapToResponse(u), nil
}

// ForgotPassword never reveals whether the email exists. Only the sha256 of the
// token is stored; the raw token travels in the emailed link.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	raw, err := newResetToken()
	if err != nil {
		return err
	}
	hashed := hashToken(raw)
	expires := s.now().Add(resetTokenTTL)
	u.ResetPasswordToken = &hashed
	u.ResetPasswordExpiresAt = &expires

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("store reset token failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.cfg.DashboardURL, raw)
	msg := notification.Message{
		To:      []string{u.Email},
		Subject: "Reset your e-Approval password",
		HTMLBody: fmt.Sprintf(
			`<p>Hello %s,</p><p>Use the link below to reset your password. It is valid for 10 minutes.</p><p><a href="%s">%s</a></p><p>If you did not ask for a reset, ignore this email.</p>`,
			html.EscapeString(u.Name), html.EscapeString(link), html.EscapeString(link),
		),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		l.Warn("send reset email failed", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" {
		return autherrors.ErrInvalidResetToken
	}
	if len(password) < minPasswordLength {
		return autherrors.ErrWeakPassword
	}

	u, err := s.repo.FindByResetToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrInvalidResetToken
		}
		return err
	}
	if u.ResetPasswordExpiresAt == nil || !s.now().Before(*u.ResetPasswordExpiresAt) {
		return autherrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	u.ResetPasswordToken = nil
	u.ResetPasswordExpiresAt = nil

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	contextutil.GetLogger(ctx, s.logger).Info("password reset", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *service) issueTokens(u *user.User) (TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.cfg.AccessTTL)
	refreshExp := now.Add(s.cfg.RefreshTTL)

	access, err := s.sign(jwt.MapClaims{
		"user_id":    u.ID.String(),
		"role":       u.Role,
		"department": u.Department,
		"typ":        tokenTypeAccess,
		"iat":        now.Unix(),
		"exp":        accessExp.Unix(),
	})
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.sign(jwt.MapClaims{
		"user_id": u.ID.String(),
		"typ":     tokenTypeRefresh,
		"iat":     now.Unix(),
		"exp":     refreshExp.Unix(),
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *service) sign(claims jwt.MapClaims) (string, error) {
	if s.cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *service) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func mapToResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}
