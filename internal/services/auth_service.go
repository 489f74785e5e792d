package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.StaffToken, error)
}

type AuthConfig struct {
	Secret       string
	TokenTTL     time.Duration
	Username     string
	PasswordHash string
}

type authService struct {
	cfg AuthConfig
	now func() time.Time
}

func NewAuthService(cfg AuthConfig) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.StaffToken, error) {
	const op = "AuthService.Login"

	if s.cfg.Secret == "" || s.cfg.PasswordHash == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "staff login is not configured", nil)
	}
	if username == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passErr := utils.CheckPassword(s.cfg.PasswordHash, password)
	if !userOK || passErr != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	now := s.now().UTC()
	exp := now.Add(s.cfg.TokenTTL)
	claims := models.StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: models.RoleStaff,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return &models.StaffToken{Token: signed, ExpiresAt: exp.Unix()}, nil
}
