package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
)

func newAuth(t *testing.T) *authService {
	t.Helper()
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	return NewAuthService(AuthConfig{
		Secret:       "test-secret",
		TokenTTL:     30 * time.Minute,
		Username:     "coordinator",
		PasswordHash: hash,
	}).(*authService)
}

func TestLoginIssuesStaffToken(t *testing.T) {
	svc := newAuth(t)
	now := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return now }

	tok, err := svc.Login(context.Background(), "coordinator", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute).Unix(), tok.ExpiresAt)

	claims := &models.StaffClaims{}
	parsed, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "coordinator", claims.Subject)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "coordinator", "wrong")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Login(ctx, "someone", "correct horse")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestLoginNotConfigured(t *testing.T) {
	svc := NewAuthService(AuthConfig{Username: "staff"})
	_, err := svc.Login(context.Background(), "staff", "pw")
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 503, utils.HTTPStatus(err))
}
