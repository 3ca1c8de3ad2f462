package service

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuth(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth := newTestAuth(t, db)

	user := &model.User{Name: "alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, auth.Register(user))
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, 1, user.Level)
	assert.NotEqual(t, "secret123", user.Password, "密码必须哈希落库")

	token, err := auth.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := newTestAuth(t, db)

	require.NoError(t, auth.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "secret123"}))
	err := auth.Register(&model.User{Name: "alice2", Email: "alice@example.com", Password: "secret456"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	auth := newTestAuth(t, db)

	require.NoError(t, auth.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "secret123"}))

	_, err := auth.Login("alice@example.com", "wrong")
	assert.Error(t, err)

	_, err = auth.Login("nobody@example.com", "secret123")
	assert.Error(t, err)
}
