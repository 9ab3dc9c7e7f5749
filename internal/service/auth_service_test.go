package service

import (
	"testing"
	"time"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (*AuthService, *gorm.DB, *recordingSender) {
	t.Helper()
	db := setupTestDB(t)
	mail, sender := newTestMailService()
	cfg := &config.Config{}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.ExpireTime = time.Hour
	cfg.Session.MaxAgeDays = 7
	svc := NewAuthService(repository.NewUserRepository(db), mail, cfg)
	return svc, db, sender
}

func TestRegisterAndActivate(t *testing.T) {
	svc, db, sender := newAuthService(t)

	user := &model.User{Name: "小明", Email: "ming@example.com", Password: "plain-secret", Role: model.Learner}
	require.NoError(t, svc.Register(user))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "ming@example.com")

	var stored model.User
	require.NoError(t, db.Where("email = ?", "ming@example.com").First(&stored).Error)
	// 注册后未激活，密码只存哈希
	assert.False(t, stored.IsActive)
	assert.NotEqual(t, "plain-secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plain-secret")))

	// 激活前不允许登录
	_, _, err := svc.Login("ming@example.com", "plain-secret")
	assert.ErrorIs(t, err, util.ErrAccountInactive)

	token, err := util.GenerateActionToken(stored.ID, util.PurposeActivate, testJWTSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.Activate(token))

	signed, loggedIn, err := svc.Login("ming@example.com", "plain-secret")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, loggedIn.ID)

	claims, err := util.ParseJWT(signed, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, model.Learner, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)

	require.NoError(t, svc.Register(&model.User{Name: "甲", Email: "dup@example.com", Password: "pw", Role: model.Learner}))
	err := svc.Register(&model.User{Name: "乙", Email: "dup@example.com", Password: "pw", Role: model.Creator})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestActivateRejectsWrongToken(t *testing.T) {
	svc, db, _ := newAuthService(t)
	user := createTestUser(t, db, "someone@example.com", model.Learner)

	assert.ErrorIs(t, svc.Activate("not-a-token"), util.ErrInvalidToken)

	// 重置令牌不能用来激活
	reset, err := util.GenerateActionToken(user.ID, util.PurposePasswordReset, testJWTSecret, time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Activate(reset), util.ErrInvalidToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, _, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	require.NoError(t, svc.Register(&model.User{Name: "丙", Email: "c@example.com", Password: "right", Role: model.Learner}))
	_, _, err = svc.Login("c@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, db, sender := newAuthService(t)
	user := createTestUser(t, db, "reset@example.com", model.Learner)

	// 未注册邮箱静默成功，不发信也不暴露账号是否存在
	require.NoError(t, svc.RequestPasswordReset("ghost@example.com"))
	assert.Empty(t, sender.sent)

	require.NoError(t, svc.RequestPasswordReset(user.Email))
	assert.Len(t, sender.sent, 1)

	token, err := util.GenerateActionToken(user.ID, util.PurposePasswordReset, testJWTSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(token, "new-secret"))

	_, _, err = svc.Login(user.Email, "new-secret")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword("garbage", "x"), util.ErrInvalidToken)
}
