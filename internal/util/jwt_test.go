package util

import (
	"testing"
	"time"
	"xtreme_region_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Name: "小红", Email: "hong@example.com", Role: model.Creator}
	user.ID = 42

	token, err := GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Creator, claims.Role)
	assert.Equal(t, "hong@example.com", claims.Email)

	// 密钥不对直接拒绝
	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Role: model.Learner}
	user.ID = 7

	token, err := GenerateJWT(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestActionTokenPurpose(t *testing.T) {
	token, err := GenerateActionToken(9, PurposeActivate, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseActionToken(token, PurposeActivate, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)

	// 激活令牌不能当重置令牌用
	_, err = ParseActionToken(token, PurposePasswordReset, testSecret)
	assert.Error(t, err)

	_, err = ParseActionToken("garbage", PurposeActivate, testSecret)
	assert.Error(t, err)
}
