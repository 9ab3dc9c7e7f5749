package database

import (
	"testing"
	"xtreme_region_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedisDisabledWithoutHost(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{})
	require.NoError(t, err)
	// 未配置host时按禁用处理，依赖方拿到nil客户端走降级路径
	assert.Nil(t, rdb)
}
