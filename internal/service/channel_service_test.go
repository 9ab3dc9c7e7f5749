package service

import (
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChannelService(t *testing.T) (*ChannelService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewChannelService(repository.NewChannelRepository(db)), db
}

func TestChannelOwnership(t *testing.T) {
	svc, db := newChannelService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	other := createTestUser(t, db, "other@example.com", model.Creator)

	channel, err := svc.Create(owner.ID, "Go频道", "从入门到放弃", "")
	require.NoError(t, err)

	_, err = svc.Update(other.ID, channel.ID, "抢注", "", "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.Update(owner.ID, channel.ID, "Go频道·改", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Go频道·改", updated.Name)
	// 空字段不覆盖原值
	assert.Equal(t, "从入门到放弃", updated.Description)

	assert.ErrorIs(t, svc.Delete(other.ID, channel.ID), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(owner.ID, channel.ID))

	_, err = svc.Get(channel.ID)
	assert.ErrorIs(t, err, util.ErrChannelNotFound)
}

func TestSubscribe(t *testing.T) {
	svc, db := newChannelService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	fan := createTestUser(t, db, "fan@example.com", model.Learner)

	channel, err := svc.Create(owner.ID, "Go频道", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Subscribe(fan.ID, channel.ID))
	assert.ErrorIs(t, svc.Subscribe(fan.ID, channel.ID), util.ErrAlreadySubscribed)
	assert.ErrorIs(t, svc.Subscribe(fan.ID, "missing"), util.ErrChannelNotFound)

	count, err := svc.SubscriberCount(channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Unsubscribe(fan.ID, channel.ID))
	count, err = svc.SubscriberCount(channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 退订后可以再次订阅
	require.NoError(t, svc.Subscribe(fan.ID, channel.ID))
}

func TestChannelListPagination(t *testing.T) {
	svc, db := newChannelService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(owner.ID, "频道", "", "")
		require.NoError(t, err)
	}

	page, total, err := svc.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	// 非法分页参数回退到默认值
	page, total, err = svc.List(0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 3)
}
