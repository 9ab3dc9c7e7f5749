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

func newCourseService(t *testing.T) (*CourseService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewCourseService(repository.NewCourseRepository(db), repository.NewChannelRepository(db)), db
}

func createTestChannel(t *testing.T, db *gorm.DB, ownerID uint) *model.Channel {
	t.Helper()
	channel := &model.Channel{Name: "测试频道", UserID: ownerID}
	require.NoError(t, db.Create(channel).Error)
	return channel
}

func TestCourseCreateRequiresChannelOwnership(t *testing.T) {
	svc, db := newCourseService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	other := createTestUser(t, db, "other@example.com", model.Creator)
	channel := createTestChannel(t, db, owner.ID)

	_, err := svc.Create(other.ID, CourseInput{Title: "蹭频道", ChannelID: channel.ID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Create(owner.ID, CourseInput{Title: "无频道", ChannelID: "missing"})
	assert.ErrorIs(t, err, util.ErrChannelNotFound)

	course, err := svc.Create(owner.ID, CourseInput{Title: "Go实战", ChannelID: channel.ID})
	require.NoError(t, err)
	// 默认公开、未发布
	assert.Equal(t, model.AccessPublic, course.AccessLevel)
	assert.False(t, course.Published)
}

func TestCoursePublishFilter(t *testing.T) {
	svc, db := newCourseService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	channel := createTestChannel(t, db, owner.ID)

	draft, err := svc.Create(owner.ID, CourseInput{Title: "草稿课", ChannelID: channel.ID})
	require.NoError(t, err)

	published := true
	_, err = svc.Update(owner.ID, draft.ID, CourseInput{}, &published)
	require.NoError(t, err)

	other, err := svc.Create(owner.ID, CourseInput{Title: "另一门草稿", ChannelID: channel.ID})
	require.NoError(t, err)

	visible, err := svc.ListByChannel(channel.ID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, draft.ID, visible[0].ID)

	all, err := svc.ListByChannel(channel.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_ = other
}

func TestCourseRateUpsert(t *testing.T) {
	svc, db := newCourseService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	fanA := createTestUser(t, db, "a@example.com", model.Learner)
	fanB := createTestUser(t, db, "b@example.com", model.Learner)
	channel := createTestChannel(t, db, owner.ID)

	course, err := svc.Create(owner.ID, CourseInput{Title: "Go实战", ChannelID: channel.ID})
	require.NoError(t, err)

	assert.Error(t, svc.Rate(fanA.ID, course.ID, 0, ""))
	assert.Error(t, svc.Rate(fanA.ID, course.ID, 6, ""))
	assert.ErrorIs(t, svc.Rate(fanA.ID, "missing", 5, ""), util.ErrCourseNotFound)

	require.NoError(t, svc.Rate(fanA.ID, course.ID, 5, "讲得好"))
	require.NoError(t, svc.Rate(fanB.ID, course.ID, 3, ""))

	avg, count, err := svc.RatingSummary(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 4.0, avg, 0.01)

	// 重复评分覆盖旧记录而不是新增
	require.NoError(t, svc.Rate(fanA.ID, course.ID, 1, "改主意了"))

	avg, count, err = svc.RatingSummary(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 2.0, avg, 0.01)
}
