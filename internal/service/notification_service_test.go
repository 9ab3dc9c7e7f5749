package service

import (
	"strings"
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewCourseRepository(db), nil)
	return svc, db
}

func createTestCourse(t *testing.T, db *gorm.DB, ownerID uint) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:     "Go进阶",
		ChannelID: "channel-1",
		UserID:    ownerID,
		Published: true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestNotificationCreate(t *testing.T) {
	svc, db := newNotificationService(t)
	author := createTestUser(t, db, "creator@example.com", model.Creator)
	course := createTestCourse(t, db, author.ID)

	n, err := svc.Create(author.ID, NotificationInput{
		Title:    "下周停课",
		Content:  "国庆假期暂停直播一周",
		CourseID: course.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, n.AuthorID)
	// 未提供时落默认值
	assert.Equal(t, model.NotifyNormal, n.Priority)
	assert.Equal(t, model.AccessPublic, n.TargetedAudience)

	_, err = svc.Create(author.ID, NotificationInput{
		Title:    "无主公告",
		Content:  "内容",
		CourseID: "missing-course",
	})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestNotificationLengthBoundaries(t *testing.T) {
	svc, db := newNotificationService(t)
	author := createTestUser(t, db, "creator@example.com", model.Creator)
	course := createTestCourse(t, db, author.ID)

	// 边界按rune数而不是byte数，多字节标题恰好200字合法
	title200 := strings.Repeat("课", model.NotificationTitleMax)
	content5000 := strings.Repeat("正", model.NotificationContentMax)

	_, err := svc.Create(author.ID, NotificationInput{Title: title200, Content: content5000, CourseID: course.ID})
	assert.NoError(t, err)

	_, err = svc.Create(author.ID, NotificationInput{Title: title200 + "超", Content: "内容", CourseID: course.ID})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")

	_, err = svc.Create(author.ID, NotificationInput{Title: "标题", Content: content5000 + "超", CourseID: course.ID})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "content")

	_, err = svc.Create(author.ID, NotificationInput{CourseID: course.ID})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
	assert.Contains(t, vErr.Fields, "content")
}

func TestMarkViewedIdempotent(t *testing.T) {
	svc, db := newNotificationService(t)
	author := createTestUser(t, db, "creator@example.com", model.Creator)
	reader := createTestUser(t, db, "reader@example.com", model.Learner)
	course := createTestCourse(t, db, author.ID)

	n, err := svc.Create(author.ID, NotificationInput{Title: "公告", Content: "内容", CourseID: course.ID})
	require.NoError(t, err)

	res, err := svc.MarkViewed(n.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyViewed)

	res, err = svc.MarkViewed(n.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyViewed)

	var count int64
	require.NoError(t, db.Model(&model.NotificationView{}).
		Where("notification_id = ? AND user_id = ?", n.ID, reader.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = svc.MarkViewed("missing", reader.ID)
	assert.ErrorIs(t, err, util.ErrNotificationNotFound)
}

func TestListForCourseViewedState(t *testing.T) {
	svc, db := newNotificationService(t)
	author := createTestUser(t, db, "creator@example.com", model.Creator)
	reader := createTestUser(t, db, "reader@example.com", model.Learner)
	course := createTestCourse(t, db, author.ID)

	first, err := svc.Create(author.ID, NotificationInput{Title: "一号", Content: "内容", CourseID: course.ID})
	require.NoError(t, err)
	_, err = svc.Create(author.ID, NotificationInput{Title: "二号", Content: "内容", CourseID: course.ID})
	require.NoError(t, err)

	_, err = svc.MarkViewed(first.ID, reader.ID)
	require.NoError(t, err)

	list, err := svc.ListForCourse(reader.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]bool{}
	for _, item := range list {
		byID[item.ID] = item.Viewed
	}
	assert.True(t, byID[first.ID])

	unread, err := svc.UnreadCount(reader.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	_, err = svc.ListForCourse(reader.ID, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestTogglePinAuthorOnly(t *testing.T) {
	svc, db := newNotificationService(t)
	author := createTestUser(t, db, "creator@example.com", model.Creator)
	other := createTestUser(t, db, "other@example.com", model.Creator)
	course := createTestCourse(t, db, author.ID)

	n, err := svc.Create(author.ID, NotificationInput{Title: "置顶我", Content: "内容", CourseID: course.ID})
	require.NoError(t, err)
	assert.False(t, n.IsPinned)

	pinned, err := svc.TogglePin(author.ID, n.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	unpinned, err := svc.TogglePin(author.ID, n.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	_, err = svc.TogglePin(other.ID, n.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
