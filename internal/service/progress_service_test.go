package service

import (
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressService(t *testing.T) (*ProgressService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewProgressService(repository.NewCompletionRepository(db), repository.NewLessonRepository(db))
	return svc, db
}

func TestRecordCompletionIdempotent(t *testing.T) {
	svc, db := newProgressService(t)
	user := createTestUser(t, db, "learner@example.com", model.Learner)
	author := createTestUser(t, db, "author@example.com", model.Creator)
	lesson := createTestLesson(t, db, "course-1", author.ID)

	created, err := svc.RecordCompletion(user.ID, model.CompletionLesson, lesson.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// 重复完成直接成功，不新建也不报错
	created, err = svc.RecordCompletion(user.ID, model.CompletionLesson, lesson.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&model.CompletionRecord{}).
		Where("user_id = ? AND target_id = ?", user.ID, lesson.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordCompletionTypesAreIndependent(t *testing.T) {
	svc, db := newProgressService(t)
	user := createTestUser(t, db, "learner@example.com", model.Learner)

	// 同一targetID不同类型互不影响
	created, err := svc.RecordCompletion(user.ID, model.CompletionLesson, "target-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.RecordCompletion(user.ID, model.CompletionSlide, "target-1")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestGetCourseProgress(t *testing.T) {
	svc, db := newProgressService(t)
	user := createTestUser(t, db, "learner@example.com", model.Learner)
	author := createTestUser(t, db, "author@example.com", model.Creator)
	l1 := createTestLesson(t, db, "course-1", author.ID)
	createTestLesson(t, db, "course-1", author.ID)
	l3 := createTestLesson(t, db, "course-1", author.ID)
	createTestLesson(t, db, "course-2", author.ID) // 别的课程不计入

	_, err := svc.RecordCompletion(user.ID, model.CompletionLesson, l1.ID)
	require.NoError(t, err)
	_, err = svc.RecordCompletion(user.ID, model.CompletionLesson, l3.ID)
	require.NoError(t, err)

	progress, err := svc.GetCourseProgress(user.ID, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 3, progress.TotalLessons)
	assert.Equal(t, 2, progress.CompletedLessons)
	assert.InDelta(t, 66.66, progress.Percentage, 0.1)
	assert.False(t, progress.CourseCompleted)

	_, err = svc.RecordCompletion(user.ID, model.CompletionCourse, "course-1")
	require.NoError(t, err)

	progress, err = svc.GetCourseProgress(user.ID, "course-1")
	require.NoError(t, err)
	assert.True(t, progress.CourseCompleted)
	// 课程级完成不级联标记剩余课时
	assert.Equal(t, 2, progress.CompletedLessons)
}

func TestGetCourseProgressEmptyCourse(t *testing.T) {
	svc, db := newProgressService(t)
	user := createTestUser(t, db, "learner@example.com", model.Learner)

	progress, err := svc.GetCourseProgress(user.ID, "no-lessons")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalLessons)
	assert.Equal(t, float64(0), progress.Percentage)
}
