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

func newLessonService(t *testing.T) (*LessonService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewLessonService(repository.NewLessonRepository(db), repository.NewCourseRepository(db), repository.NewUploadRepository(db), nil)
	return svc, db
}

func TestVideoUploadRecordMetadata(t *testing.T) {
	info := &util.VideoInfo{Duration: 93.5, Width: 1920, Height: 1080}
	record := videoUploadRecord("lessons/l1/x.mp4", "讲解.mp4", "video/mp4", 2048, "https://oss.example.com/x.mp4", 7, info)

	assert.Equal(t, 93.5, record.Duration)
	assert.Equal(t, 1920, record.Width)
	assert.Equal(t, 1080, record.Height)
	assert.Equal(t, uint(7), record.UploaderID)

	// 探测失败时元数据保持零值，登记行照常写
	record = videoUploadRecord("lessons/l1/y.mp4", "讲解.mp4", "video/mp4", 2048, "https://oss.example.com/y.mp4", 7, nil)
	assert.Zero(t, record.Duration)
	assert.Zero(t, record.Width)
	assert.Zero(t, record.Height)
}

func TestLessonCreateOwnership(t *testing.T) {
	svc, db := newLessonService(t)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	other := createTestUser(t, db, "other@example.com", model.Creator)
	course := createTestCourse(t, db, owner.ID)

	_, err := svc.Create(other.ID, LessonInput{Title: "蹭课", CourseID: course.ID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Create(owner.ID, LessonInput{Title: "无课程", CourseID: "missing"})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	lesson, err := svc.Create(owner.ID, LessonInput{Title: "并发模型", CourseID: course.ID, Position: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, lesson.Position)
	assert.Equal(t, owner.ID, lesson.UserID)
}

func TestRecordViewAllowsDuplicates(t *testing.T) {
	svc, db := newLessonService(t)
	viewer := createTestUser(t, db, "viewer@example.com", model.Learner)
	author := createTestUser(t, db, "author@example.com", model.Creator)
	lesson := createTestLesson(t, db, "course-1", author.ID)

	require.NoError(t, svc.RecordView(viewer.ID, lesson.ID))
	require.NoError(t, svc.RecordView(viewer.ID, lesson.ID))

	// 观看不去重，一次观看一条记录
	count, err := repository.NewLessonRepository(db).CountViews(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.ErrorIs(t, svc.RecordView(viewer.ID, "missing"), util.ErrLessonNotFound)
}

func TestToggleLike(t *testing.T) {
	svc, db := newLessonService(t)
	fan := createTestUser(t, db, "fan@example.com", model.Learner)
	author := createTestUser(t, db, "author@example.com", model.Creator)
	lesson := createTestLesson(t, db, "course-1", author.ID)

	liked, err := svc.ToggleLike(fan.ID, lesson.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLike(fan.ID, lesson.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	var count int64
	require.NoError(t, db.Model(&model.LessonLike{}).
		Where("lesson_id = ?", lesson.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCommentsSurviveSlideRebuild(t *testing.T) {
	svc, db := newLessonService(t)
	commenter := createTestUser(t, db, "commenter@example.com", model.Learner)
	author := createTestUser(t, db, "author@example.com", model.Creator)
	lesson := createTestLesson(t, db, "course-1", author.ID)

	slides := NewSlideService(repository.NewSlideRepository(db), repository.NewLessonRepository(db), db)
	_, err := slides.SaveSlides(author.ID, lesson.ID, []SlideInput{{Title: "第一页"}})
	require.NoError(t, err)

	persisted, err := slides.GetSlides(lesson.ID)
	require.NoError(t, err)

	_, err = svc.Comment(commenter.ID, lesson.ID, persisted[0].ID, "这页讲得好")
	require.NoError(t, err)

	_, err = svc.Comment(commenter.ID, lesson.ID, "", "")
	assert.Error(t, err)

	// 幻灯片整体重建后评论保留，只是锚点失效
	_, err = slides.SaveSlides(author.ID, lesson.ID, []SlideInput{{Title: "重写的一页"}})
	require.NoError(t, err)

	comments, err := svc.Comments(lesson.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "这页讲得好", comments[0].Content)
	assert.Equal(t, persisted[0].ID, comments[0].FinalSlideID)
}
