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

func newSlideService(t *testing.T) (*SlideService, *gorm.DB, *model.User, *model.Lesson) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewSlideService(repository.NewSlideRepository(db), repository.NewLessonRepository(db), db)
	owner := createTestUser(t, db, "owner@example.com", model.Creator)
	lesson := createTestLesson(t, db, "course-1", owner.ID)
	return svc, db, owner, lesson
}

func TestSaveSlidesEmptyInput(t *testing.T) {
	svc, _, owner, lesson := newSlideService(t)

	count, err := svc.SaveSlides(owner.ID, lesson.ID, nil)
	assert.ErrorIs(t, err, util.ErrNoSlidesProvided)
	assert.Equal(t, 0, count)

	// 空输入不产生任何写入
	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestSaveSlidesLessonNotFound(t *testing.T) {
	svc, _, owner, _ := newSlideService(t)

	_, err := svc.SaveSlides(owner.ID, "missing-lesson", []SlideInput{{Title: "开场"}})
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestSaveSlidesOwnerOnly(t *testing.T) {
	svc, db, owner, lesson := newSlideService(t)
	intruder := createTestUser(t, db, "intruder@example.com", model.Creator)

	_, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{{Title: "原始内容"}})
	require.NoError(t, err)

	// 其他创作者不能整体替换别人课时的幻灯片
	_, err = svc.SaveSlides(intruder.ID, lesson.ID, []SlideInput{{Title: "篡改内容"}})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "原始内容", slides[0].Title)
}

func TestSaveSlidesFiltersPlaceholders(t *testing.T) {
	svc, _, owner, lesson := newSlideService(t)

	count, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{
		{Title: "开场", Notes: []NoteInput{
			{Content: "欢迎"},
			{Content: "New Slide"}, // 占位内容被丢弃
			{Content: ""},
			{Content: "第二段"},
		}},
		{Title: "Untitled"}, // 占位标题被丢弃
		{Title: ""},
		{Title: "总结"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "开场", slides[0].Title)
	assert.Equal(t, "总结", slides[1].Title)

	// 内容块按输入数组位置排序，占位块被丢弃后顺序保留原下标
	require.Len(t, slides[0].Notes, 2)
	assert.Equal(t, "欢迎", slides[0].Notes[0].Content)
	assert.Equal(t, 0, slides[0].Notes[0].Order)
	assert.Equal(t, "第二段", slides[0].Notes[1].Content)
	assert.Equal(t, 3, slides[0].Notes[1].Order)
}

func TestSaveSlidesAllPlaceholders(t *testing.T) {
	svc, _, owner, lesson := newSlideService(t)

	// 全是占位内容：替换成功但持久化0张
	count, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{
		{Title: "Untitled"},
		{Title: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestSaveSlidesReplacesExisting(t *testing.T) {
	svc, _, owner, lesson := newSlideService(t)

	_, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{{Title: "旧版第一页"}, {Title: "旧版第二页"}})
	require.NoError(t, err)

	old, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, old, 2)

	count, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{{Title: "新版"}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "新版", slides[0].Title)
	// 整体重建后id与旧id无关
	assert.NotEqual(t, old[0].ID, slides[0].ID)
}

func TestSaveSlidesDefaultNoteType(t *testing.T) {
	svc, _, owner, lesson := newSlideService(t)

	_, err := svc.SaveSlides(owner.ID, lesson.ID, []SlideInput{
		{Title: "引言", Notes: []NoteInput{{Content: "正文"}}},
	})
	require.NoError(t, err)

	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, slides[0].Notes, 1)
	assert.Equal(t, model.NoteText, slides[0].Notes[0].Type)
}
