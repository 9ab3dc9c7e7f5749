package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("id = ?", id).First(&lesson).Error
	return &lesson, err
}

func (r *LessonRepository) FindByCourse(courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("position").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Lesson{}).Error
}

// RecordView 观看记录允许重复，纯追加
func (r *LessonRepository) RecordView(view *model.LessonView) error {
	return r.DB.Create(view).Error
}

func (r *LessonRepository) CountViews(lessonID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonView{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}

// FindLike 查点赞，不存在返回 gorm.ErrRecordNotFound
func (r *LessonRepository) FindLike(userID uint, lessonID string) (*model.LessonLike, error) {
	var like model.LessonLike
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&like).Error
	return &like, err
}

func (r *LessonRepository) CreateLike(like *model.LessonLike) error {
	return r.DB.Create(like).Error
}

func (r *LessonRepository) DeleteLike(userID uint, lessonID string) error {
	return r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&model.LessonLike{}).Error
}

func (r *LessonRepository) CreateComment(comment *model.SlideComment) error {
	return r.DB.Create(comment).Error
}

func (r *LessonRepository) FindComments(lessonID string) ([]model.SlideComment, error) {
	var comments []model.SlideComment
	err := r.DB.Where("lesson_id = ?", lessonID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}
