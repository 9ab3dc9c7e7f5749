package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type SlideRepository struct {
	DB *gorm.DB
}

func NewSlideRepository(db *gorm.DB) *SlideRepository {
	return &SlideRepository{DB: db}
}

// FindByLesson 返回课时下全部幻灯片及其内容块，按持久化顺序排列
func (r *SlideRepository) FindByLesson(lessonID string) ([]model.FinalSlide, error) {
	var slides []model.FinalSlide
	err := r.DB.Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Where("lesson_id = ?", lessonID).
		Order("position").
		Find(&slides).Error
	return slides, err
}

// DeleteByLesson 删除课时下全部幻灯片与内容块，供整体重建使用；必须在事务内调用
func (r *SlideRepository) DeleteByLesson(tx *gorm.DB, lessonID string) error {
	var ids []string
	if err := tx.Model(&model.FinalSlide{}).
		Where("lesson_id = ?", lessonID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}

	if len(ids) > 0 {
		if err := tx.Where("final_slide_id IN ?", ids).Delete(&model.Note{}).Error; err != nil {
			return err
		}
	}

	return tx.Where("lesson_id = ?", lessonID).Delete(&model.FinalSlide{}).Error
}

func (r *SlideRepository) CreateSlide(tx *gorm.DB, slide *model.FinalSlide) error {
	return tx.Create(slide).Error
}

func (r *SlideRepository) CreateNote(tx *gorm.DB, note *model.Note) error {
	return tx.Create(note).Error
}

func (r *SlideRepository) CountByLesson(lessonID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.FinalSlide{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}
