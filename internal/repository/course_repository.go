package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ?", id).First(&course).Error
	return &course, err
}

func (r *CourseRepository) FindByIDWithLessons(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("id = ?", id).First(&course).Error
	return &course, err
}

func (r *CourseRepository) FindByChannel(channelID string, publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.Where("channel_id = ?", channelID)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	q := r.DB.Model(&model.Course{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Course{}).Error
}

// FindRating 查评分，不存在返回 gorm.ErrRecordNotFound
func (r *CourseRepository) FindRating(userID uint, courseID string) (*model.CourseRating, error) {
	var rating model.CourseRating
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&rating).Error
	return &rating, err
}

func (r *CourseRepository) SaveRating(rating *model.CourseRating) error {
	return r.DB.Save(rating).Error
}

func (r *CourseRepository) RatingSummary(courseID string) (avg float64, count int64, err error) {
	err = r.DB.Model(&model.CourseRating{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil || count == 0 {
		return 0, count, err
	}
	err = r.DB.Model(&model.CourseRating{}).
		Where("course_id = ?", courseID).
		Select("AVG(stars)").
		Scan(&avg).Error
	return avg, count, err
}
