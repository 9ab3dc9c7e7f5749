package service

import (
	"errors"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo  *repository.CourseRepository
	ChannelRepo *repository.ChannelRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, channelRepo *repository.ChannelRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, ChannelRepo: channelRepo}
}

type CourseInput struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Thumbnail   string            `json:"thumbnail"`
	AccessLevel model.AccessLevel `json:"accessLevel"`
	ChannelID   string            `json:"channelId" binding:"required"`
}

func (s *CourseService) Create(userID uint, input CourseInput) (*model.Course, error) {
	channel, err := s.ChannelRepo.FindByID(input.ChannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChannelNotFound
		}
		return nil, err
	}
	if channel.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	level := input.AccessLevel
	if level == "" {
		level = model.AccessPublic
	}

	course := &model.Course{
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		AccessLevel: level,
		ChannelID:   input.ChannelID,
		UserID:      userID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Get(id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListByChannel(channelID string, includeUnpublished bool) ([]model.Course, error) {
	return s.CourseRepo.FindByChannel(channelID, !includeUnpublished)
}

func (s *CourseService) List(page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(page, limit, true)
}

func (s *CourseService) Update(userID uint, id string, input CourseInput, published *bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if input.AccessLevel != "" {
		course.AccessLevel = input.AccessLevel
	}
	if published != nil {
		course.Published = *published
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(userID uint, id string) error {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.CourseRepo.Delete(id)
}

// Rate 同一用户重复评分时覆盖旧记录
func (s *CourseService) Rate(userID uint, courseID string, stars int, review string) error {
	if stars < 1 || stars > 5 {
		return errors.New("stars must be between 1 and 5")
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	rating, err := s.CourseRepo.FindRating(userID, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rating = &model.CourseRating{UserID: userID, CourseID: courseID}
	}
	rating.Stars = stars
	rating.Review = review

	return s.CourseRepo.SaveRating(rating)
}

func (s *CourseService) RatingSummary(courseID string) (float64, int64, error) {
	return s.CourseRepo.RatingSummary(courseID)
}
