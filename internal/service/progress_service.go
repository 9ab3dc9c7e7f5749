package service

import (
	"errors"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"

	"gorm.io/gorm"
)

type ProgressService struct {
	CompletionRepo *repository.CompletionRepository
	LessonRepo     *repository.LessonRepository
}

func NewProgressService(completionRepo *repository.CompletionRepository, lessonRepo *repository.LessonRepository) *ProgressService {
	return &ProgressService{
		CompletionRepo: completionRepo,
		LessonRepo:     lessonRepo,
	}
}

// RecordCompletion 记录用户完成了一个课时/幻灯片/课程。
// 先查后插：已有COMPLETED记录时直接成功返回，不更新不报错。
// 不校验userID是否真实存在（沿用宽松语义）；唯一索引兜底并发下的重复写入。
// 返回是否新建了记录。
func (s *ProgressService) RecordCompletion(userID uint, ctype model.CompletionType, targetID string) (bool, error) {
	_, err := s.CompletionRepo.FindCompleted(userID, ctype, targetID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	record := &model.CompletionRecord{
		UserID:   userID,
		Type:     ctype,
		TargetID: targetID,
		Level:    model.LevelCompleted,
	}
	if err := s.CompletionRepo.Create(record); err != nil {
		return false, err
	}
	return true, nil
}

// CourseProgress 课程进度汇总。完成度不会级联重算，调用方按需聚合。
type CourseProgress struct {
	CourseID         string  `json:"courseId"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	Percentage       float64 `json:"percentage"`
	CourseCompleted  bool    `json:"courseCompleted"`
}

// GetCourseProgress 聚合用户在课程内的课时完成记录，计算百分比
func (s *ProgressService) GetCourseProgress(userID uint, courseID string) (*CourseProgress, error) {
	lessons, err := s.LessonRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	progress := &CourseProgress{
		CourseID:     courseID,
		TotalLessons: len(lessons),
	}

	if len(lessons) > 0 {
		ids := make([]string, len(lessons))
		for i, l := range lessons {
			ids[i] = l.ID
		}

		completed, err := s.CompletionRepo.CompletedTargets(userID, model.CompletionLesson, ids)
		if err != nil {
			return nil, err
		}
		progress.CompletedLessons = len(completed)
		progress.Percentage = float64(progress.CompletedLessons) / float64(progress.TotalLessons) * 100
	}

	_, err = s.CompletionRepo.FindCompleted(userID, model.CompletionCourse, courseID)
	if err == nil {
		progress.CourseCompleted = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return progress, nil
}

// CompletionCount 某个目标的总完成人数，供创作者分析使用
func (s *ProgressService) CompletionCount(ctype model.CompletionType, targetID string) (int64, error) {
	return s.CompletionRepo.CountCompleted(ctype, targetID)
}

func (s *ProgressService) RecentCompletions(userID uint, ctype model.CompletionType) ([]model.CompletionRecord, error) {
	return s.CompletionRepo.FindByUser(userID, ctype)
}
