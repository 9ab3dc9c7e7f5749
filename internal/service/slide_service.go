package service

import (
	"context"
	"errors"
	"time"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"gorm.io/gorm"
)

// 幻灯片整体重建的时间预算，超时整体回滚
const slideSaveTimeout = 15 * time.Second

type SlideService struct {
	SlideRepo  *repository.SlideRepository
	LessonRepo *repository.LessonRepository
	DB         *gorm.DB
}

func NewSlideService(slideRepo *repository.SlideRepository, lessonRepo *repository.LessonRepository, db *gorm.DB) *SlideService {
	return &SlideService{
		SlideRepo:  slideRepo,
		LessonRepo: lessonRepo,
		DB:         db,
	}
}

type NoteInput struct {
	Content string         `json:"content"`
	Type    model.NoteType `json:"type"`
	Source  string         `json:"source"`
}

type SlideInput struct {
	Title string      `json:"title"`
	Notes []NoteInput `json:"notes"`
}

// SaveSlides 整体替换课时的幻灯片：删除全部旧数据后按输入顺序重建。
// 仅课时所有者可改。占位标题("", "Untitled")的幻灯片和占位内容
// ("", "New Slide")的内容块会被静默丢弃，返回实际持久化的幻灯片数量，
// 可能小于输入长度。整个替换在一个带15秒预算的事务里执行，
// 任何失败都回滚到调用前状态。
func (s *SlideService) SaveSlides(userID uint, lessonID string, slides []SlideInput) (int, error) {
	if len(slides) == 0 {
		return 0, util.ErrNoSlidesProvided
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrLessonNotFound
		}
		return 0, err
	}
	if lesson.UserID != userID {
		return 0, util.ErrPermissionDenied
	}

	ctx, cancel := context.WithTimeout(context.Background(), slideSaveTimeout)
	defer cancel()

	persisted := 0
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.SlideRepo.DeleteByLesson(tx, lessonID); err != nil {
			return err
		}

		for i, in := range slides {
			if in.Title == "" || in.Title == util.PlaceholderSlideTitle {
				continue
			}

			slide := &model.FinalSlide{
				Title:    in.Title,
				LessonID: lessonID,
				Position: i,
			}
			if err := s.SlideRepo.CreateSlide(tx, slide); err != nil {
				return err
			}
			persisted++

			for j, n := range in.Notes {
				if n.Content == "" || n.Content == util.PlaceholderNoteText {
					continue
				}

				noteType := n.Type
				if noteType == "" {
					noteType = model.NoteText
				}

				note := &model.Note{
					Content:      n.Content,
					Type:         noteType,
					Source:       n.Source,
					FinalSlideID: slide.ID,
					Order:        j, // 按输入数组位置持久化顺序
				}
				if err := s.SlideRepo.CreateNote(tx, note); err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}
	return persisted, nil
}

func (s *SlideService) GetSlides(lessonID string) ([]model.FinalSlide, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return s.SlideRepo.FindByLesson(lessonID)
}
