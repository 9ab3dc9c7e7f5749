package service

import (
	"context"
	"errors"
	"fmt"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	CourseRepo       *repository.CourseRepository
	Redis            *redis.Client
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, courseRepo *repository.CourseRepository, rdb *redis.Client) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		CourseRepo:       courseRepo,
		Redis:            rdb,
	}
}

type NotificationInput struct {
	Title            string                     `json:"title"`
	Content          string                     `json:"content"`
	Priority         model.NotificationPriority `json:"priority"`
	IsPinned         bool                       `json:"isPinned"`
	Category         string                     `json:"category"`
	TargetedAudience model.AccessLevel          `json:"targetedAudience"`
	CourseID         string                     `json:"courseId"`
}

// Validate 标题/正文存在性和长度在action边界校验，200/5000含边界
func (in *NotificationInput) Validate() util.FieldErrors {
	errs := util.FieldErrors{}
	if in.Title == "" {
		errs["title"] = "title is required"
	} else if len([]rune(in.Title)) > model.NotificationTitleMax {
		errs["title"] = fmt.Sprintf("title must be at most %d characters", model.NotificationTitleMax)
	}
	if in.Content == "" {
		errs["content"] = "content is required"
	} else if len([]rune(in.Content)) > model.NotificationContentMax {
		errs["content"] = fmt.Sprintf("content must be at most %d characters", model.NotificationContentMax)
	}
	if in.Priority != "" && !model.ValidNotificationPriority(in.Priority) {
		errs["priority"] = "priority must be one of LOW, NORMAL, HIGH, URGENT"
	}
	if in.CourseID == "" {
		errs["courseId"] = "courseId is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Create 作者取会话里的身份而非请求体，杜绝伪造作者；课程必须存在
func (s *NotificationService) Create(authorID uint, input NotificationInput) (*model.Notification, error) {
	if errs := input.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.CourseRepo.FindByID(input.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.NotifyNormal
	}
	audience := input.TargetedAudience
	if audience == "" {
		audience = model.AccessPublic
	}

	n := &model.Notification{
		Title:            input.Title,
		Content:          input.Content,
		Priority:         priority,
		IsPinned:         input.IsPinned,
		Category:         input.Category,
		TargetedAudience: audience,
		AuthorID:         authorID,
		CourseID:         input.CourseID,
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		return nil, err
	}

	s.invalidateCaches(input.CourseID)
	return n, nil
}

// invalidateCaches 新公告后失效仪表盘和课程列表缓存
func (s *NotificationService) invalidateCaches(courseID string) {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	if err := s.Redis.Del(ctx, "dashboard:notifications", "course:notifications:"+courseID).Err(); err != nil {
		logger.Log.Warn("failed to invalidate notification caches", zap.Error(err))
	}
}

// NotificationWithState 列表项带上当前用户的已读标记
type NotificationWithState struct {
	model.Notification
	Viewed bool `json:"viewed"`
}

func (s *NotificationService) ListForCourse(userID uint, courseID string) ([]NotificationWithState, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	list, err := s.NotificationRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []NotificationWithState{}, nil
	}

	ids := make([]string, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	viewedIDs, err := s.NotificationRepo.ViewedIDs(userID, ids)
	if err != nil {
		return nil, err
	}
	viewed := make(map[string]bool, len(viewedIDs))
	for _, id := range viewedIDs {
		viewed[id] = true
	}

	out := make([]NotificationWithState, len(list))
	for i, n := range list {
		out[i] = NotificationWithState{Notification: n, Viewed: viewed[n.ID]}
	}
	return out, nil
}

// MarkViewedResult 区分"本次新建回执"和"之前就已读"
type MarkViewedResult struct {
	AlreadyViewed bool `json:"alreadyViewed"`
}

// MarkViewed 幂等：先查后插，两条路径都返回成功。
// 唯一索引兜底并发下的重复回执。
func (s *NotificationService) MarkViewed(notificationID string, userID uint) (*MarkViewedResult, error) {
	if _, err := s.NotificationRepo.FindByID(notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotificationNotFound
		}
		return nil, err
	}

	_, err := s.NotificationRepo.FindView(notificationID, userID)
	if err == nil {
		return &MarkViewedResult{AlreadyViewed: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	view := &model.NotificationView{
		NotificationID: notificationID,
		UserID:         userID,
	}
	if err := s.NotificationRepo.CreateView(view); err != nil {
		return nil, err
	}
	return &MarkViewedResult{AlreadyViewed: false}, nil
}

// TogglePin 仅作者可置顶/取消置顶
func (s *NotificationService) TogglePin(userID uint, notificationID string) (*model.Notification, error) {
	n, err := s.NotificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotificationNotFound
		}
		return nil, err
	}
	if n.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}

	n.IsPinned = !n.IsPinned
	if err := s.NotificationRepo.Update(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) UnreadCount(userID uint, courseID string) (int64, error) {
	return s.NotificationRepo.UnreadCount(userID, courseID)
}
