package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheTTL = 5 * time.Minute

type AnalyticsService struct {
	ChannelRepo    *repository.ChannelRepository
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	CompletionRepo *repository.CompletionRepository
	MeetingRepo    *repository.MeetingRepository
	Redis          *redis.Client
}

func NewAnalyticsService(
	channelRepo *repository.ChannelRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	completionRepo *repository.CompletionRepository,
	meetingRepo *repository.MeetingRepository,
	rdb *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		ChannelRepo:    channelRepo,
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		CompletionRepo: completionRepo,
		MeetingRepo:    meetingRepo,
		Redis:          rdb,
	}
}

// CourseStats 单门课程的创作者视角统计
type CourseStats struct {
	CourseID       string  `json:"courseId"`
	Title          string  `json:"title"`
	TotalLessons   int64   `json:"totalLessons"`
	TotalViews     int64   `json:"totalViews"`
	Completions    int64   `json:"completions"`
	AverageRating  float64 `json:"averageRating"`
	RatingCount    int64   `json:"ratingCount"`
	CompletionRate float64 `json:"completionRate"`
}

// CreatorDashboard 创作者仪表盘聚合
type CreatorDashboard struct {
	TotalChannels    int     `json:"totalChannels"`
	TotalSubscribers int64   `json:"totalSubscribers"`
	TotalCourses     int     `json:"totalCourses"`
	Courses          []CourseStats `json:"courses"`
}

// GetCreatorDashboard 聚合创作者所有频道和课程的统计，Redis缓存5分钟
func (s *AnalyticsService) GetCreatorDashboard(userID uint) (*CreatorDashboard, error) {
	cacheKey := cacheKeyCreator(userID)
	if cached := s.fromCache(cacheKey); cached != nil {
		var dash CreatorDashboard
		if err := json.Unmarshal(cached, &dash); err == nil {
			return &dash, nil
		}
	}

	channels, err := s.ChannelRepo.FindByOwner(userID)
	if err != nil {
		return nil, err
	}

	dash := &CreatorDashboard{
		TotalChannels: len(channels),
		Courses:       []CourseStats{},
	}

	for _, ch := range channels {
		subs, err := s.ChannelRepo.CountSubscribers(ch.ID)
		if err != nil {
			return nil, err
		}
		dash.TotalSubscribers += subs

		courses, err := s.CourseRepo.FindByChannel(ch.ID, false)
		if err != nil {
			return nil, err
		}
		dash.TotalCourses += len(courses)

		for _, course := range courses {
			stats, err := s.courseStats(course)
			if err != nil {
				return nil, err
			}
			dash.Courses = append(dash.Courses, *stats)
		}
	}

	s.toCache(cacheKey, dash)
	return dash, nil
}

func (s *AnalyticsService) courseStats(course model.Course) (*CourseStats, error) {
	lessons, err := s.LessonRepo.FindByCourse(course.ID)
	if err != nil {
		return nil, err
	}

	var totalViews int64
	for _, lesson := range lessons {
		views, err := s.LessonRepo.CountViews(lesson.ID)
		if err != nil {
			return nil, err
		}
		totalViews += views
	}

	completions, err := s.CompletionRepo.CountCompleted(model.CompletionCourse, course.ID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.CourseRepo.RatingSummary(course.ID)
	if err != nil {
		return nil, err
	}

	var completionRate float64
	if totalViews > 0 {
		completionRate = float64(completions) / float64(totalViews) * 100
	}

	return &CourseStats{
		CourseID:       course.ID,
		Title:          course.Title,
		TotalLessons:   int64(len(lessons)),
		TotalViews:     totalViews,
		Completions:    completions,
		AverageRating:  avg,
		RatingCount:    count,
		CompletionRate: completionRate,
	}, nil
}

// LearnerDashboard 学习者视角的进度汇总
type LearnerDashboard struct {
	LessonsCompleted int64            `json:"lessonsCompleted"`
	SlidesCompleted  int64            `json:"slidesCompleted"`
	CoursesCompleted int64            `json:"coursesCompleted"`
	UpcomingMeetings []model.Meeting  `json:"upcomingMeetings"`
	RecentActivity   []model.CompletionRecord `json:"recentActivity"`
}

func (s *AnalyticsService) GetLearnerDashboard(userID uint) (*LearnerDashboard, error) {
	dash := &LearnerDashboard{
		UpcomingMeetings: []model.Meeting{},
		RecentActivity:   []model.CompletionRecord{},
	}

	for _, ctype := range []model.CompletionType{model.CompletionLesson, model.CompletionSlide, model.CompletionCourse} {
		records, err := s.CompletionRepo.FindByUser(userID, ctype)
		if err != nil {
			return nil, err
		}
		switch ctype {
		case model.CompletionLesson:
			dash.LessonsCompleted = int64(len(records))
		case model.CompletionSlide:
			dash.SlidesCompleted = int64(len(records))
		case model.CompletionCourse:
			dash.CoursesCompleted = int64(len(records))
		}
		if len(records) > 0 {
			dash.RecentActivity = append(dash.RecentActivity, records...)
		}
	}
	if len(dash.RecentActivity) > 10 {
		dash.RecentActivity = dash.RecentActivity[:10]
	}

	meetings, err := s.MeetingRepo.FindForUser(userID, true)
	if err != nil {
		return nil, err
	}
	dash.UpcomingMeetings = append(dash.UpcomingMeetings, meetings...)

	return dash, nil
}

func cacheKeyCreator(userID uint) string {
	return fmt.Sprintf("dashboard:creator:%d", userID)
}

func (s *AnalyticsService) fromCache(key string) []byte {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *AnalyticsService) toCache(key string, v interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), key, data, dashboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache dashboard", zap.Error(err))
	}
}
