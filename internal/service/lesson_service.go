package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	UploadRepo *repository.UploadRepository
	Storage    *StorageService
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, uploadRepo *repository.UploadRepository, storage *StorageService) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		UploadRepo: uploadRepo,
		Storage:    storage,
	}
}

type LessonInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CourseID    string `json:"courseId" binding:"required"`
	Position    int    `json:"position"`
}

func (s *LessonService) Create(userID uint, input LessonInput) (*model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(input.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	lesson := &model.Lesson{
		Title:       input.Title,
		Description: input.Description,
		CourseID:    input.CourseID,
		Position:    input.Position,
		UserID:      userID,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Get(id string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(courseID string) ([]model.Lesson, error) {
	return s.LessonRepo.FindByCourse(courseID)
}

func (s *LessonService) Update(userID uint, id string, input LessonInput) (*model.Lesson, error) {
	lesson, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if lesson.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Description != "" {
		lesson.Description = input.Description
	}
	if input.Position != 0 {
		lesson.Position = input.Position
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(userID uint, id string) error {
	lesson, err := s.Get(id)
	if err != nil {
		return err
	}
	if lesson.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.LessonRepo.Delete(id)
}

// UploadVideo 服务端代传课时视频：先落临时文件供ffmpeg探测时长，再写入对象存储
func (s *LessonService) UploadVideo(ctx context.Context, userID uint, lessonID string, fileHeader *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.Get(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "lesson-video-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	var info *util.VideoInfo
	if probed, err := util.ProbeVideo(tmp.Name()); err == nil {
		info = probed
		lesson.Duration = probed.Duration
	} else {
		// 探测失败不阻断上传
		logger.Log.Warn("video probe failed", zap.String("lesson_id", lessonID), zap.Error(err))
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("lessons/%s/%s%s", lessonID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	url, err := s.Storage.Upload(ctx, key, tmp, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}
	lesson.VideoURL = url

	// 抓帧封面失败不阻断上传
	if thumbURL, err := s.uploadThumbnail(ctx, lessonID, tmp.Name()); err == nil {
		lesson.Thumbnail = thumbURL
	} else {
		logger.Log.Warn("thumbnail generation failed", zap.String("lesson_id", lessonID), zap.Error(err))
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}

	// 登记上传元数据，失败仅记录
	if err := s.UploadRepo.Create(videoUploadRecord(key, fileHeader.Filename, mimeType, fileHeader.Size, url, userID, info)); err != nil {
		logger.Log.Warn("failed to record uploaded video", zap.String("lesson_id", lessonID), zap.Error(err))
	}

	return lesson, nil
}

func (s *LessonService) uploadThumbnail(ctx context.Context, lessonID, videoPath string) (string, error) {
	thumbPath := videoPath + ".jpg"
	defer os.Remove(thumbPath)

	if err := util.GenerateThumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		return "", err
	}

	f, err := os.Open(thumbPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("lessons/%s/%s-thumb.jpg", lessonID, uuid.New().String())
	return s.Storage.Upload(ctx, key, f, stat.Size(), "image/jpeg")
}

// videoUploadRecord 服务端代传视频的登记行，探测失败时元数据字段留零值
func videoUploadRecord(key, name, mimeType string, size int64, url string, uploaderID uint, info *util.VideoInfo) *model.UploadedFile {
	record := &model.UploadedFile{
		Key:         key,
		Name:        name,
		ContentType: mimeType,
		Size:        size,
		URL:         url,
		UploaderID:  uploaderID,
	}
	if info != nil {
		record.Duration = info.Duration
		record.Width = info.Width
		record.Height = info.Height
	}
	return record
}

// RecordView 观看记录允许重复
func (s *LessonService) RecordView(userID uint, lessonID string) error {
	if _, err := s.Get(lessonID); err != nil {
		return err
	}
	return s.LessonRepo.RecordView(&model.LessonView{UserID: userID, LessonID: lessonID})
}

// ToggleLike 已点赞则取消，未点赞则创建；返回当前是否点赞
func (s *LessonService) ToggleLike(userID uint, lessonID string) (bool, error) {
	if _, err := s.Get(lessonID); err != nil {
		return false, err
	}

	_, err := s.LessonRepo.FindLike(userID, lessonID)
	if err == nil {
		return false, s.LessonRepo.DeleteLike(userID, lessonID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	return true, s.LessonRepo.CreateLike(&model.LessonLike{UserID: userID, LessonID: lessonID})
}

// Comment 评论可锚定幻灯片id；幻灯片重建后锚点不再有效，列表照常返回
func (s *LessonService) Comment(userID uint, lessonID, finalSlideID, content string) (*model.SlideComment, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	if _, err := s.Get(lessonID); err != nil {
		return nil, err
	}

	comment := &model.SlideComment{
		UserID:       userID,
		LessonID:     lessonID,
		FinalSlideID: finalSlideID,
		Content:      content,
	}
	if err := s.LessonRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *LessonService) Comments(lessonID string) ([]model.SlideComment, error) {
	return s.LessonRepo.FindComments(lessonID)
}
