package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) FindByID(id string) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.Where("id = ?", id).First(&n).Error
	return &n, err
}

// FindByCourse 置顶优先，其余按创建时间倒序
func (r *NotificationRepository) FindByCourse(courseID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.Where("course_id = ?", courseID).
		Order("is_pinned DESC").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) Update(n *model.Notification) error {
	return r.DB.Save(n).Error
}

func (r *NotificationRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Notification{}).Error
}

// FindView 查已读回执，不存在返回 gorm.ErrRecordNotFound
func (r *NotificationRepository) FindView(notificationID string, userID uint) (*model.NotificationView, error) {
	var view model.NotificationView
	err := r.DB.Where("notification_id = ? AND user_id = ?", notificationID, userID).First(&view).Error
	return &view, err
}

func (r *NotificationRepository) CreateView(view *model.NotificationView) error {
	return r.DB.Create(view).Error
}

// ViewedIDs 返回用户在给定公告集合中已读的id
func (r *NotificationRepository) ViewedIDs(userID uint, notificationIDs []string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.NotificationView{}).
		Where("user_id = ? AND notification_id IN ?", userID, notificationIDs).
		Pluck("notification_id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) UnreadCount(userID uint, courseID string) (int64, error) {
	viewed := r.DB.Model(&model.NotificationView{}).
		Select("notification_id").
		Where("user_id = ?", userID)

	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("course_id = ? AND id NOT IN (?)", courseID, viewed).
		Count(&count).Error
	return count, err
}
