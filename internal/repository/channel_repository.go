package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type ChannelRepository struct {
	DB *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{DB: db}
}

func (r *ChannelRepository) Create(channel *model.Channel) error {
	return r.DB.Create(channel).Error
}

func (r *ChannelRepository) FindByID(id string) (*model.Channel, error) {
	var channel model.Channel
	err := r.DB.Where("id = ?", id).First(&channel).Error
	return &channel, err
}

func (r *ChannelRepository) FindByOwner(userID uint) ([]model.Channel, error) {
	var channels []model.Channel
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&channels).Error
	return channels, err
}

func (r *ChannelRepository) List(page, limit int) ([]model.Channel, int64, error) {
	var channels []model.Channel
	var total int64

	if err := r.DB.Model(&model.Channel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&channels).Error
	return channels, total, err
}

func (r *ChannelRepository) Update(channel *model.Channel) error {
	return r.DB.Save(channel).Error
}

func (r *ChannelRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Channel{}).Error
}

// FindSubscription 查订阅关系，不存在返回 gorm.ErrRecordNotFound
func (r *ChannelRepository) FindSubscription(userID uint, channelID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.DB.Where("user_id = ? AND channel_id = ?", userID, channelID).First(&sub).Error
	return &sub, err
}

func (r *ChannelRepository) CreateSubscription(sub *model.Subscription) error {
	return r.DB.Create(sub).Error
}

func (r *ChannelRepository) DeleteSubscription(userID uint, channelID string) error {
	return r.DB.Where("user_id = ? AND channel_id = ?", userID, channelID).
		Delete(&model.Subscription{}).Error
}

func (r *ChannelRepository) CountSubscribers(channelID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}
