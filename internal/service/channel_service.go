package service

import (
	"errors"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"gorm.io/gorm"
)

type ChannelService struct {
	ChannelRepo *repository.ChannelRepository
}

func NewChannelService(channelRepo *repository.ChannelRepository) *ChannelService {
	return &ChannelService{ChannelRepo: channelRepo}
}

func (s *ChannelService) Create(userID uint, name, description, thumbnail string) (*model.Channel, error) {
	channel := &model.Channel{
		Name:        name,
		Description: description,
		Thumbnail:   thumbnail,
		UserID:      userID,
	}
	if err := s.ChannelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) Get(id string) (*model.Channel, error) {
	channel, err := s.ChannelRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChannelNotFound
		}
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) ListOwn(userID uint) ([]model.Channel, error) {
	return s.ChannelRepo.FindByOwner(userID)
}

func (s *ChannelService) List(page, limit int) ([]model.Channel, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ChannelRepo.List(page, limit)
}

func (s *ChannelService) Update(userID uint, id, name, description, thumbnail string) (*model.Channel, error) {
	channel, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if channel.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	if name != "" {
		channel.Name = name
	}
	if description != "" {
		channel.Description = description
	}
	if thumbnail != "" {
		channel.Thumbnail = thumbnail
	}

	if err := s.ChannelRepo.Update(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) Delete(userID uint, id string) error {
	channel, err := s.Get(id)
	if err != nil {
		return err
	}
	if channel.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.ChannelRepo.Delete(id)
}

// Subscribe 先查后插；唯一索引兜底并发下的重复订阅
func (s *ChannelService) Subscribe(userID uint, channelID string) error {
	if _, err := s.Get(channelID); err != nil {
		return err
	}

	_, err := s.ChannelRepo.FindSubscription(userID, channelID)
	if err == nil {
		return util.ErrAlreadySubscribed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.ChannelRepo.CreateSubscription(&model.Subscription{
		UserID:    userID,
		ChannelID: channelID,
	})
}

func (s *ChannelService) Unsubscribe(userID uint, channelID string) error {
	return s.ChannelRepo.DeleteSubscription(userID, channelID)
}

func (s *ChannelService) SubscriberCount(channelID string) (int64, error) {
	return s.ChannelRepo.CountSubscribers(channelID)
}
