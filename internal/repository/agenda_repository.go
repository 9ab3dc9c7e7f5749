package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type AgendaRepository struct {
	DB *gorm.DB
}

func NewAgendaRepository(db *gorm.DB) *AgendaRepository {
	return &AgendaRepository{DB: db}
}

func (r *AgendaRepository) FindByMeeting(meetingID string) ([]model.AgendaItem, error) {
	var items []model.AgendaItem
	err := r.DB.Where("meeting_id = ?", meetingID).Order("position").Find(&items).Error
	return items, err
}

func (r *AgendaRepository) FindByID(id string) (*model.AgendaItem, error) {
	var item model.AgendaItem
	err := r.DB.Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *AgendaRepository) DeleteByMeeting(meetingID string) error {
	return r.DB.Where("meeting_id = ?", meetingID).Delete(&model.AgendaItem{}).Error
}

// Create 重建循环中逐条插入；调用路径不包事务，保持既有语义
func (r *AgendaRepository) Create(item *model.AgendaItem) error {
	return r.DB.Create(item).Error
}

func (r *AgendaRepository) UpdateStatus(id string, status model.AgendaStatus) error {
	return r.DB.Model(&model.AgendaItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}
