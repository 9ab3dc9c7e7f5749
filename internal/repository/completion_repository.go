package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// FindCompleted 查 (user, type, target) 的COMPLETED记录，不存在返回 gorm.ErrRecordNotFound
func (r *CompletionRepository) FindCompleted(userID uint, ctype model.CompletionType, targetID string) (*model.CompletionRecord, error) {
	var record model.CompletionRecord
	err := r.DB.Where("user_id = ? AND type = ? AND target_id = ? AND level = ?",
		userID, ctype, targetID, model.LevelCompleted).
		First(&record).Error
	return &record, err
}

func (r *CompletionRepository) Create(record *model.CompletionRecord) error {
	return r.DB.Create(record).Error
}

// CompletedTargets 返回用户在给定目标集合中已完成的target id
func (r *CompletionRepository) CompletedTargets(userID uint, ctype model.CompletionType, targetIDs []string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.CompletionRecord{}).
		Where("user_id = ? AND type = ? AND target_id IN ? AND level = ?",
			userID, ctype, targetIDs, model.LevelCompleted).
		Pluck("target_id", &ids).Error
	return ids, err
}

func (r *CompletionRepository) CountCompleted(ctype model.CompletionType, targetID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CompletionRecord{}).
		Where("type = ? AND target_id = ? AND level = ?", ctype, targetID, model.LevelCompleted).
		Count(&count).Error
	return count, err
}

func (r *CompletionRepository) FindByUser(userID uint, ctype model.CompletionType) ([]model.CompletionRecord, error) {
	var records []model.CompletionRecord
	err := r.DB.Where("user_id = ? AND type = ?", userID, ctype).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
