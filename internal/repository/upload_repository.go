package repository

import (
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type UploadRepository struct {
	DB *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{DB: db}
}

func (r *UploadRepository) Create(file *model.UploadedFile) error {
	return r.DB.Create(file).Error
}

func (r *UploadRepository) FindByKey(key string) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.DB.Where("key = ?", key).First(&file).Error
	return &file, err
}

func (r *UploadRepository) FindByUploader(userID uint) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	err := r.DB.Where("uploader_id = ?", userID).Order("created_at DESC").Find(&files).Error
	return files, err
}
