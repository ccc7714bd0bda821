package repositories

import (
	"context"
	"errors"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type UserFileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *models.UserFile) error
	FindByID(ctx context.Context, id string) (*models.UserFile, error)
	FindByUserID(ctx context.Context, userID string) ([]models.UserFile, error)
}

type gormUserFileRepository struct {
	db *gorm.DB
}

func NewUserFileRepository(db *gorm.DB) UserFileRepository {
	return &gormUserFileRepository{db: db}
}

func (r *gormUserFileRepository) Create(ctx context.Context, tx *gorm.DB, file *models.UserFile) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(file).Error
}

func (r *gormUserFileRepository) FindByID(ctx context.Context, id string) (*models.UserFile, error) {
	var file models.UserFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *gormUserFileRepository) FindByUserID(ctx context.Context, userID string) ([]models.UserFile, error) {
	var files []models.UserFile
	err := r.db.WithContext(ctx).
		Select("id", "uploaded_by", "file_name", "file_size", "mime_type", "created_at", "updated_at").
		Where("uploaded_by = ?", userID).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}
