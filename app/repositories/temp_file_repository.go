package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type TempFileRepository interface {
	Create(ctx context.Context, file *models.TempFile) error
	FindByID(ctx context.Context, id string) (*models.TempFile, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.TempFile, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type gormTempFileRepository struct {
	db *gorm.DB
}

func NewTempFileRepository(db *gorm.DB) TempFileRepository {
	return &gormTempFileRepository{db: db}
}

func (r *gormTempFileRepository) Create(ctx context.Context, file *models.TempFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *gormTempFileRepository) FindByID(ctx context.Context, id string) (*models.TempFile, error) {
	var file models.TempFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *gormTempFileRepository) FindByIDs(ctx context.Context, ids []string) ([]models.TempFile, error) {
	var files []models.TempFile
	if len(ids) == 0 {
		return files, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *gormTempFileRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.TempFile{}, "id IN ?", ids).Error
}

func (r *gormTempFileRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.TempFile{}, "expires_at < ?", time.Now())
	return res.RowsAffected, res.Error
}
