package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type OrderFileJobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *models.OrderFileJob) error
	ClaimNextDue(ctx context.Context) (*models.OrderFileJob, error)
	MarkDone(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, attempts int, lastError string, nextRunAt time.Time) error
	MarkNeedsReconciliation(ctx context.Context, jobID string, lastError string) error
}

type gormOrderFileJobRepository struct {
	db *gorm.DB
}

func NewOrderFileJobRepository(db *gorm.DB) OrderFileJobRepository {
	return &gormOrderFileJobRepository{db: db}
}

func (r *gormOrderFileJobRepository) Create(ctx context.Context, tx *gorm.DB, job *models.OrderFileJob) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(job).Error
}

// ClaimNextDue flips the oldest due pending job to processing and returns it.
// The select and update run in one transaction so two workers cannot claim
// the same job.
func (r *gormOrderFileJobRepository) ClaimNextDue(ctx context.Context) (*models.OrderFileJob, error) {
	var job models.OrderFileJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("status = ? AND next_run_at <= ?", models.FileJobStatusPending, time.Now()).
			Order("next_run_at ASC").
			First(&job).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.OrderFileJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":     models.FileJobStatusProcessing,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *gormOrderFileJobRepository) MarkDone(ctx context.Context, jobID string) error {
	return r.db.WithContext(ctx).Model(&models.OrderFileJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":     models.FileJobStatusDone,
		"last_error": "",
		"updated_at": time.Now(),
	}).Error
}

func (r *gormOrderFileJobRepository) MarkFailed(ctx context.Context, jobID string, attempts int, lastError string, nextRunAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OrderFileJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":      models.FileJobStatusPending,
		"attempts":    attempts,
		"last_error":  lastError,
		"next_run_at": nextRunAt,
		"updated_at":  time.Now(),
	}).Error
}

func (r *gormOrderFileJobRepository) MarkNeedsReconciliation(ctx context.Context, jobID string, lastError string) error {
	return r.db.WithContext(ctx).Model(&models.OrderFileJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":     models.FileJobStatusReconciliation,
		"last_error": lastError,
		"updated_at": time.Now(),
	}).Error
}
