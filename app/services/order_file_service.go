package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"gorm.io/gorm"
)

const (
	fileJobPollInterval     = 5 * time.Second
	tempFileCleanupInterval = 1 * time.Hour
)

// OrderFileService is the temp-file finalization pipeline. It drains the
// OrderFileJob outbox: for every created order it converts the items' temp
// uploads into permanent UserFile records, rewrites the item file references
// in one transaction, and best-effort deletes the temp copies. A missing temp
// file degrades that item (it keeps its token) but never fails the job; real
// errors are retried with backoff until the job lands in
// needs-reconciliation. The order row itself is never touched on failure.
type OrderFileService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	tempFileRepo  repositories.TempFileRepository
	userFileRepo  repositories.UserFileRepository
	jobRepo       repositories.OrderFileJobRepository
}

func NewOrderFileService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	tempFileRepo repositories.TempFileRepository,
	userFileRepo repositories.UserFileRepository,
	jobRepo repositories.OrderFileJobRepository,
) *OrderFileService {
	return &OrderFileService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		tempFileRepo:  tempFileRepo,
		userFileRepo:  userFileRepo,
		jobRepo:       jobRepo,
	}
}

// Run polls for due jobs until the context is canceled. Meant to be started
// once from main as a goroutine.
func (s *OrderFileService) Run(ctx context.Context) {
	ticker := time.NewTicker(fileJobPollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(tempFileCleanupInterval)
	defer cleanup.Stop()

	log.Println("OrderFileService: Finalize worker started.")
	for {
		select {
		case <-ctx.Done():
			log.Println("OrderFileService: Finalize worker stopped.")
			return
		case <-ticker.C:
			s.drainDueJobs(ctx)
		case <-cleanup.C:
			s.cleanupExpiredTempFiles(ctx)
		}
	}
}

// cleanupExpiredTempFiles reaps uploads whose TTL passed without ever being
// attached to an order.
func (s *OrderFileService) cleanupExpiredTempFiles(ctx context.Context) {
	deleted, err := s.tempFileRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("ERROR: OrderFileService: Expired temp file cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("OrderFileService: Deleted %d expired temp files.", deleted)
	}
}

func (s *OrderFileService) drainDueJobs(ctx context.Context) {
	for {
		job, err := s.jobRepo.ClaimNextDue(ctx)
		if err != nil {
			log.Printf("ERROR: OrderFileService: Failed to claim job: %v", err)
			return
		}
		if job == nil {
			return
		}

		if err := s.ProcessJob(ctx, job); err != nil {
			s.handleJobFailure(ctx, job, err)
			continue
		}
		if err := s.jobRepo.MarkDone(ctx, job.ID); err != nil {
			log.Printf("ERROR: OrderFileService: Failed to mark job %s done: %v", job.ID, err)
		}
	}
}

func (s *OrderFileService) handleJobFailure(ctx context.Context, job *models.OrderFileJob, jobErr error) {
	attempts := job.Attempts + 1
	if attempts >= models.FileJobMaxAttempts {
		log.Printf("ERROR: OrderFileService: Job %s (order %s) exhausted %d attempts: %v. Marking needs-reconciliation.",
			job.ID, job.OrderID, attempts, jobErr)
		if err := s.jobRepo.MarkNeedsReconciliation(ctx, job.ID, jobErr.Error()); err != nil {
			log.Printf("ERROR: OrderFileService: Failed to mark job %s for reconciliation: %v", job.ID, err)
		}
		return
	}

	backoff := time.Minute * time.Duration(1<<attempts)
	nextRun := time.Now().Add(backoff)
	log.Printf("WARNING: OrderFileService: Job %s (order %s) attempt %d failed: %v. Retrying at %s.",
		job.ID, job.OrderID, attempts, jobErr, nextRun.Format(time.RFC3339))
	if err := s.jobRepo.MarkFailed(ctx, job.ID, attempts, jobErr.Error(), nextRun); err != nil {
		log.Printf("ERROR: OrderFileService: Failed to reschedule job %s: %v", job.ID, err)
	}
}

// ProcessJob finalizes one order's files. Safe to re-run: items already
// finalized are skipped, so a retry after a partial failure only does the
// remaining work.
func (s *OrderFileService) ProcessJob(ctx context.Context, job *models.OrderFileJob) error {
	order, err := s.orderRepo.GetByID(ctx, job.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", job.OrderID, err)
	}
	if order == nil {
		// Order deleted before finalization ran; nothing left to do.
		log.Printf("WARNING: OrderFileService: Order %s for job %s no longer exists.", job.OrderID, job.ID)
		return nil
	}

	items, err := s.orderItemRepo.FindByOrderID(ctx, job.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	var pending []models.OrderItem
	var tokenIDs []string
	for _, item := range items {
		if item.IsFinalized {
			continue
		}
		pending = append(pending, item)
		tokenIDs = append(tokenIDs, item.FileID)
	}
	if len(pending) == 0 {
		log.Printf("OrderFileService: Order %s has no items left to finalize.", order.OrderCode)
		return nil
	}

	tempFiles, err := s.tempFileRepo.FindByIDs(ctx, tokenIDs)
	if err != nil {
		return fmt.Errorf("failed to retrieve temp files: %w", err)
	}
	tempByID := make(map[string]models.TempFile, len(tempFiles))
	for _, tf := range tempFiles {
		tempByID[tf.ID] = tf
	}

	var finalizedTokens []string
	txErr := runInTransaction(s.db, func(tx *gorm.DB) error {
		for _, item := range pending {
			tempFile, found := tempByID[item.FileID]
			if !found {
				log.Printf("WARNING: OrderFileService: Temp file %s for item %s (order %s) not found. Item keeps its token.",
					item.FileID, item.ID, order.OrderCode)
				continue
			}

			data, err := base64.StdEncoding.DecodeString(tempFile.FileData)
			if err != nil {
				return fmt.Errorf("failed to decode temp file %s: %w", tempFile.ID, err)
			}

			userFile := &models.UserFile{
				UploadedBy: order.UserID,
				FileName:   item.FileName,
				FileSize:   item.FileSize,
				MimeType:   tempFile.MimeType,
				FileData:   data,
			}
			if err := s.userFileRepo.Create(ctx, tx, userFile); err != nil {
				return fmt.Errorf("failed to create permanent file for item %s: %w", item.ID, err)
			}

			if err := s.orderItemRepo.FinalizeFileID(ctx, tx, item.ID, userFile.ID); err != nil {
				return fmt.Errorf("failed to rewrite file reference on item %s: %w", item.ID, err)
			}

			finalizedTokens = append(finalizedTokens, tempFile.ID)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	// Temp cleanup is best-effort; a failure is logged, never surfaced.
	if err := s.tempFileRepo.DeleteByIDs(ctx, finalizedTokens); err != nil {
		log.Printf("WARNING: OrderFileService: Failed to delete temp files for order %s: %v", order.OrderCode, err)
	}

	log.Printf("OrderFileService: Order %s finalized %d of %d items.", order.OrderCode, len(finalizedTokens), len(pending))
	return nil
}
