package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProcessJob_OrderDeletedIsNotAFailure(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("GetByID", mock.Anything, "order-gone").Return(nil, nil)

	svc := &OrderFileService{orderRepo: orderRepo}

	err := svc.ProcessJob(context.Background(), &models.OrderFileJob{ID: "job-1", OrderID: "order-gone"})
	assert.NoError(t, err)
}

func TestProcessJob_AllItemsFinalizedIsANoOp(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(&models.Order{
		ID:        "order-1",
		OrderCode: "ORD-20250901-ABC234",
	}, nil)

	itemRepo := new(OrderItemRepoMock)
	itemRepo.On("FindByOrderID", mock.Anything, "order-1").Return([]models.OrderItem{
		{ID: "item-1", FileID: "uf-1", IsFinalized: true},
		{ID: "item-2", FileID: "uf-2", IsFinalized: true},
	}, nil)

	tempRepo := new(TempFileRepoMock)

	svc := &OrderFileService{orderRepo: orderRepo, orderItemRepo: itemRepo, tempFileRepo: tempRepo}

	err := svc.ProcessJob(context.Background(), &models.OrderFileJob{ID: "job-1", OrderID: "order-1"})
	assert.NoError(t, err)

	// Nothing to finalize, so the temp store is never touched.
	tempRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestHandleJobFailure_SchedulesRetryWithBackoff(t *testing.T) {
	jobRepo := new(FileJobRepoMock)

	job := &models.OrderFileJob{ID: "job-1", OrderID: "order-1", Attempts: 1}
	jobErr := errors.New("temp store unavailable")

	// Second attempt failed: backoff is 1m * 2^2 = 4m.
	jobRepo.On("MarkFailed", mock.Anything, "job-1", 2, "temp store unavailable", mock.MatchedBy(func(nextRun time.Time) bool {
		expected := time.Now().Add(4 * time.Minute)
		return nextRun.After(expected.Add(-10*time.Second)) && nextRun.Before(expected.Add(10*time.Second))
	})).Return(nil)

	svc := &OrderFileService{jobRepo: jobRepo}
	svc.handleJobFailure(context.Background(), job, jobErr)

	jobRepo.AssertExpectations(t)
	jobRepo.AssertNotCalled(t, "MarkNeedsReconciliation", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleJobFailure_ExhaustedAttemptsNeedReconciliation(t *testing.T) {
	jobRepo := new(FileJobRepoMock)
	jobRepo.On("MarkNeedsReconciliation", mock.Anything, "job-1", "still broken").Return(nil)

	job := &models.OrderFileJob{ID: "job-1", OrderID: "order-1", Attempts: models.FileJobMaxAttempts - 1}

	svc := &OrderFileService{jobRepo: jobRepo}
	svc.handleJobFailure(context.Background(), job, errors.New("still broken"))

	jobRepo.AssertExpectations(t)
	jobRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainDueJobs_StopsWhenQueueEmpty(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(nil, nil)

	jobRepo := new(FileJobRepoMock)
	jobRepo.On("ClaimNextDue", mock.Anything).Return(&models.OrderFileJob{ID: "job-1", OrderID: "order-1"}, nil).Once()
	jobRepo.On("MarkDone", mock.Anything, "job-1").Return(nil).Once()
	jobRepo.On("ClaimNextDue", mock.Anything).Return(nil, nil).Once()

	svc := &OrderFileService{orderRepo: orderRepo, jobRepo: jobRepo}
	svc.drainDueJobs(context.Background())

	jobRepo.AssertExpectations(t)
}

func TestDrainDueJobs_FailedJobIsRescheduledNotDone(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(nil, errors.New("db down"))

	jobRepo := new(FileJobRepoMock)
	jobRepo.On("ClaimNextDue", mock.Anything).Return(&models.OrderFileJob{ID: "job-1", OrderID: "order-1"}, nil).Once()
	jobRepo.On("MarkFailed", mock.Anything, "job-1", 1, mock.Anything, mock.Anything).Return(nil).Once()
	jobRepo.On("ClaimNextDue", mock.Anything).Return(nil, nil).Once()

	svc := &OrderFileService{orderRepo: orderRepo, jobRepo: jobRepo}
	svc.drainDueJobs(context.Background())

	jobRepo.AssertExpectations(t)
	jobRepo.AssertNotCalled(t, "MarkDone", mock.Anything, mock.Anything)
}

func TestProcessJob_MissingTempFileKeepsItemToken(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(&models.Order{
		ID:        "order-1",
		UserID:    "user-1",
		OrderCode: "ORD-20250901-ABC234",
	}, nil)

	itemRepo := new(OrderItemRepoMock)
	itemRepo.On("FindByOrderID", mock.Anything, "order-1").Return([]models.OrderItem{
		{ID: "item-1", FileID: "temp-1", FileName: "bracket.stl"},
		{ID: "item-2", FileID: "temp-2", FileName: "cover.stl"},
		{ID: "item-3", FileID: "temp-3", FileName: "knob.stl"},
	}, nil)
	itemRepo.On("FinalizeFileID", mock.Anything, mock.Anything, "item-1", mock.Anything).Return(nil)
	itemRepo.On("FinalizeFileID", mock.Anything, mock.Anything, "item-2", mock.Anything).Return(nil)

	payload := base64.StdEncoding.EncodeToString([]byte("solid model bytes"))
	tempRepo := new(TempFileRepoMock)
	// temp-3 expired before the worker ran.
	tempRepo.On("FindByIDs", mock.Anything, []string{"temp-1", "temp-2", "temp-3"}).Return([]models.TempFile{
		{ID: "temp-1", FileData: payload, MimeType: "model/stl"},
		{ID: "temp-2", FileData: payload, MimeType: "model/stl"},
	}, nil)
	tempRepo.On("DeleteByIDs", mock.Anything, []string{"temp-1", "temp-2"}).Return(nil)

	userFileRepo := new(UserFileRepoMock)
	userFileRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.UserFile")).Return(nil)

	svc := &OrderFileService{
		orderRepo:     orderRepo,
		orderItemRepo: itemRepo,
		tempFileRepo:  tempRepo,
		userFileRepo:  userFileRepo,
	}

	err := svc.ProcessJob(context.Background(), &models.OrderFileJob{ID: "job-1", OrderID: "order-1"})
	assert.NoError(t, err)

	// Two items were finalized; the third keeps its token for a later retry.
	userFileRepo.AssertNumberOfCalls(t, "Create", 2)
	itemRepo.AssertNotCalled(t, "FinalizeFileID", mock.Anything, mock.Anything, "item-3", mock.Anything)
	tempRepo.AssertExpectations(t)
}
