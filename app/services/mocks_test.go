package services

import (
	"context"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/models/other"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) FindAddressByID(ctx context.Context, id string) (*models.Address, error) {
	args := m.Called(ctx, id)
	address, _ := args.Get(0).(*models.Address)
	return address, args.Error(1)
}

func (m *AddressRepoMock) FindByUserID(ctx context.Context, userID string) ([]models.Address, error) {
	args := m.Called(ctx, userID)
	addresses, _ := args.Get(0).([]models.Address)
	return addresses, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AddressRepoMock) UnsetPrimaryForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type PriceRuleRepoMock struct{ mock.Mock }

func (m *PriceRuleRepoMock) Create(ctx context.Context, rule *models.PriceRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *PriceRuleRepoMock) GetActiveRules(ctx context.Context) ([]models.PriceRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]models.PriceRule)
	return rules, args.Error(1)
}

func (m *PriceRuleRepoMock) GetAll(ctx context.Context) ([]models.PriceRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]models.PriceRule)
	return rules, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderRepoMock) FindByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	args := m.Called(ctx, orderCode)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderRepoMock) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID, status string) error {
	args := m.Called(ctx, tx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateFieldsTx(ctx context.Context, tx *gorm.DB, orderID string, fields map[string]interface{}) error {
	args := m.Called(ctx, tx, orderID, fields)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateSnapSession(ctx context.Context, orderID, snapToken, redirectURL string) error {
	args := m.Called(ctx, orderID, snapToken, redirectURL)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateTracking(ctx context.Context, orderID, trackingCode, trackingCarrier string) error {
	args := m.Called(ctx, orderID, trackingCode, trackingCarrier)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]models.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) FinalizeFileID(ctx context.Context, tx *gorm.DB, itemID, fileID string) error {
	args := m.Called(ctx, tx, itemID, fileID)
	return args.Error(0)
}

type TempFileRepoMock struct{ mock.Mock }

func (m *TempFileRepoMock) Create(ctx context.Context, file *models.TempFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *TempFileRepoMock) FindByID(ctx context.Context, id string) (*models.TempFile, error) {
	args := m.Called(ctx, id)
	file, _ := args.Get(0).(*models.TempFile)
	return file, args.Error(1)
}

func (m *TempFileRepoMock) FindByIDs(ctx context.Context, ids []string) ([]models.TempFile, error) {
	args := m.Called(ctx, ids)
	files, _ := args.Get(0).([]models.TempFile)
	return files, args.Error(1)
}

func (m *TempFileRepoMock) DeleteByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *TempFileRepoMock) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type UserFileRepoMock struct{ mock.Mock }

func (m *UserFileRepoMock) Create(ctx context.Context, tx *gorm.DB, file *models.UserFile) error {
	args := m.Called(ctx, tx, file)
	return args.Error(0)
}

func (m *UserFileRepoMock) FindByID(ctx context.Context, id string) (*models.UserFile, error) {
	args := m.Called(ctx, id)
	file, _ := args.Get(0).(*models.UserFile)
	return file, args.Error(1)
}

func (m *UserFileRepoMock) FindByUserID(ctx context.Context, userID string) ([]models.UserFile, error) {
	args := m.Called(ctx, userID)
	files, _ := args.Get(0).([]models.UserFile)
	return files, args.Error(1)
}

type StatusHistoryRepoMock struct{ mock.Mock }

func (m *StatusHistoryRepoMock) Create(ctx context.Context, tx *gorm.DB, entry *models.OrderStatusHistory) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *StatusHistoryRepoMock) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]models.OrderStatusHistory)
	return entries, args.Error(1)
}

type FileJobRepoMock struct{ mock.Mock }

func (m *FileJobRepoMock) Create(ctx context.Context, tx *gorm.DB, job *models.OrderFileJob) error {
	args := m.Called(ctx, tx, job)
	return args.Error(0)
}

func (m *FileJobRepoMock) ClaimNextDue(ctx context.Context) (*models.OrderFileJob, error) {
	args := m.Called(ctx)
	job, _ := args.Get(0).(*models.OrderFileJob)
	return job, args.Error(1)
}

func (m *FileJobRepoMock) MarkDone(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *FileJobRepoMock) MarkFailed(ctx context.Context, jobID string, attempts int, lastError string, nextRunAt time.Time) error {
	args := m.Called(ctx, jobID, attempts, lastError, nextRunAt)
	return args.Error(0)
}

func (m *FileJobRepoMock) MarkNeedsReconciliation(ctx context.Context, jobID string, lastError string) error {
	args := m.Called(ctx, jobID, lastError)
	return args.Error(0)
}

type SnapClientMock struct{ mock.Mock }

func (m *SnapClientMock) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*snap.Response)
	merr, _ := args.Get(1).(*midtrans.Error)
	return resp, merr
}

type CoreClientMock struct{ mock.Mock }

func (m *CoreClientMock) CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	args := m.Called(param)
	resp, _ := args.Get(0).(*coreapi.TransactionStatusResponse)
	merr, _ := args.Get(1).(*midtrans.Error)
	return resp, merr
}

type ShippingClientMock struct{ mock.Mock }

func (m *ShippingClientMock) CalculateCost(ctx context.Context, originID, destinationID int, weight int, courier string) ([]other.KomerceCostDetail, error) {
	args := m.Called(ctx, originID, destinationID, weight, courier)
	details, _ := args.Get(0).([]other.KomerceCostDetail)
	return details, args.Error(1)
}

func (m *ShippingClientMock) SearchDomesticDestinations(ctx context.Context, query string, limit, offset int) ([]other.KomerceDomesticDestination, error) {
	args := m.Called(ctx, query, limit, offset)
	destinations, _ := args.Get(0).([]other.KomerceDomesticDestination)
	return destinations, args.Error(1)
}
