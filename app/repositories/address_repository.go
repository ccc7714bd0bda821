package repositories

import (
	"context"
	"errors"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	FindAddressByID(ctx context.Context, id string) (*models.Address, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id string) error
	UnsetPrimaryForUser(ctx context.Context, userID string) error
}

type gormAddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &gormAddressRepository{db: db}
}

func (r *gormAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *gormAddressRepository) FindAddressByID(ctx context.Context, id string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *gormAddressRepository) FindByUserID(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *gormAddressRepository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *gormAddressRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id).Error
}

func (r *gormAddressRepository) UnsetPrimaryForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("is_primary", false).Error
}
