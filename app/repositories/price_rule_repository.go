package repositories

import (
	"context"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type PriceRuleRepository interface {
	Create(ctx context.Context, rule *models.PriceRule) error
	GetActiveRules(ctx context.Context) ([]models.PriceRule, error)
	GetAll(ctx context.Context) ([]models.PriceRule, error)
}

type gormPriceRuleRepository struct {
	db *gorm.DB
}

func NewPriceRuleRepository(db *gorm.DB) PriceRuleRepository {
	return &gormPriceRuleRepository{db: db}
}

func (r *gormPriceRuleRepository) Create(ctx context.Context, rule *models.PriceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *gormPriceRuleRepository) GetActiveRules(ctx context.Context) ([]models.PriceRule, error) {
	var rules []models.PriceRule
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *gormPriceRuleRepository) GetAll(ctx context.Context) ([]models.PriceRule, error) {
	var rules []models.PriceRule
	err := r.db.WithContext(ctx).Order("material, layer_height").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
