package migrations

import (
	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.PriceRule{},
		&models.TempFile{},
		&models.UserFile{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OrderFileJob{},
	)
}
