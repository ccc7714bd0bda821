package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string `gorm:"size:36;not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"-"`
	Recipient string `gorm:"size:255;not null" json:"recipient"`
	Phone     string `gorm:"type:varchar(20);not null" json:"phone"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`

	Address1 string `gorm:"type:text;not null" json:"address1"`
	Address2 string `gorm:"type:text" json:"address2"`

	ProvinceCode string `gorm:"size:20" json:"province_code"`
	ProvinceName string `gorm:"size:100;not null" json:"province_name"`
	RegencyCode  string `gorm:"size:20" json:"regency_code"`
	RegencyName  string `gorm:"size:100;not null" json:"regency_name"`
	DistrictCode string `gorm:"size:20" json:"district_code"`
	DistrictName string `gorm:"size:100" json:"district_name"`
	VillageCode  string `gorm:"size:20" json:"village_code"`
	VillageName  string `gorm:"size:100" json:"village_name"`
	PostCode     string `gorm:"type:varchar(10);not null" json:"post_code"`

	// Komerce domestic destination id resolved from the region codes.
	// Shipping cost lookups cannot run without it.
	DestinationID int `gorm:"default:0" json:"destination_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
