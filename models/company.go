package models

import (
	"context"
	"time"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
)

// Company is the tenant root. Every scoped record carries its id.
type Company struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name" binding:"required"`
	Address   string    `gorm:"size:255" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Cnpj      string    `gorm:"size:20" json:"cnpj"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func GetCompanyById(ctx context.Context, id int) (*Company, error) {
	db := config.GetDB()
	var result Company
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
