package models

import (
	"github.com/partsdesk/autoparts_backend/config"
)

func MigrateDatabase() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Company{},
		&User{},
		&RefreshToken{},
		&Client{},
		&Product{},
		&Order{},
		&OrderItem{},
	)
}
