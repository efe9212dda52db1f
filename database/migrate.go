package database

import (
	"zonelayout-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Warehouse{},
		&models.Zone{},
		&models.ZoneLayout{},
		&models.InventoryRow{},
		&models.Material{},
		&models.MajorCategory{},
		&models.MinorCategory{},
		&models.ActivityLog{},
	)
}
