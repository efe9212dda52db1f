package database

import (
	"log"

	"zonelayout-app/models"

	"gorm.io/gorm"
)

// Seed creates the default warehouse and zone on an empty database so the
// layout editor has somewhere to start.
func Seed(db *gorm.DB) {
	var count int64
	db.Model(&models.Warehouse{}).Count(&count)
	if count > 0 {
		return
	}

	warehouse := models.Warehouse{Code: "EA2-F", Name: "Eagle 2 Finished Goods", IsActive: true}
	if err := db.Create(&warehouse).Error; err != nil {
		log.Println("Warning: failed to seed warehouse:", err)
		return
	}

	zones := []models.Zone{
		{WhsCode: warehouse.Code, Code: "F-ZONE", Name: "F Zone", IsActive: true},
		{WhsCode: warehouse.Code, Code: "A-ZONE", Name: "A Zone", IsActive: true},
	}
	for _, zone := range zones {
		if err := db.Create(&zone).Error; err != nil {
			log.Println("Warning: failed to seed zone:", err)
		}
	}
}
