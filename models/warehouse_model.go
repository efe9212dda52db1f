package models

import (
	"gorm.io/gorm"
)

type Warehouse struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// Zone is a named subdivision of a warehouse holding exactly one layout.
type Zone struct {
	gorm.Model
	WhsCode   string `json:"whs_code" gorm:"index:idx_zone_code,unique"`
	Code      string `json:"code" gorm:"index:idx_zone_code,unique"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
