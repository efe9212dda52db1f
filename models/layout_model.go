package models

import (
	"gorm.io/gorm"
)

// ZoneLayout persists one zone's layout working copy. Items and grid are
// serialized JSON; Version increases monotonically on every save.
type ZoneLayout struct {
	gorm.Model
	WhsCode   string `json:"whs_code" gorm:"index:idx_zone_layout,unique"`
	ZoneCode  string `json:"zone_code" gorm:"index:idx_zone_layout,unique"`
	Version   int    `json:"version" gorm:"default:0"`
	GridJSON  string `json:"grid_json" gorm:"type:text"`
	ItemsJSON string `json:"items_json" gorm:"type:text"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
