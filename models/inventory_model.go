package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryRow is one raw record of the inventory snapshot for a warehouse.
// Rows are replaced wholesale per warehouse+source on every ingest, never
// updated in place.
type InventoryRow struct {
	gorm.Model
	WhsCode    string `json:"whs_code" gorm:"index"`
	SourceType string `json:"source_type"` // wms | sap
	BatchID    string `json:"batch_id"`

	Zone     string  `json:"zone"`
	Location string  `json:"location"`
	ItemCode string  `json:"item_code"`
	LotKey   string  `json:"lot_key"`
	Quantity float64 `json:"quantity" gorm:"default:0"`

	// WMS free-text status.
	Status string `json:"status"`

	// SAP explicit stock buckets.
	UnrestrictedQty      float64 `json:"unrestricted_qty" gorm:"default:0"`
	QualityInspectionQty float64 `json:"quality_inspection_qty" gorm:"default:0"`
	BlockedQty           float64 `json:"blocked_qty" gorm:"default:0"`
	ReturnsQty           float64 `json:"returns_qty" gorm:"default:0"`

	FetchedAt time.Time `json:"fetched_at"`
	CreatedBy int
}

// Material is the item-code catalog carrying the category attributes used for
// restriction variance checks.
type Material struct {
	gorm.Model
	ItemCode      string `json:"item_code" gorm:"unique"`
	ItemName      string `json:"item_name"`
	MajorCategory string `json:"major_category"`
	MinorCategory string `json:"minor_category"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}
