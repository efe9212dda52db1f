package models

import (
	"time"

	"zonelayout-app/controllers/idgen"
	"zonelayout-app/types"

	"gorm.io/gorm"
)

// ActivityLog records layout and reconciliation events for audit. Writes are
// fire-and-forget: a failed insert never affects the operation that produced
// the event.
type ActivityLog struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	WhsCode   string            `json:"whs_code"`
	ZoneCode  string            `json:"zone_code"`
	Event     string            `json:"event"`
	ItemID    string            `json:"item_id"`
	Location  string            `json:"location"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time
	CreatedBy int
	DeletedAt gorm.DeletedAt
	DeletedBy int
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = types.SnowflakeID(idgen.GenerateID())
	return
}
