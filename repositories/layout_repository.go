package repositories

import (
	"encoding/json"
	"errors"

	"zonelayout-app/layout"
	"zonelayout-app/models"

	"gorm.io/gorm"
)

type LayoutRepository struct {
	db *gorm.DB
}

func NewLayoutRepository(db *gorm.DB) *LayoutRepository {
	return &LayoutRepository{db}
}

// Load returns the persisted layout for a zone, or nil when none has been
// saved yet. An absent layout is a valid empty zone, not an error.
func (r *LayoutRepository) Load(whsCode, zoneCode string) (*models.ZoneLayout, error) {
	var zl models.ZoneLayout
	err := r.db.Where("whs_code = ? AND zone_code = ?", whsCode, zoneCode).First(&zl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &zl, nil
}

// Save upserts the zone layout and bumps its version inside one transaction.
func (r *LayoutRepository) Save(whsCode, zoneCode string, grid layout.Grid, items []*layout.Item, userID int) (version int, err error) {
	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return 0, err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var zl models.ZoneLayout
		found := true
		if err := tx.Where("whs_code = ? AND zone_code = ?", whsCode, zoneCode).First(&zl).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found = false
		}

		if !found {
			zl = models.ZoneLayout{
				WhsCode:   whsCode,
				ZoneCode:  zoneCode,
				CreatedBy: userID,
			}
		}
		zl.Version++
		zl.GridJSON = string(gridJSON)
		zl.ItemsJSON = string(itemsJSON)
		zl.UpdatedBy = userID

		if err := tx.Save(&zl).Error; err != nil {
			return err
		}
		version = zl.Version
		return nil
	})
	return version, err
}

// DecodeItems unmarshals the persisted item list.
func DecodeItems(zl *models.ZoneLayout) ([]*layout.Item, layout.Grid, error) {
	grid := layout.DefaultGrid()
	if zl == nil {
		return nil, grid, nil
	}
	var items []*layout.Item
	if zl.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(zl.ItemsJSON), &items); err != nil {
			return nil, grid, err
		}
	}
	if zl.GridJSON != "" {
		if err := json.Unmarshal([]byte(zl.GridJSON), &grid); err != nil {
			return nil, grid, err
		}
	}
	return items, grid, nil
}
