package models

import (
	"gorm.io/gorm"
)

// MajorCategory and MinorCategory enumerate the valid material categories used
// to populate restriction editors. The layout core never validates against
// them; the catalog is advisory.
type MajorCategory struct {
	gorm.Model
	Name         string `json:"name" gorm:"unique"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

type MinorCategory struct {
	gorm.Model
	MajorCategoryID uint   `json:"major_category_id" gorm:"index"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}
