package repositories

import (
	"time"

	"zonelayout-app/models"
	"zonelayout-app/recon"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

type snapshotRow struct {
	SourceType           string  `json:"source_type"`
	Zone                 string  `json:"zone"`
	Location             string  `json:"location"`
	ItemCode             string  `json:"item_code"`
	LotKey               string  `json:"lot_key"`
	Quantity             float64 `json:"quantity"`
	Status               string  `json:"status"`
	UnrestrictedQty      float64 `json:"unrestricted_qty"`
	QualityInspectionQty float64 `json:"quality_inspection_qty"`
	BlockedQty           float64 `json:"blocked_qty"`
	ReturnsQty           float64 `json:"returns_qty"`
	MajorCategory        string  `json:"major_category"`
	MinorCategory        string  `json:"minor_category"`
}

// GetSnapshot loads the current inventory snapshot for a warehouse with the
// material categories joined in for restriction variance checks.
func (r *InventoryRepository) GetSnapshot(whsCode string) ([]recon.Row, error) {
	sqlSnapshot := `select a.source_type, a.zone, a.location, a.item_code, a.lot_key,
	a.quantity, a.status, a.unrestricted_qty, a.quality_inspection_qty,
	a.blocked_qty, a.returns_qty,
	coalesce(b.major_category, '') as major_category,
	coalesce(b.minor_category, '') as minor_category
	from inventory_rows a
	left join materials b on a.item_code = b.item_code and b.deleted_at is null
	where a.whs_code = ? and a.deleted_at is null
	`

	var raw []snapshotRow
	if err := r.db.Raw(sqlSnapshot, whsCode).Scan(&raw).Error; err != nil {
		return nil, err
	}

	rows := make([]recon.Row, 0, len(raw))
	for _, row := range raw {
		source := recon.SourceWMS
		if row.SourceType == string(recon.SourceSAP) {
			source = recon.SourceSAP
		}
		rows = append(rows, recon.Row{
			ItemCode:             row.ItemCode,
			Location:             row.Location,
			Zone:                 row.Zone,
			LotKey:               row.LotKey,
			Quantity:             row.Quantity,
			Source:               source,
			Status:               row.Status,
			UnrestrictedQty:      row.UnrestrictedQty,
			QualityInspectionQty: row.QualityInspectionQty,
			BlockedQty:           row.BlockedQty,
			ReturnsQty:           row.ReturnsQty,
			MajorCategory:        row.MajorCategory,
			MinorCategory:        row.MinorCategory,
		})
	}
	return rows, nil
}

// ReplaceSnapshot swaps the snapshot for one warehouse+source in a single
// transaction. Snapshots are full replacements, never deltas.
func (r *InventoryRepository) ReplaceSnapshot(whsCode, sourceType, batchID string, rows []models.InventoryRow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("whs_code = ? AND source_type = ?", whsCode, sourceType).
			Delete(&models.InventoryRow{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for i := range rows {
			rows[i].WhsCode = whsCode
			rows[i].SourceType = sourceType
			rows[i].BatchID = batchID
			rows[i].FetchedAt = now
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// LastFetchedAt returns when the warehouse snapshot was last replaced.
func (r *InventoryRepository) LastFetchedAt(whsCode string) (*time.Time, error) {
	var row models.InventoryRow
	err := r.db.Where("whs_code = ?", whsCode).Order("fetched_at desc").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.FetchedAt, nil
}
