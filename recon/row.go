package recon

import "strings"

type SourceType string

const (
	SourceWMS SourceType = "wms"
	SourceSAP SourceType = "sap"
)

// Row is one inventory record from an external system, normalized to a common
// shape. Rows are immutable per refresh cycle: a reconciliation pass only ever
// reads them. WMS rows carry a free-text Status; SAP rows carry the three
// explicit stock buckets instead.
type Row struct {
	ItemCode string     `json:"item_code"`
	Location string     `json:"location"`
	Zone     string     `json:"zone"`
	LotKey   string     `json:"lot_key"` // empty = no lot
	Quantity float64    `json:"quantity"`
	Source   SourceType `json:"source"`

	Status string `json:"status,omitempty"` // WMS free text

	UnrestrictedQty      float64 `json:"unrestricted_qty,omitempty"`
	QualityInspectionQty float64 `json:"quality_inspection_qty,omitempty"`
	BlockedQty           float64 `json:"blocked_qty,omitempty"`
	ReturnsQty           float64 `json:"returns_qty,omitempty"`

	// Material catalog attributes, joined in by the snapshot repository and
	// used only for restriction variance checks.
	MajorCategory string `json:"major_category,omitempty"`
	MinorCategory string `json:"minor_category,omitempty"`
}

// NormalizeZone uppercases, trims and strips hyphens so that "F-ZONE", "fzone"
// and " FZone " all compare equal.
func NormalizeZone(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "")
}

// NormalizeLocation uppercases and trims. Hyphens are significant in location
// codes and are kept.
func NormalizeLocation(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
