package layout

import "strings"

// Restriction describes which materials a location (or a single floor or cell
// of a rack) may hold. Category fields and the item-code list are independent:
// a row is admissible when it matches either one. A Restriction with nothing
// set is a valid, explicit "anything goes" override.
type Restriction struct {
	MajorCategory string   `json:"major_category"`
	MinorCategory string   `json:"minor_category"`
	ItemCodes     []string `json:"item_codes"`
}

func (r *Restriction) hasCategory() bool {
	return r.MajorCategory != "" || r.MinorCategory != ""
}

// Admits reports whether an inventory row with the given item code and
// material categories may be stored under this restriction. A nil restriction
// admits everything.
func (r *Restriction) Admits(itemCode, majorCategory, minorCategory string) bool {
	if r == nil {
		return true
	}
	hasCodes := len(r.ItemCodes) > 0
	if !hasCodes && !r.hasCategory() {
		return true
	}
	if hasCodes {
		for _, code := range r.ItemCodes {
			if strings.EqualFold(strings.TrimSpace(code), strings.TrimSpace(itemCode)) {
				return true
			}
		}
	}
	if r.hasCategory() {
		if r.MajorCategory != "" && !strings.EqualFold(r.MajorCategory, majorCategory) {
			return false
		}
		if r.MinorCategory != "" && !strings.EqualFold(r.MinorCategory, minorCategory) {
			return false
		}
		return true
	}
	return false
}

// ResolveRestriction returns the effective restriction for an addressable
// point of the item: cell override > floor override > item default. A present
// override fully replaces the lower-priority ones, it never merges. Pass
// negative indexes to resolve at item granularity (always the case for flats).
// Override grids whose dimensions no longer match the item shape are ignored,
// as if freshly initialized.
func (it *Item) ResolveRestriction(floor, cell int) *Restriction {
	if it.Type == ItemRack && floor >= 0 && floor < it.Floors {
		if cell >= 0 && cell < it.Rows &&
			len(it.CellRestrictions) == it.Floors && len(it.CellRestrictions[floor]) == it.Rows {
			if r := it.CellRestrictions[floor][cell]; r != nil {
				return r
			}
		}
		if len(it.FloorRestrictions) == it.Floors {
			if r := it.FloorRestrictions[floor]; r != nil {
				return r
			}
		}
	}
	return it.Restriction
}
