package recon

import (
	"regexp"

	"zonelayout-app/layout"
)

// subCellPattern matches an optional "-<digits>-<digits>" sub-cell suffix.
// The full pattern is anchored at both ends so rack "B" never swallows a
// different location like "B1".
const subCellPattern = `(-\d+-\d+)?$`

// MatchRows returns the subset of rows belonging to the item. Zones compare by
// normalized zone code; flats need an exact normalized location match while
// racks additionally accept sub-cell addresses like "A35-01-02". The function
// is pure: same inputs, same result, no caching.
func MatchRows(zoneCode string, item *layout.Item, rows []Row) []Row {
	zone := NormalizeZone(zoneCode)
	loc := NormalizeLocation(item.Location)
	if loc == "" {
		return nil
	}

	var rackRe *regexp.Regexp
	if item.Type == layout.ItemRack {
		rackRe = regexp.MustCompile(`^` + regexp.QuoteMeta(loc) + subCellPattern)
	}

	var matched []Row
	for _, row := range rows {
		if NormalizeZone(row.Zone) != zone {
			continue
		}
		rowLoc := NormalizeLocation(row.Location)
		if item.Type == layout.ItemRack {
			if rackRe.MatchString(rowLoc) {
				matched = append(matched, row)
			}
			continue
		}
		if rowLoc == loc {
			matched = append(matched, row)
		}
	}
	return matched
}

var subCellAddr = regexp.MustCompile(`^(.*)-(\d+)-(\d+)$`)

// SplitSubCell splits a rack sub-cell address into its base location and
// 0-based floor/cell indexes. ok is false for bare locations without a
// sub-cell suffix.
func SplitSubCell(location string) (base string, floor, cell int, ok bool) {
	m := subCellAddr.FindStringSubmatch(NormalizeLocation(location))
	if m == nil {
		return "", 0, 0, false
	}
	floor = atoiSafe(m[2]) - 1
	cell = atoiSafe(m[3]) - 1
	return m[1], floor, cell, true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
