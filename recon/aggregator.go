package recon

import (
	"math"
	"sort"

	"zonelayout-app/layout"
)

const noLotKey = "NO_LOT"

// StockStatus is the three-way breakdown of matched quantity. Approximate is
// set when any part of it came from keyword classification of free-text
// statuses rather than explicit source buckets.
type StockStatus struct {
	Available   float64 `json:"available"`
	QualityHold float64 `json:"quality_hold"`
	Blocked     float64 `json:"blocked"`
	Approximate bool    `json:"approximate"`
}

type LotShare struct {
	LotKey     string  `json:"lot_key"` // NO_LOT sentinel for rows without one
	Quantity   float64 `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

type MaterialTotal struct {
	ItemCode      string   `json:"item_code"`
	TotalQuantity float64  `json:"total_quantity"`
	Lots          []string `json:"lots"`
}

// Summary is the reconciliation result for one layout item.
type Summary struct {
	ItemID                string          `json:"item_id"`
	Location              string          `json:"location"`
	CurrentOccupancy      int             `json:"current_occupancy"`
	MaxCapacity           int             `json:"max_capacity"`
	Unbounded             bool            `json:"unbounded"`
	UtilizationPercentage float64         `json:"utilization_percentage"`
	TotalQuantity         float64         `json:"total_quantity"`
	UniqueItemCodes       int             `json:"unique_item_codes"`
	StockStatus           StockStatus     `json:"stock_status"`
	LotDistribution       []LotShare      `json:"lot_distribution"`
	MaterialsSummary      []MaterialTotal `json:"materials_summary"`
	CodeVariance          bool            `json:"code_variance"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate computes the capacity, utilization, lot and stock-status summary
// for one item's matched rows. It never fails: malformed or missing row fields
// read as zero/empty and at worst degrade the breakdown.
func Aggregate(item *layout.Item, matched []Row, classifier Classifier) Summary {
	sum := Summary{ItemID: item.ID, Location: item.Location}

	capacity, bounded := item.TotalCapacity()
	sum.MaxCapacity = capacity
	sum.Unbounded = !bounded

	// Occupancy counts distinct occupied sub-cells for racks so a second lot
	// on the same cell is not double counted; flats count matched rows.
	if item.Type == layout.ItemRack {
		cells := make(map[string]bool, len(matched))
		for _, row := range matched {
			cells[NormalizeLocation(row.Location)] = true
		}
		sum.CurrentOccupancy = len(cells)
	} else {
		sum.CurrentOccupancy = len(matched)
	}

	if sum.MaxCapacity > 0 {
		sum.UtilizationPercentage = round2(float64(sum.CurrentOccupancy) / float64(sum.MaxCapacity) * 100)
	}

	lotQty := make(map[string]float64)
	matQty := make(map[string]float64)
	matLots := make(map[string]map[string]bool)
	var total float64

	for _, row := range matched {
		total += row.Quantity

		if row.Source == SourceSAP {
			sum.StockStatus.Available += row.UnrestrictedQty
			sum.StockStatus.QualityHold += row.QualityInspectionQty
			sum.StockStatus.Blocked += row.BlockedQty
		} else {
			sum.StockStatus.Approximate = true
			switch classifier.Classify(row.Status) {
			case BucketBlocked:
				sum.StockStatus.Blocked += row.Quantity
			case BucketQualityHold:
				sum.StockStatus.QualityHold += row.Quantity
			default:
				sum.StockStatus.Available += row.Quantity
			}
		}

		lot := row.LotKey
		if lot == "" {
			lot = noLotKey
		}
		lotQty[lot] += row.Quantity

		if row.ItemCode != "" {
			matQty[row.ItemCode] += row.Quantity
			if matLots[row.ItemCode] == nil {
				matLots[row.ItemCode] = make(map[string]bool)
			}
			if row.LotKey != "" {
				matLots[row.ItemCode][row.LotKey] = true
			}
		}

		if !sum.CodeVariance && !admits(item, row) {
			sum.CodeVariance = true
		}
	}

	sum.TotalQuantity = total
	sum.UniqueItemCodes = len(matQty)

	for lot, qty := range lotQty {
		share := LotShare{LotKey: lot, Quantity: qty}
		if total > 0 {
			share.Percentage = round2(qty / total * 100)
		}
		sum.LotDistribution = append(sum.LotDistribution, share)
	}
	sort.Slice(sum.LotDistribution, func(i, j int) bool {
		a, b := sum.LotDistribution[i], sum.LotDistribution[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.LotKey < b.LotKey
	})

	for code, qty := range matQty {
		mt := MaterialTotal{ItemCode: code, TotalQuantity: qty}
		for lot := range matLots[code] {
			mt.Lots = append(mt.Lots, lot)
		}
		sort.Strings(mt.Lots)
		sum.MaterialsSummary = append(sum.MaterialsSummary, mt)
	}
	sort.Slice(sum.MaterialsSummary, func(i, j int) bool {
		a, b := sum.MaterialsSummary[i], sum.MaterialsSummary[j]
		if a.TotalQuantity != b.TotalQuantity {
			return a.TotalQuantity > b.TotalQuantity
		}
		return a.ItemCode < b.ItemCode
	})

	return sum
}

// admits resolves the restriction at the granularity the row addresses: the
// exact cell for rack sub-cell rows, item level otherwise.
func admits(item *layout.Item, row Row) bool {
	floor, cell := -1, -1
	if item.Type == layout.ItemRack {
		if _, f, c, ok := SplitSubCell(row.Location); ok {
			floor, cell = f, c
		}
	}
	return item.ResolveRestriction(floor, cell).Admits(row.ItemCode, row.MajorCategory, row.MinorCategory)
}

// ZoneSummary rolls per-item summaries up to zone level.
type ZoneSummary struct {
	ZoneCode              string     `json:"zone_code"`
	ItemCount             int        `json:"item_count"`
	CurrentOccupancy      int        `json:"current_occupancy"`
	MaxCapacity           int        `json:"max_capacity"`
	Unbounded             bool       `json:"unbounded"`
	UtilizationPercentage float64    `json:"utilization_percentage"`
	TotalQuantity         float64    `json:"total_quantity"`
	UniqueItemCodes       int        `json:"unique_item_codes"`
	StockStatus           StockStatus `json:"stock_status"`
	Items                 []Summary  `json:"items"`
}

// Summarize aggregates every item of a zone against a shared, immutable row
// snapshot. Item passes are independent and run concurrently.
func Summarize(zoneCode string, items []*layout.Item, rows []Row, classifier Classifier) ZoneSummary {
	zs := ZoneSummary{ZoneCode: zoneCode, ItemCount: len(items)}
	zs.Items = make([]Summary, len(items))

	done := make(chan int, len(items))
	for i := range items {
		go func(i int) {
			matched := MatchRows(zoneCode, items[i], rows)
			zs.Items[i] = Aggregate(items[i], matched, classifier)
			done <- i
		}(i)
	}
	for range items {
		<-done
	}

	codes := make(map[string]bool)
	for _, s := range zs.Items {
		zs.CurrentOccupancy += s.CurrentOccupancy
		zs.MaxCapacity += s.MaxCapacity
		zs.Unbounded = zs.Unbounded || s.Unbounded
		zs.TotalQuantity += s.TotalQuantity
		zs.StockStatus.Available += s.StockStatus.Available
		zs.StockStatus.QualityHold += s.StockStatus.QualityHold
		zs.StockStatus.Blocked += s.StockStatus.Blocked
		zs.StockStatus.Approximate = zs.StockStatus.Approximate || s.StockStatus.Approximate
		for _, mt := range s.MaterialsSummary {
			codes[mt.ItemCode] = true
		}
	}
	zs.UniqueItemCodes = len(codes)
	if zs.MaxCapacity > 0 {
		zs.UtilizationPercentage = round2(float64(zs.CurrentOccupancy) / float64(zs.MaxCapacity) * 100)
	}
	return zs
}
