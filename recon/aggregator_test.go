package recon

import (
	"testing"

	"zonelayout-app/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRackOccupancy(t *testing.T) {
	item := rack("A35", 2, 2)
	matched := []Row{
		{Location: "A35-01-01", ItemCode: "M-1", LotKey: "L1", Quantity: 10, Source: SourceWMS},
		{Location: "A35-01-01", ItemCode: "M-1", LotKey: "L2", Quantity: 5, Source: SourceWMS},
		{Location: "A35-02-01", ItemCode: "M-2", LotKey: "L1", Quantity: 5, Source: SourceWMS},
	}

	sum := Aggregate(item, matched, DefaultClassifier())

	assert.Equal(t, 4, sum.MaxCapacity)
	assert.False(t, sum.Unbounded)
	assert.Equal(t, 2, sum.CurrentOccupancy, "two lots on one cell count once")
	assert.Equal(t, 50.0, sum.UtilizationPercentage)
	assert.Equal(t, 20.0, sum.TotalQuantity)
	assert.Equal(t, 2, sum.UniqueItemCodes)
}

func TestAggregateUnavailableCellsShrinkCapacity(t *testing.T) {
	item := rack("A35", 2, 2)
	item.CellAvailability[1][1] = false
	matched := []Row{
		{Location: "A35-01-01", ItemCode: "M-1", Quantity: 10, Source: SourceWMS},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	assert.Equal(t, 3, sum.MaxCapacity)
	assert.InDelta(t, 33.33, sum.UtilizationPercentage, 0.01)
}

func TestAggregateFlatOccupancy(t *testing.T) {
	item := flat("B1")
	item.MaxCapacity = 10
	matched := []Row{
		{Location: "B1", ItemCode: "M-1", Quantity: 1, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-2", Quantity: 1, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-3", Quantity: 1, Source: SourceWMS},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	assert.Equal(t, 3, sum.CurrentOccupancy, "flats count matched rows")
	assert.Equal(t, 30.0, sum.UtilizationPercentage)
}

func TestAggregateUnlimitedFlat(t *testing.T) {
	item := flat("B1")
	item.NoCapacityLimit = true
	matched := []Row{{Location: "B1", ItemCode: "M-1", Quantity: 7, Source: SourceWMS}}

	sum := Aggregate(item, matched, DefaultClassifier())
	assert.True(t, sum.Unbounded)
	assert.Equal(t, 0, sum.MaxCapacity)
	assert.Equal(t, 0.0, sum.UtilizationPercentage, "no utilization without a bound")
}

func TestAggregateZeroCapacity(t *testing.T) {
	item := flat("B1") // MaxCapacity 0
	sum := Aggregate(item, []Row{{Location: "B1", Quantity: 1}}, DefaultClassifier())
	assert.Equal(t, 0.0, sum.UtilizationPercentage)
}

func TestAggregateStockStatusSAP(t *testing.T) {
	item := flat("B1")
	matched := []Row{
		{Location: "B1", ItemCode: "M-1", Quantity: 100, Source: SourceSAP,
			UnrestrictedQty: 70, QualityInspectionQty: 20, BlockedQty: 10},
		{Location: "B1", ItemCode: "M-2", Quantity: 50, Source: SourceSAP,
			UnrestrictedQty: 50},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	assert.Equal(t, 120.0, sum.StockStatus.Available)
	assert.Equal(t, 20.0, sum.StockStatus.QualityHold)
	assert.Equal(t, 10.0, sum.StockStatus.Blocked)
	assert.False(t, sum.StockStatus.Approximate, "explicit buckets are exact")
}

func TestAggregateStockStatusWMS(t *testing.T) {
	item := flat("B1")
	matched := []Row{
		{Location: "B1", ItemCode: "M-1", Quantity: 70, Source: SourceWMS, Status: "RELEASED"},
		{Location: "B1", ItemCode: "M-1", Quantity: 20, Source: SourceWMS, Status: "QC HOLD"},
		{Location: "B1", ItemCode: "M-1", Quantity: 10, Source: SourceWMS, Status: "불용"},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	assert.Equal(t, 70.0, sum.StockStatus.Available)
	assert.Equal(t, 20.0, sum.StockStatus.QualityHold)
	assert.Equal(t, 10.0, sum.StockStatus.Blocked)
	assert.True(t, sum.StockStatus.Approximate, "keyword classification is best-effort")
}

func TestAggregateLotDistribution(t *testing.T) {
	item := flat("B1")
	matched := []Row{
		{Location: "B1", ItemCode: "M-1", LotKey: "L-SMALL", Quantity: 25, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-1", LotKey: "L-BIG", Quantity: 50, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-2", Quantity: 25, Source: SourceWMS},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	require.Len(t, sum.LotDistribution, 3)
	assert.Equal(t, LotShare{LotKey: "L-BIG", Quantity: 50, Percentage: 50}, sum.LotDistribution[0])
	assert.Equal(t, LotShare{LotKey: "L-SMALL", Quantity: 25, Percentage: 25}, sum.LotDistribution[1])
	assert.Equal(t, LotShare{LotKey: "NO_LOT", Quantity: 25, Percentage: 25}, sum.LotDistribution[2])
}

func TestAggregateMaterialsSummary(t *testing.T) {
	item := flat("B1")
	matched := []Row{
		{Location: "B1", ItemCode: "M-2", LotKey: "L2", Quantity: 10, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-1", LotKey: "L1", Quantity: 30, Source: SourceWMS},
		{Location: "B1", ItemCode: "M-1", LotKey: "L2", Quantity: 10, Source: SourceWMS},
	}

	sum := Aggregate(item, matched, DefaultClassifier())
	require.Len(t, sum.MaterialsSummary, 2)
	assert.Equal(t, "M-1", sum.MaterialsSummary[0].ItemCode)
	assert.Equal(t, 40.0, sum.MaterialsSummary[0].TotalQuantity)
	assert.Equal(t, []string{"L1", "L2"}, sum.MaterialsSummary[0].Lots)
	assert.Equal(t, "M-2", sum.MaterialsSummary[1].ItemCode)
}

func TestAggregateCodeVariance(t *testing.T) {
	item := rack("A35", 2, 2)
	item.Restriction = &layout.Restriction{MajorCategory: "Electronics"}

	conforming := []Row{{Location: "A35-01-01", ItemCode: "M-1", MajorCategory: "Electronics", Quantity: 1}}
	sum := Aggregate(item, conforming, DefaultClassifier())
	assert.False(t, sum.CodeVariance)

	violating := []Row{{Location: "A35-01-01", ItemCode: "M-9", MajorCategory: "Packaging", Quantity: 1}}
	sum = Aggregate(item, violating, DefaultClassifier())
	assert.True(t, sum.CodeVariance)
}

func TestAggregateCodeVarianceCellOverride(t *testing.T) {
	item := rack("A35", 2, 2)
	item.Restriction = &layout.Restriction{MajorCategory: "Electronics"}
	item.CellRestrictions[0][0] = &layout.Restriction{} // anything goes on that cell

	rows := []Row{{Location: "A35-01-01", ItemCode: "M-9", MajorCategory: "Packaging", Quantity: 1}}
	sum := Aggregate(item, rows, DefaultClassifier())
	assert.False(t, sum.CodeVariance, "cell override replaces the item default")
}

func TestSummarize(t *testing.T) {
	items := []*layout.Item{rack("A35", 2, 2), flat("B1")}
	items[1].MaxCapacity = 2
	rows := []Row{
		{Zone: "F-ZONE", Location: "A35-01-01", ItemCode: "M-1", LotKey: "L1", Quantity: 10, Source: SourceWMS},
		{Zone: "F-ZONE", Location: "B1", ItemCode: "M-2", Quantity: 5, Source: SourceSAP, UnrestrictedQty: 5},
		{Zone: "A-ZONE", Location: "B1", ItemCode: "M-3", Quantity: 99, Source: SourceWMS},
	}

	zs := Summarize("F-ZONE", items, rows, DefaultClassifier())

	assert.Equal(t, "F-ZONE", zs.ZoneCode)
	assert.Equal(t, 2, zs.ItemCount)
	require.Len(t, zs.Items, 2)
	assert.Equal(t, "A35", zs.Items[0].ItemID, "per-item order follows the layout")
	assert.Equal(t, "B1", zs.Items[1].ItemID)

	assert.Equal(t, 2, zs.CurrentOccupancy)
	assert.Equal(t, 6, zs.MaxCapacity)
	assert.Equal(t, 15.0, zs.TotalQuantity)
	assert.Equal(t, 2, zs.UniqueItemCodes, "foreign-zone rows excluded")
	assert.Equal(t, 15.0, zs.StockStatus.Available)
	assert.True(t, zs.StockStatus.Approximate)
	assert.InDelta(t, 33.33, zs.UtilizationPercentage, 0.01)
}

func TestSummarizeEmptyZone(t *testing.T) {
	zs := Summarize("F-ZONE", nil, nil, DefaultClassifier())
	assert.Equal(t, 0, zs.ItemCount)
	assert.Equal(t, 0.0, zs.UtilizationPercentage)
	assert.Empty(t, zs.Items)
}
