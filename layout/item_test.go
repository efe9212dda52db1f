package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRack(location string, floors, rows int) *Item {
	it := &Item{
		ID:       location,
		Type:     ItemRack,
		Location: location,
		X:        0, Y: 0, W: 100, H: 40,
		Floors: floors,
		Rows:   rows,
		Cols:   rows,
	}
	it.ResizeGrids()
	return it
}

func TestResizeGridsDefaults(t *testing.T) {
	it := newRack("A35", 2, 3)

	require.Len(t, it.CellAvailability, 2)
	require.Len(t, it.CellCapacity, 2)
	require.Len(t, it.FloorRestrictions, 2)
	require.Len(t, it.CellRestrictions, 2)
	assert.Len(t, it.Pillars, 4)

	for f := 0; f < 2; f++ {
		require.Len(t, it.CellAvailability[f], 3)
		for r := 0; r < 3; r++ {
			assert.True(t, it.CellAvailability[f][r])
			assert.Equal(t, 1, it.CellCapacity[f][r])
			assert.Nil(t, it.CellRestrictions[f][r])
		}
	}
}

func TestResizeGridsDropsOldValues(t *testing.T) {
	it := newRack("A35", 2, 2)
	it.CellCapacity[1][1] = 4
	it.CellAvailability[0][0] = false
	it.Pillars[0] = true

	it.Floors = 3
	it.ResizeGrids()

	for f := 0; f < 3; f++ {
		for r := 0; r < 2; r++ {
			assert.True(t, it.CellAvailability[f][r])
			assert.Equal(t, 1, it.CellCapacity[f][r])
		}
	}
	for _, p := range it.Pillars {
		assert.False(t, p)
	}
}

func TestResizeGridsFlat(t *testing.T) {
	it := &Item{Type: ItemFlat, CellCapacity: [][]int{{1}}, Pillars: []bool{true}}
	it.ResizeGrids()
	assert.Nil(t, it.CellAvailability)
	assert.Nil(t, it.CellCapacity)
	assert.Nil(t, it.Pillars)
	assert.Nil(t, it.FloorRestrictions)
	assert.Nil(t, it.CellRestrictions)
}

func TestTotalCapacityRack(t *testing.T) {
	it := newRack("A35", 2, 2)
	capacity, bounded := it.TotalCapacity()
	assert.True(t, bounded)
	assert.Equal(t, 4, capacity)

	it.CellCapacity[0][0] = 4
	it.CellCapacity[1][1] = 0
	capacity, _ = it.TotalCapacity()
	assert.Equal(t, 6, capacity)
}

func TestTotalCapacityRackSkipsUnavailableCells(t *testing.T) {
	it := newRack("A35", 2, 2)
	it.CellAvailability[0][0] = false

	capacity, bounded := it.TotalCapacity()
	assert.True(t, bounded)
	assert.Equal(t, 3, capacity, "unavailable cells carry no capacity")

	it.CellCapacity[0][0] = 4 // capacity on an unavailable cell stays inert
	capacity, _ = it.TotalCapacity()
	assert.Equal(t, 3, capacity)
}

func TestTotalCapacityRackStaleGrids(t *testing.T) {
	it := newRack("A35", 2, 2)
	it.Floors = 3 // shape changed without a resize

	capacity, bounded := it.TotalCapacity()
	assert.True(t, bounded)
	assert.Equal(t, 6, capacity, "stale grids count as freshly initialized")
}

func TestTotalCapacityFlat(t *testing.T) {
	it := &Item{Type: ItemFlat, MaxCapacity: 50}
	capacity, bounded := it.TotalCapacity()
	assert.True(t, bounded)
	assert.Equal(t, 50, capacity)

	it.NoCapacityLimit = true
	capacity, bounded = it.TotalCapacity()
	assert.False(t, bounded)
	assert.Equal(t, 0, capacity)
}

func TestRotate(t *testing.T) {
	it := newRack("A35", 1, 2)
	it.W, it.H = 100, 40

	require.NoError(t, it.Rotate())
	assert.Equal(t, 40, it.W)
	assert.Equal(t, 100, it.H)
	assert.Equal(t, 90, it.Rotation)

	for i := 0; i < 3; i++ {
		require.NoError(t, it.Rotate())
	}
	assert.Equal(t, 0, it.Rotation)
	assert.Equal(t, 100, it.W)
}

func TestRotateFlat(t *testing.T) {
	it := &Item{ID: "b1", Type: ItemFlat, W: 100, H: 40}
	err := it.Rotate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindNotRotatable, ve.Kind)
	assert.Equal(t, 100, it.W, "failed rotation must not mutate")
}

func TestCloneIsDeep(t *testing.T) {
	it := newRack("A35", 2, 2)
	it.Restriction = &Restriction{MajorCategory: "Electronics", ItemCodes: []string{"M-100"}}
	it.FloorRestrictions[1] = &Restriction{MinorCategory: "Cables"}

	cp := it.Clone()
	cp.CellCapacity[0][0] = 4
	cp.Restriction.ItemCodes[0] = "M-999"
	cp.FloorRestrictions[1].MinorCategory = "Boxes"
	cp.Pillars[0] = true

	assert.Equal(t, 1, it.CellCapacity[0][0])
	assert.Equal(t, "M-100", it.Restriction.ItemCodes[0])
	assert.Equal(t, "Cables", it.FloorRestrictions[1].MinorCategory)
	assert.False(t, it.Pillars[0])
}
