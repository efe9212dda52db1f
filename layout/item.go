package layout

type ItemType string

const (
	ItemRack ItemType = "rack"
	ItemFlat ItemType = "flat"
)

// Item is one placed storage location on the zone grid, either a rack with a
// floors x rows cell grid or a flat storage area.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Location string   `json:"location"`

	X        int `json:"x"`
	Y        int `json:"y"`
	W        int `json:"w"`
	H        int `json:"h"`
	Rotation int `json:"rotation"`

	// Rack shape: cells are addressed by (floor, row). Cols only describes the
	// drawn footprint subdivision and carries no inventory.
	Floors int `json:"floors,omitempty"`
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`

	// CellAvailability marks blocked cells (false = blocked), CellCapacity how
	// many discrete units a cell holds (0 = blocked, up to 4). Both are
	// floors x rows. Pillars is rows+1 wide and shared across floors.
	CellAvailability [][]bool `json:"cell_availability,omitempty"`
	CellCapacity     [][]int  `json:"cell_capacity,omitempty"`
	Pillars          []bool   `json:"pillars,omitempty"`

	// Flat capacity.
	NoCapacityLimit bool `json:"no_capacity_limit,omitempty"`
	MaxCapacity     int  `json:"max_capacity,omitempty"`

	Restriction       *Restriction     `json:"restriction,omitempty"`
	FloorRestrictions []*Restriction   `json:"floor_restrictions,omitempty"`
	CellRestrictions  [][]*Restriction `json:"cell_restrictions,omitempty"`
}

func (it *Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, W: it.W, H: it.H}
}

// Rotate swaps the footprint and advances rotation by 90 degrees. Only the
// footprint turns; the addressable floor/row grid keeps its shape. Flats are
// not rotatable.
func (it *Item) Rotate() error {
	if it.Type != ItemRack {
		return &ValidationError{Kind: KindNotRotatable, ItemID: it.ID, Message: "only rack items can be rotated"}
	}
	it.W, it.H = it.H, it.W
	it.Rotation = (it.Rotation + 90) % 360
	return nil
}

// gridsMatchShape reports whether the per-cell grids agree with floors x rows.
func (it *Item) gridsMatchShape() bool {
	if len(it.CellAvailability) != it.Floors || len(it.CellCapacity) != it.Floors {
		return false
	}
	for f := 0; f < it.Floors; f++ {
		if len(it.CellAvailability[f]) != it.Rows || len(it.CellCapacity[f]) != it.Rows {
			return false
		}
	}
	return true
}

// ResizeGrids re-dimensions every per-cell grid to the current floors/rows
// shape with default values: all cells available with capacity 1, no pillars,
// no overrides. Called whenever the rack shape changes instead of checking
// dimensions defensively on every read.
func (it *Item) ResizeGrids() {
	if it.Type != ItemRack {
		it.CellAvailability = nil
		it.CellCapacity = nil
		it.Pillars = nil
		it.FloorRestrictions = nil
		it.CellRestrictions = nil
		return
	}
	it.CellAvailability = make([][]bool, it.Floors)
	it.CellCapacity = make([][]int, it.Floors)
	it.CellRestrictions = make([][]*Restriction, it.Floors)
	for f := 0; f < it.Floors; f++ {
		it.CellAvailability[f] = make([]bool, it.Rows)
		it.CellCapacity[f] = make([]int, it.Rows)
		it.CellRestrictions[f] = make([]*Restriction, it.Rows)
		for r := 0; r < it.Rows; r++ {
			it.CellAvailability[f][r] = true
			it.CellCapacity[f][r] = 1
		}
	}
	it.Pillars = make([]bool, it.Rows+1)
	it.FloorRestrictions = make([]*Restriction, it.Floors)
}

// TotalCapacity returns the maximum number of storable units, and whether that
// maximum is bounded. Racks sum the per-cell capacity grid, skipping cells
// whose availability is off; a grid whose shape no longer matches the item
// counts as freshly initialized (all cells available, capacity 1). Flats use
// MaxCapacity unless marked unlimited.
func (it *Item) TotalCapacity() (capacity int, bounded bool) {
	if it.Type == ItemFlat {
		if it.NoCapacityLimit {
			return 0, false
		}
		return it.MaxCapacity, true
	}
	if !it.gridsMatchShape() {
		return it.Floors * it.Rows, true
	}
	total := 0
	for f := 0; f < it.Floors; f++ {
		for r := 0; r < it.Rows; r++ {
			if !it.CellAvailability[f][r] {
				continue
			}
			total += it.CellCapacity[f][r]
		}
	}
	return total, true
}

// Clone returns a deep copy, shared by nothing with the receiver.
func (it *Item) Clone() *Item {
	cp := *it
	if it.CellAvailability != nil {
		cp.CellAvailability = make([][]bool, len(it.CellAvailability))
		for f, row := range it.CellAvailability {
			cp.CellAvailability[f] = append([]bool(nil), row...)
		}
	}
	if it.CellCapacity != nil {
		cp.CellCapacity = make([][]int, len(it.CellCapacity))
		for f, row := range it.CellCapacity {
			cp.CellCapacity[f] = append([]int(nil), row...)
		}
	}
	if it.Pillars != nil {
		cp.Pillars = append([]bool(nil), it.Pillars...)
	}
	cp.Restriction = cloneRestriction(it.Restriction)
	if it.FloorRestrictions != nil {
		cp.FloorRestrictions = make([]*Restriction, len(it.FloorRestrictions))
		for f, r := range it.FloorRestrictions {
			cp.FloorRestrictions[f] = cloneRestriction(r)
		}
	}
	if it.CellRestrictions != nil {
		cp.CellRestrictions = make([][]*Restriction, len(it.CellRestrictions))
		for f, row := range it.CellRestrictions {
			cp.CellRestrictions[f] = make([]*Restriction, len(row))
			for c, r := range row {
				cp.CellRestrictions[f][c] = cloneRestriction(r)
			}
		}
	}
	return &cp
}

func cloneRestriction(r *Restriction) *Restriction {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ItemCodes = append([]string(nil), r.ItemCodes...)
	return &cp
}

func cloneItems(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
