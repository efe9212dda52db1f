package layout

// Grid holds the editing grid for one zone. Coordinates and footprints are in
// pixels on a canvas of Cols x Rows cells, each CellSize pixels wide; Snap
// rounds pixel values to the cell pitch.
type Grid struct {
	CellSize   int  `json:"cell_size"`
	Cols       int  `json:"cols"`
	Rows       int  `json:"rows"`
	SnapToGrid bool `json:"snap_to_grid"`
}

func DefaultGrid() Grid {
	return Grid{CellSize: 20, Cols: 60, Rows: 40, SnapToGrid: true}
}

// Snap rounds v to the nearest multiple of the cell pitch. With snapping
// disabled (or an unset pitch) the value passes through unchanged.
func (g Grid) Snap(v int) int {
	if !g.SnapToGrid || g.CellSize <= 0 {
		return v
	}
	half := g.CellSize / 2
	if v >= 0 {
		return ((v + half) / g.CellSize) * g.CellSize
	}
	return -(((-v + half) / g.CellSize) * g.CellSize)
}

// Contains reports whether the footprint r lies fully inside the canvas.
func (g Grid) Contains(r Rect) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= g.Width() && r.Y+r.H <= g.Height()
}

// Width is the canvas width in pixels.
func (g Grid) Width() int {
	return g.Cols * g.CellSize
}

// Height is the canvas height in pixels.
func (g Grid) Height() int {
	return g.Rows * g.CellSize
}

// Rect is an axis-aligned footprint on the grid.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether a and b share interior area. Touching edges do not
// count as overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
