package layout

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

const historyLimit = 20

type EventType string

const (
	EventItemAdded       EventType = "item_added"
	EventItemUpdated     EventType = "item_updated"
	EventItemRemoved     EventType = "item_removed"
	EventItemsDuplicated EventType = "items_duplicated"
	EventItemsMoved      EventType = "items_moved"
	EventItemsRotated    EventType = "items_rotated"
	EventLocationRenamed EventType = "location_renamed"
)

// Event is an outbound notification about a committed mutation. Listeners run
// fire-and-forget: their failures never affect the mutation that produced the
// event.
type Event struct {
	Type        EventType
	WhsCode     string
	ZoneCode    string
	ItemID      string
	Location    string
	OldLocation string
	Detail      string
}

// PlacementHint computes a free position for the desired footprint. When
// supplied to AddItem the hint's result overwrites the item's x/y before
// validation.
type PlacementHint func(desired Rect) (x, y int, ok bool)

// ItemUpdate is a partial update for UpdateItem. Nil fields are left alone.
type ItemUpdate struct {
	X        *int
	Y        *int
	W        *int
	H        *int
	Location *string

	Floors *int
	Rows   *int
	Cols   *int

	MaxCapacity     *int
	NoCapacityLimit *bool

	CellAvailability [][]bool
	CellCapacity     [][]int
	Pillars          []bool
}

// Session owns the single working copy of one zone's layout. All mutating
// operations are serialized through the session mutex; reads always observe a
// fully formed item list. Sessions are caller-owned, one per warehouse+zone.
type Session struct {
	mu sync.RWMutex

	WhsCode  string
	ZoneCode string

	grid      Grid
	items     []*Item
	selection map[string]bool

	history [][]*Item
	cursor  int

	editing      bool
	editItems    []*Item
	editHistory  [][]*Item
	editCursor   int
	editSelected map[string]bool

	listeners []func(Event)
	pending   []Event
}

func NewSession(whsCode, zoneCode string, grid Grid) *Session {
	s := &Session{
		WhsCode:   whsCode,
		ZoneCode:  zoneCode,
		grid:      grid,
		selection: make(map[string]bool),
	}
	s.history = [][]*Item{nil}
	s.cursor = 0
	return s
}

// Restore replaces the working copy with a loaded item set and resets history.
func (s *Session) Restore(items []*Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cloneItems(items)
	s.history = [][]*Item{cloneItems(items)}
	s.cursor = 0
	s.selection = make(map[string]bool)
}

func (s *Session) Grid() Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

func (s *Session) SetGrid(g Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = g
}

// Items returns a deep copy of the working item list.
func (s *Session) Items() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Session) Item(id string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if it := s.find(id); it != nil {
		return it.Clone(), true
	}
	return nil, false
}

func (s *Session) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]bool, len(ids))
	for _, id := range ids {
		if s.find(id) != nil {
			s.selection[id] = true
		}
	}
}

func (s *Session) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.selection))
	for _, it := range s.items {
		if s.selection[it.ID] {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Subscribe registers an outbound event listener. Listeners are invoked after
// a mutation commits, outside the session lock, so they may read the session
// synchronously; their panics and failures never affect the mutation.
func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// queue records an event under the lock for delivery by flush.
func (s *Session) queue(ev Event) {
	ev.WhsCode = s.WhsCode
	ev.ZoneCode = s.ZoneCode
	s.pending = append(s.pending, ev)
}

// flush delivers queued events. Deferred by every mutating operation before
// the lock is taken, so it runs after the unlock and listeners never see the
// session mid-mutation or locked.
func (s *Session) flush() {
	s.mu.Lock()
	events := s.pending
	s.pending = nil
	listeners := append(([]func(Event))(nil), s.listeners...)
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("layout: event listener panic: %v", r)
					}
				}()
				fn(ev)
			}()
		}
	}
}

func (s *Session) find(id string) *Item {
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// validatePlacement checks grid bounds and, when checkOverlap is set, overlap
// against every other item. skipID is excluded from the overlap scan.
func (s *Session) validatePlacement(r Rect, skipID string, checkOverlap bool) error {
	if !s.grid.Contains(r) {
		return &ValidationError{Kind: KindOutOfBounds, ItemID: skipID,
			Message: fmt.Sprintf("footprint %dx%d at (%d,%d) exceeds grid %dx%d", r.W, r.H, r.X, r.Y, s.grid.Cols, s.grid.Rows)}
	}
	if checkOverlap {
		for _, other := range s.items {
			if other.ID == skipID {
				continue
			}
			if Overlaps(r, other.Rect()) {
				return &ValidationError{Kind: KindOverlap, ItemID: skipID,
					Message: fmt.Sprintf("overlaps item %q at %s", other.Location, other.ID)}
			}
		}
	}
	return nil
}

// checkpoint commits the current state onto the bounded history stack,
// discarding any redo tail.
func (s *Session) checkpoint() {
	s.history = append(s.history[:s.cursor+1], cloneItems(s.items))
	s.cursor = len(s.history) - 1
	if len(s.history) > historyLimit {
		drop := len(s.history) - historyLimit
		s.history = s.history[drop:]
		s.cursor -= drop
	}
}

// AddItem validates and appends a new item. A supplied placement hint
// overwrites the item's position before validation.
func (s *Session) AddItem(item *Item, hint PlacementHint) (*Item, error) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	it := item.Clone()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if s.find(it.ID) != nil {
		return nil, &ValidationError{Kind: KindDuplicateID, ItemID: it.ID, Message: "item id already placed"}
	}
	if hint != nil {
		if x, y, ok := hint(it.Rect()); ok {
			it.X, it.Y = x, y
		}
	}
	it.X = s.grid.Snap(it.X)
	it.Y = s.grid.Snap(it.Y)
	if err := s.validatePlacement(it.Rect(), it.ID, true); err != nil {
		return nil, err
	}
	if it.Type == ItemRack && !it.gridsMatchShape() {
		it.ResizeGrids()
	}
	s.items = append(s.items, it)
	s.checkpoint()
	s.queue(Event{Type: EventItemAdded, ItemID: it.ID, Location: it.Location})
	return it.Clone(), nil
}

// UpdateItem applies a partial update. A pure resize (w/h only, position
// untouched) is validated against grid bounds alone so neighbors may be
// temporarily overlapped while editing; any position change re-runs the full
// overlap check. Renaming the location emits a rename event so matched
// inventory can be refetched.
func (s *Session) UpdateItem(id string, upd ItemUpdate) error {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.find(id)
	if cur == nil {
		return &ValidationError{Kind: KindNotFound, ItemID: id, Message: "no such item"}
	}

	next := cur.Clone()
	moved := false
	resized := false
	if upd.X != nil && *upd.X != next.X {
		next.X = s.grid.Snap(*upd.X)
		moved = true
	}
	if upd.Y != nil && *upd.Y != next.Y {
		next.Y = s.grid.Snap(*upd.Y)
		moved = true
	}
	if upd.W != nil && *upd.W != next.W {
		next.W = *upd.W
		resized = true
	}
	if upd.H != nil && *upd.H != next.H {
		next.H = *upd.H
		resized = true
	}

	oldLocation := next.Location
	renamed := false
	if upd.Location != nil && *upd.Location != next.Location {
		next.Location = *upd.Location
		renamed = true
	}

	reshaped := false
	if next.Type == ItemRack {
		if upd.Floors != nil && *upd.Floors != next.Floors {
			next.Floors = *upd.Floors
			reshaped = true
		}
		if upd.Rows != nil && *upd.Rows != next.Rows {
			next.Rows = *upd.Rows
			reshaped = true
		}
		if upd.Cols != nil && *upd.Cols != next.Cols {
			next.Cols = *upd.Cols
		}
	} else {
		if upd.Rows != nil {
			next.Rows = *upd.Rows
		}
		if upd.Cols != nil {
			next.Cols = *upd.Cols
		}
		if upd.MaxCapacity != nil {
			next.MaxCapacity = *upd.MaxCapacity
		}
		if upd.NoCapacityLimit != nil {
			next.NoCapacityLimit = *upd.NoCapacityLimit
		}
	}

	if resized || moved {
		// Resizing in place may overlap neighbors; moving may not.
		if err := s.validatePlacement(next.Rect(), id, moved); err != nil {
			return err
		}
	}

	if reshaped {
		next.ResizeGrids()
	}
	if upd.CellAvailability != nil {
		next.CellAvailability = upd.CellAvailability
	}
	if upd.CellCapacity != nil {
		next.CellCapacity = upd.CellCapacity
	}
	if upd.Pillars != nil {
		next.Pillars = upd.Pillars
	}

	*cur = *next
	s.checkpoint()
	s.queue(Event{Type: EventItemUpdated, ItemID: id, Location: cur.Location})
	if renamed {
		s.queue(Event{Type: EventLocationRenamed, ItemID: id, Location: cur.Location, OldLocation: oldLocation})
	}
	return nil
}

// RemoveItem deletes the item and drops it from the selection. Removing an
// unknown id is a no-op.
func (s *Session) RemoveItem(id string) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			location := it.Location
			s.items = append(s.items[:i], s.items[i+1:]...)
			delete(s.selection, id)
			s.checkpoint()
			s.queue(Event{Type: EventItemRemoved, ItemID: id, Location: location})
			return
		}
	}
}

// SetItemRestriction replaces the item-level restriction. Pass nil to clear.
func (s *Session) SetItemRestriction(id string, r *Restriction) error {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(id)
	if it == nil {
		return &ValidationError{Kind: KindNotFound, ItemID: id, Message: "no such item"}
	}
	it.Restriction = cloneRestriction(r)
	s.checkpoint()
	s.queue(Event{Type: EventItemUpdated, ItemID: id, Location: it.Location, Detail: "restriction"})
	return nil
}

// SetFloorRestriction replaces one floor's override slot on a rack.
func (s *Session) SetFloorRestriction(id string, floor int, r *Restriction) error {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(id)
	if it == nil {
		return &ValidationError{Kind: KindNotFound, ItemID: id, Message: "no such item"}
	}
	if it.Type != ItemRack || floor < 0 || floor >= it.Floors {
		return &ValidationError{Kind: KindOutOfBounds, ItemID: id, Message: fmt.Sprintf("floor %d out of range", floor)}
	}
	if len(it.FloorRestrictions) != it.Floors {
		it.ResizeGrids()
	}
	it.FloorRestrictions[floor] = cloneRestriction(r)
	s.checkpoint()
	s.queue(Event{Type: EventItemUpdated, ItemID: id, Location: it.Location, Detail: "floor restriction"})
	return nil
}

// SetCellRestriction replaces one cell's override slot on a rack.
func (s *Session) SetCellRestriction(id string, floor, cell int, r *Restriction) error {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(id)
	if it == nil {
		return &ValidationError{Kind: KindNotFound, ItemID: id, Message: "no such item"}
	}
	if it.Type != ItemRack || floor < 0 || floor >= it.Floors || cell < 0 || cell >= it.Rows {
		return &ValidationError{Kind: KindOutOfBounds, ItemID: id, Message: fmt.Sprintf("cell (%d,%d) out of range", floor, cell)}
	}
	if len(it.CellRestrictions) != it.Floors || len(it.CellRestrictions[floor]) != it.Rows {
		it.ResizeGrids()
	}
	it.CellRestrictions[floor][cell] = cloneRestriction(r)
	s.checkpoint()
	s.queue(Event{Type: EventItemUpdated, ItemID: id, Location: it.Location, Detail: "cell restriction"})
	return nil
}

// duplicateOffsets is the fixed search order for placing a copy: right, left,
// down, up, the four diagonals, then the doubled versions.
func duplicateOffsets(w, h int) [][2]int {
	return [][2]int{
		{w, 0}, {-w, 0}, {0, h}, {0, -h},
		{w, h}, {w, -h}, {-w, h}, {-w, -h},
		{2 * w, 0}, {-2 * w, 0}, {0, 2 * h}, {0, -2 * h},
		{2 * w, 2 * h}, {2 * w, -2 * h}, {-2 * w, 2 * h}, {-2 * w, -2 * h},
	}
}

// nextCopyLocation derives a non-colliding location name by appending the
// lowest unused " (n)" suffix.
func (s *Session) nextCopyLocation(base string) string {
	taken := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		taken[it.Location] = true
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// DuplicateItems copies each source item to the first offset position that
// produces no overlap. Items with no usable offset are reported in failed and
// skipped; the successful copies commit together as one checkpoint.
func (s *Session) DuplicateItems(ids []string) (added []*Item, failed []string) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		src := s.find(id)
		if src == nil {
			failed = append(failed, id)
			continue
		}
		placed := false
		for _, off := range duplicateOffsets(src.W, src.H) {
			candidate := Rect{X: src.X + off[0], Y: src.Y + off[1], W: src.W, H: src.H}
			if s.validatePlacement(candidate, "", true) != nil {
				continue
			}
			cp := src.Clone()
			cp.ID = uuid.NewString()
			cp.Location = s.nextCopyLocation(src.Location)
			cp.X, cp.Y = candidate.X, candidate.Y
			s.items = append(s.items, cp)
			added = append(added, cp.Clone())
			placed = true
			break
		}
		if !placed {
			failed = append(failed, id)
		}
	}
	if len(added) > 0 {
		s.checkpoint()
		s.queue(Event{Type: EventItemsDuplicated, Detail: fmt.Sprintf("%d copied, %d skipped", len(added), len(failed))})
	}
	return added, failed
}

// MoveBy shifts each item by the snapped delta. Items whose new position would
// be invalid stay put while the rest of the batch still moves.
func (s *Session) MoveBy(ids []string, dx, dy int) (moved, failed []string) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	dx = s.grid.Snap(dx)
	dy = s.grid.Snap(dy)
	for _, id := range ids {
		it := s.find(id)
		if it == nil {
			failed = append(failed, id)
			continue
		}
		target := Rect{X: it.X + dx, Y: it.Y + dy, W: it.W, H: it.H}
		if s.validatePlacement(target, id, true) != nil {
			failed = append(failed, id)
			continue
		}
		it.X, it.Y = target.X, target.Y
		moved = append(moved, id)
	}
	if len(moved) > 0 {
		s.checkpoint()
		s.queue(Event{Type: EventItemsMoved, Detail: fmt.Sprintf("%d moved by (%d,%d)", len(moved), dx, dy)})
	}
	return moved, failed
}

// RotateSelected rotates every selected rack. Items whose rotated footprint
// would collide or leave the grid stay unrotated and are reported.
func (s *Session) RotateSelected() (rotated, failed []string) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if !s.selection[it.ID] {
			continue
		}
		if it.Type != ItemRack {
			failed = append(failed, it.ID)
			continue
		}
		turned := Rect{X: it.X, Y: it.Y, W: it.H, H: it.W}
		if s.validatePlacement(turned, it.ID, true) != nil {
			failed = append(failed, it.ID)
			continue
		}
		_ = it.Rotate()
		rotated = append(rotated, it.ID)
	}
	if len(rotated) > 0 {
		s.checkpoint()
		s.queue(Event{Type: EventItemsRotated, Detail: fmt.Sprintf("%d rotated", len(rotated))})
	}
	return rotated, failed
}

// Undo steps the history cursor back one checkpoint. No-op at the start.
func (s *Session) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == 0 {
		return
	}
	s.cursor--
	s.items = cloneItems(s.history[s.cursor])
}

// Redo steps the history cursor forward one checkpoint. No-op at the end.
func (s *Session) Redo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.history)-1 {
		return
	}
	s.cursor++
	s.items = cloneItems(s.history[s.cursor])
}

// BeginEdit snapshots the items together with the undo stack and its cursor so
// CancelEdit can restore both and undo never points at an unreachable state.
func (s *Session) BeginEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing {
		return
	}
	s.editing = true
	s.editItems = cloneItems(s.items)
	s.editHistory = make([][]*Item, len(s.history))
	for i, snap := range s.history {
		s.editHistory[i] = cloneItems(snap)
	}
	s.editCursor = s.cursor
	s.editSelected = make(map[string]bool, len(s.selection))
	for id := range s.selection {
		s.editSelected[id] = true
	}
}

// CommitEdit keeps the current state and discards the edit snapshot.
func (s *Session) CommitEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropEditSnapshot()
}

// CancelEdit restores the state captured by BeginEdit verbatim, including the
// undo history, discarding every mutation made during the edit session.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return
	}
	s.items = s.editItems
	s.history = s.editHistory
	s.cursor = s.editCursor
	s.selection = s.editSelected
	s.dropEditSnapshot()
}

func (s *Session) dropEditSnapshot() {
	s.editing = false
	s.editItems = nil
	s.editHistory = nil
	s.editCursor = 0
	s.editSelected = nil
}

func (s *Session) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}
