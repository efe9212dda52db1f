package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() Grid {
	return Grid{CellSize: 20, Cols: 60, Rows: 40, SnapToGrid: false}
}

func newTestSession(t *testing.T, items ...*Item) *Session {
	t.Helper()
	s := NewSession("EA2-F", "F-ZONE", testGrid())
	for _, it := range items {
		_, err := s.AddItem(it, nil)
		require.NoError(t, err)
	}
	return s
}

func rackAt(id string, x, y int) *Item {
	return &Item{
		ID: id, Type: ItemRack, Location: id,
		X: x, Y: y, W: 100, H: 40,
		Floors: 2, Rows: 2, Cols: 2,
	}
}

func TestAddItem(t *testing.T) {
	s := newTestSession(t)

	placed, err := s.AddItem(rackAt("A35", 0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, "A35", placed.ID)
	assert.Len(t, s.Items(), 1)

	// cell grids initialized to the rack shape
	assert.Len(t, placed.CellAvailability, 2)
	assert.Len(t, placed.CellAvailability[0], 2)
}

func TestAddItemGeneratesID(t *testing.T) {
	s := newTestSession(t)
	placed, err := s.AddItem(&Item{Type: ItemFlat, Location: "B1", W: 100, H: 100}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, placed.ID)
}

func TestAddItemRejectsDuplicateID(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	_, err := s.AddItem(rackAt("A35", 300, 300), nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindDuplicateID, ve.Kind)
	assert.Len(t, s.Items(), 1, "rejected add must not mutate")
}

func TestAddItemRejectsOutOfBounds(t *testing.T) {
	s := newTestSession(t)

	_, err := s.AddItem(rackAt("A35", 1150, 0), nil) // 1150+100 > 1200
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindOutOfBounds, ve.Kind)
}

func TestAddItemRejectsOverlap(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	_, err := s.AddItem(rackAt("A36", 50, 20), nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindOverlap, ve.Kind)

	// touching edges is fine
	_, err = s.AddItem(rackAt("A37", 100, 0), nil)
	require.NoError(t, err)
}

func TestAddItemPlacementHint(t *testing.T) {
	s := newTestSession(t)

	hint := func(desired Rect) (int, int, bool) { return 200, 120, true }
	placed, err := s.AddItem(rackAt("A35", 0, 0), hint)
	require.NoError(t, err)
	assert.Equal(t, 200, placed.X)
	assert.Equal(t, 120, placed.Y)
}

func TestAddItemSnaps(t *testing.T) {
	s := NewSession("EA2-F", "F-ZONE", Grid{CellSize: 20, Cols: 60, Rows: 40, SnapToGrid: true})
	it := rackAt("A35", 47, 13)
	placed, err := s.AddItem(it, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, placed.X)
	assert.Equal(t, 20, placed.Y)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestUpdateItemResizeInPlaceMayOverlap(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0), rackAt("A36", 100, 0))

	// widening A35 into A36 is allowed while editing in place
	err := s.UpdateItem("A35", ItemUpdate{W: intPtr(150)})
	require.NoError(t, err)

	it, _ := s.Item("A35")
	assert.Equal(t, 150, it.W)
}

func TestUpdateItemMoveChecksOverlap(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0), rackAt("A36", 100, 0))

	err := s.UpdateItem("A35", ItemUpdate{X: intPtr(80)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindOverlap, ve.Kind)

	it, _ := s.Item("A35")
	assert.Equal(t, 0, it.X, "rejected update must not mutate")
}

func TestUpdateItemResizeStaysInBounds(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 1100, 0))

	err := s.UpdateItem("A35", ItemUpdate{W: intPtr(200)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindOutOfBounds, ve.Kind)
}

func TestUpdateItemReshapeResetsGrids(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	err := s.UpdateItem("A35", ItemUpdate{Floors: intPtr(3), Rows: intPtr(4)})
	require.NoError(t, err)

	it, _ := s.Item("A35")
	assert.Len(t, it.CellAvailability, 3)
	assert.Len(t, it.CellAvailability[0], 4)
	assert.Len(t, it.Pillars, 5)
}

func TestUpdateItemRenameEmitsEvent(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	err := s.UpdateItem("A35", ItemUpdate{Location: strPtr("B12")})
	require.NoError(t, err)

	var rename *Event
	for i := range events {
		if events[i].Type == EventLocationRenamed {
			rename = &events[i]
		}
	}
	require.NotNil(t, rename)
	assert.Equal(t, "A35", rename.OldLocation)
	assert.Equal(t, "B12", rename.Location)
	assert.Equal(t, "EA2-F", rename.WhsCode)
	assert.Equal(t, "F-ZONE", rename.ZoneCode)
}

func TestUpdateItemNotFound(t *testing.T) {
	s := newTestSession(t)
	err := s.UpdateItem("nope", ItemUpdate{X: intPtr(0)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindNotFound, ve.Kind)
}

func TestRemoveItem(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))
	s.SetSelection([]string{"A35"})

	s.RemoveItem("A35")
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Selection())

	s.RemoveItem("A35") // unknown id is a no-op
	assert.Empty(t, s.Items())
}

func TestListenerMayReadSessionSynchronously(t *testing.T) {
	s := newTestSession(t)

	var seen *Item
	s.Subscribe(func(ev Event) {
		if ev.Type == EventItemAdded {
			if it, ok := s.Item(ev.ItemID); ok {
				seen = it
			}
		}
	})

	_, err := s.AddItem(rackAt("A35", 0, 0), nil)
	require.NoError(t, err)
	require.NotNil(t, seen, "listener runs outside the session lock and sees the committed item")
	assert.Equal(t, "A35", seen.Location)
}

func TestListenerPanicDoesNotAffectMutation(t *testing.T) {
	s := newTestSession(t)
	s.Subscribe(func(Event) { panic("listener bug") })

	_, err := s.AddItem(rackAt("A35", 0, 0), nil)
	require.NoError(t, err)
	assert.Len(t, s.Items(), 1)
}

func TestDuplicateItems(t *testing.T) {
	s := newTestSession(t, rackAt("F03-01", 0, 0))

	added, failed := s.DuplicateItems([]string{"F03-01"})
	require.Len(t, added, 1)
	assert.Empty(t, failed)
	assert.Equal(t, "F03-01 (1)", added[0].Location)
	assert.NotEqual(t, "F03-01", added[0].ID)
	// first offset that fits: directly to the right
	assert.Equal(t, 100, added[0].X)
	assert.Equal(t, 0, added[0].Y)

	added, _ = s.DuplicateItems([]string{"F03-01"})
	require.Len(t, added, 1)
	assert.Equal(t, "F03-01 (2)", added[0].Location, "lowest unused suffix")
}

func TestDuplicateItemsNoRoom(t *testing.T) {
	grid := Grid{CellSize: 20, Cols: 5, Rows: 2, SnapToGrid: false} // 100x40 canvas
	s := NewSession("EA2-F", "F-ZONE", grid)
	_, err := s.AddItem(rackAt("A35", 0, 0), nil) // fills the canvas
	require.NoError(t, err)

	added, failed := s.DuplicateItems([]string{"A35", "ghost"})
	assert.Empty(t, added)
	assert.ElementsMatch(t, []string{"A35", "ghost"}, failed)
	assert.Len(t, s.Items(), 1)
}

func TestMoveByPartialApplication(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0), rackAt("A36", 1100, 0))

	moved, failed := s.MoveBy([]string{"A35", "A36"}, 100, 0)
	assert.Equal(t, []string{"A35"}, moved)
	assert.Equal(t, []string{"A36"}, failed, "A36 would leave the canvas")

	a35, _ := s.Item("A35")
	a36, _ := s.Item("A36")
	assert.Equal(t, 100, a35.X)
	assert.Equal(t, 1100, a36.X)
}

func TestRotateSelected(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))
	_, err := s.AddItem(&Item{ID: "B1", Type: ItemFlat, Location: "B1", X: 300, Y: 300, W: 100, H: 40}, nil)
	require.NoError(t, err)

	s.SetSelection([]string{"A35", "B1"})
	rotated, failed := s.RotateSelected()
	assert.Equal(t, []string{"A35"}, rotated)
	assert.Equal(t, []string{"B1"}, failed, "flats cannot rotate")

	it, _ := s.Item("A35")
	assert.Equal(t, 40, it.W)
	assert.Equal(t, 100, it.H)
	assert.Equal(t, 90, it.Rotation)
}

func TestRotateSelectedBlockedByNeighbor(t *testing.T) {
	// rotating A35 (100x40) to 40x100 would collide with A36 below it
	s := newTestSession(t, rackAt("A35", 0, 0), rackAt("A36", 0, 40))
	s.SetSelection([]string{"A35"})

	rotated, failed := s.RotateSelected()
	assert.Empty(t, rotated)
	assert.Equal(t, []string{"A35"}, failed)

	it, _ := s.Item("A35")
	assert.Equal(t, 100, it.W, "blocked rotation must not mutate")
}

func TestUndoRedo(t *testing.T) {
	s := newTestSession(t)

	_, err := s.AddItem(rackAt("A35", 0, 0), nil)
	require.NoError(t, err)
	_, err = s.AddItem(rackAt("A36", 200, 0), nil)
	require.NoError(t, err)

	s.Undo()
	assert.Len(t, s.Items(), 1)
	s.Undo()
	assert.Empty(t, s.Items())
	s.Undo() // at the start: no-op
	assert.Empty(t, s.Items())

	s.Redo()
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "A35", s.Items()[0].ID)
	s.Redo()
	assert.Len(t, s.Items(), 2)
	s.Redo() // at the end: no-op
	assert.Len(t, s.Items(), 2)
}

func TestUndoRestoresFullItemState(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	require.NoError(t, s.SetCellRestriction("A35", 0, 1, &Restriction{ItemCodes: []string{"M-1"}}))
	s.Undo()

	it, _ := s.Item("A35")
	assert.Nil(t, it.CellRestrictions[0][1])

	s.Redo()
	it, _ = s.Item("A35")
	require.NotNil(t, it.CellRestrictions[0][1])
	assert.Equal(t, []string{"M-1"}, it.CellRestrictions[0][1].ItemCodes)
}

func TestCheckpointTruncatesRedoTail(t *testing.T) {
	s := newTestSession(t)
	_, err := s.AddItem(rackAt("A35", 0, 0), nil)
	require.NoError(t, err)
	_, err = s.AddItem(rackAt("A36", 200, 0), nil)
	require.NoError(t, err)

	s.Undo()
	_, err = s.AddItem(rackAt("A37", 400, 0), nil)
	require.NoError(t, err)

	s.Redo() // redo tail was discarded by the new checkpoint
	ids := []string{s.Items()[0].ID, s.Items()[1].ID}
	assert.ElementsMatch(t, []string{"A35", "A37"}, ids)
}

func TestHistoryBounded(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 30; i++ {
		_, err := s.AddItem(&Item{Type: ItemFlat, Location: "B", X: 0, Y: 0, W: 1, H: 1}, nil)
		require.NoError(t, err)
		s.RemoveItem(s.Items()[0].ID)
	}
	// far more checkpoints than the limit: undo drains without going negative
	for i := 0; i < 50; i++ {
		s.Undo()
	}
	assert.NotNil(t, s.Items())
}

func TestEditCancelRestoresItemsAndHistory(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))
	s.SetSelection([]string{"A35"})

	s.BeginEdit()
	assert.True(t, s.Editing())

	_, err := s.AddItem(rackAt("A36", 200, 0), nil)
	require.NoError(t, err)
	require.NoError(t, s.UpdateItem("A35", ItemUpdate{Location: strPtr("Z99")}))
	s.SetSelection(nil)

	s.CancelEdit()
	assert.False(t, s.Editing())

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "A35", s.Items()[0].Location)
	assert.Equal(t, []string{"A35"}, s.Selection())

	// undo history rolled back too: undoing now removes A35, not Z99/A36 states
	s.Undo()
	assert.Empty(t, s.Items())
	s.Redo()
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "A35", s.Items()[0].Location)
}

func TestEditCommitKeepsChanges(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	s.BeginEdit()
	_, err := s.AddItem(rackAt("A36", 200, 0), nil)
	require.NoError(t, err)
	s.CommitEdit()

	assert.False(t, s.Editing())
	assert.Len(t, s.Items(), 2)

	// history from inside the edit survives the commit
	s.Undo()
	assert.Len(t, s.Items(), 1)
}

func TestRestoreResetsHistory(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	s.Restore([]*Item{rackAt("B1", 0, 0)})
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "B1", s.Items()[0].ID)

	s.Undo()
	assert.Len(t, s.Items(), 1, "restored state is the new history root")
}

func TestItemsReturnsDeepCopy(t *testing.T) {
	s := newTestSession(t, rackAt("A35", 0, 0))

	s.Items()[0].X = 999
	got, _ := s.Item("A35")
	assert.Equal(t, 0, got.X)
}
