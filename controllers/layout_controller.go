package controllers

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"zonelayout-app/controllers/helpers"
	"zonelayout-app/layout"
	"zonelayout-app/models"
	"zonelayout-app/recon"
	"zonelayout-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LayoutController owns the in-memory layout sessions, one per warehouse+zone,
// and the single-flight save discipline on top of them.
type LayoutController struct {
	DB *gorm.DB

	mu       sync.Mutex
	sessions map[string]*layout.Session
	saving   map[string]bool
}

func NewLayoutController(DB *gorm.DB) *LayoutController {
	return &LayoutController{
		DB:       DB,
		sessions: make(map[string]*layout.Session),
		saving:   make(map[string]bool),
	}
}

func sessionKey(whsCode, zoneCode string) string {
	return whsCode + "|" + zoneCode
}

// getSession returns the working session for a zone, loading the persisted
// layout on first access. An absent layout starts an empty zone.
func (lc *LayoutController) getSession(whsCode, zoneCode string) (*layout.Session, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	key := sessionKey(whsCode, zoneCode)
	if s, ok := lc.sessions[key]; ok {
		return s, nil
	}

	repo := repositories.NewLayoutRepository(lc.DB)
	zl, err := repo.Load(whsCode, zoneCode)
	if err != nil {
		return nil, err
	}
	items, grid, err := repositories.DecodeItems(zl)
	if err != nil {
		return nil, err
	}

	s := layout.NewSession(whsCode, zoneCode, grid)
	s.Restore(items)
	s.Subscribe(lc.onLayoutEvent)
	lc.sessions[key] = s
	return s, nil
}

// onLayoutEvent delivers audit rows and the post-rename inventory refetch,
// both fire-and-forget.
func (lc *LayoutController) onLayoutEvent(ev layout.Event) {
	go helpers.InsertActivityLog(lc.DB, models.ActivityLog{
		WhsCode:  ev.WhsCode,
		ZoneCode: ev.ZoneCode,
		Event:    string(ev.Type),
		ItemID:   ev.ItemID,
		Location: ev.Location,
		Detail:   ev.Detail,
	})

	if ev.Type == layout.EventLocationRenamed {
		go lc.refetchMatches(ev)
	}
}

// refetchMatches warms the match set for a renamed location. Failures only
// surface a warning; the rename itself already committed.
func (lc *LayoutController) refetchMatches(ev layout.Event) {
	s, err := lc.getSession(ev.WhsCode, ev.ZoneCode)
	if err != nil {
		log.Println("Warning: refetch after rename failed:", err)
		return
	}
	item, ok := s.Item(ev.ItemID)
	if !ok {
		return
	}
	rows, err := repositories.NewInventoryRepository(lc.DB).GetSnapshot(ev.WhsCode)
	if err != nil {
		log.Println("Warning: refetch after rename failed:", err)
		return
	}
	matched := recon.MatchRows(ev.ZoneCode, item, rows)
	log.Printf("Location %s renamed to %s: %d inventory rows now match", ev.OldLocation, ev.Location, len(matched))
}

func respondValidation(ctx *fiber.Ctx, err error) error {
	var ve *layout.ValidationError
	if errors.As(err, &ve) {
		status := fiber.StatusUnprocessableEntity
		if ve.Kind == layout.KindNotFound {
			status = fiber.StatusNotFound
		}
		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   ve.Error(),
			"kind":    string(ve.Kind),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// GET /:whs/:zone
func (lc *LayoutController) GetLayout(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"grid":      s.Grid(),
			"items":     s.Items(),
			"selection": s.Selection(),
			"editing":   s.Editing(),
		},
	})
}

// PUT /:whs/:zone/grid
func (lc *LayoutController) SetGrid(ctx *fiber.Ctx) error {
	var grid layout.Grid
	if err := ctx.BodyParser(&grid); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.SetGrid(grid)
	return ctx.JSON(fiber.Map{"success": true, "data": grid})
}

type addItemInput struct {
	ID       string `json:"id"`
	Type     string `json:"type" validate:"required,oneof=rack flat"`
	Location string `json:"location" validate:"required,min=1"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w" validate:"required,min=1"`
	H        int    `json:"h" validate:"required,min=1"`
	Floors   int    `json:"floors"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`

	NoCapacityLimit bool `json:"no_capacity_limit"`
	MaxCapacity     int  `json:"max_capacity"`

	AutoPlace bool `json:"auto_place"`
}

// POST /:whs/:zone/items
func (lc *LayoutController) AddItem(ctx *fiber.Ctx) error {
	var input addItemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	item := &layout.Item{
		ID:              input.ID,
		Type:            layout.ItemType(input.Type),
		Location:        input.Location,
		X:               input.X,
		Y:               input.Y,
		W:               input.W,
		H:               input.H,
		Floors:          input.Floors,
		Rows:            input.Rows,
		Cols:            input.Cols,
		NoCapacityLimit: input.NoCapacityLimit,
		MaxCapacity:     input.MaxCapacity,
	}

	var hint layout.PlacementHint
	if input.AutoPlace {
		hint = firstFreePosition(s)
	}

	placed, err := s.AddItem(item, hint)
	if err != nil {
		return respondValidation(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item placed successfully",
		"data":    placed,
	})
}

// firstFreePosition scans the grid row by row for a spot where the footprint
// fits without overlap.
func firstFreePosition(s *layout.Session) layout.PlacementHint {
	grid := s.Grid()
	items := s.Items()
	step := grid.CellSize
	if step <= 0 {
		step = 1
	}
	return func(desired layout.Rect) (int, int, bool) {
		for y := 0; y+desired.H <= grid.Height(); y += step {
			for x := 0; x+desired.W <= grid.Width(); x += step {
				candidate := layout.Rect{X: x, Y: y, W: desired.W, H: desired.H}
				free := true
				for _, other := range items {
					if layout.Overlaps(candidate, other.Rect()) {
						free = false
						break
					}
				}
				if free {
					return x, y, true
				}
			}
		}
		return 0, 0, false
	}
}

// PUT /:whs/:zone/items/:id
func (lc *LayoutController) UpdateItem(ctx *fiber.Ctx) error {
	var upd layout.ItemUpdate
	if err := ctx.BodyParser(&upd); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.UpdateItem(ctx.Params("id"), upd); err != nil {
		return respondValidation(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Item updated successfully"})
}

// DELETE /:whs/:zone/items/:id
func (lc *LayoutController) RemoveItem(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.RemoveItem(ctx.Params("id"))
	return ctx.JSON(fiber.Map{"success": true, "message": "Item removed successfully"})
}

type idsInput struct {
	IDs []string `json:"ids" validate:"required,min=1"`
	Dx  int      `json:"dx"`
	Dy  int      `json:"dy"`
}

// POST /:whs/:zone/items/duplicate
func (lc *LayoutController) DuplicateItems(ctx *fiber.Ctx) error {
	var input idsInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	added, failed := s.DuplicateItems(input.IDs)
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d item(s) duplicated, %d skipped", len(added), len(failed)),
		"data":    fiber.Map{"added": added, "failed": failed},
	})
}

// POST /:whs/:zone/items/move
func (lc *LayoutController) MoveItems(ctx *fiber.Ctx) error {
	var input idsInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	moved, failed := s.MoveBy(input.IDs, input.Dx, input.Dy)
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"moved": moved, "failed": failed},
	})
}

// POST /:whs/:zone/selection
func (lc *LayoutController) SetSelection(ctx *fiber.Ctx) error {
	var input idsInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.SetSelection(input.IDs)
	return ctx.JSON(fiber.Map{"success": true, "data": s.Selection()})
}

// POST /:whs/:zone/items/rotate
func (lc *LayoutController) RotateSelected(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	rotated, failed := s.RotateSelected()
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"rotated": rotated, "failed": failed},
	})
}

type restrictionInput struct {
	Clear       bool                `json:"clear"`
	Restriction *layout.Restriction `json:"restriction"`
}

func (in restrictionInput) value() *layout.Restriction {
	if in.Clear {
		return nil
	}
	return in.Restriction
}

// PUT /:whs/:zone/items/:id/restriction
func (lc *LayoutController) SetItemRestriction(ctx *fiber.Ctx) error {
	var input restrictionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.SetItemRestriction(ctx.Params("id"), input.value()); err != nil {
		return respondValidation(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Restriction updated"})
}

// PUT /:whs/:zone/items/:id/floors/:floor/restriction
func (lc *LayoutController) SetFloorRestriction(ctx *fiber.Ctx) error {
	floor, err := ctx.ParamsInt("floor")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid floor"})
	}
	var input restrictionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.SetFloorRestriction(ctx.Params("id"), floor, input.value()); err != nil {
		return respondValidation(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Floor restriction updated"})
}

// PUT /:whs/:zone/items/:id/floors/:floor/cells/:cell/restriction
func (lc *LayoutController) SetCellRestriction(ctx *fiber.Ctx) error {
	floor, err := ctx.ParamsInt("floor")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid floor"})
	}
	cell, err := ctx.ParamsInt("cell")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cell"})
	}
	var input restrictionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.SetCellRestriction(ctx.Params("id"), floor, cell, input.value()); err != nil {
		return respondValidation(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Cell restriction updated"})
}

// POST /:whs/:zone/undo
func (lc *LayoutController) Undo(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.Undo()
	return ctx.JSON(fiber.Map{"success": true, "data": s.Items()})
}

// POST /:whs/:zone/redo
func (lc *LayoutController) Redo(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.Redo()
	return ctx.JSON(fiber.Map{"success": true, "data": s.Items()})
}

// POST /:whs/:zone/edit/begin
func (lc *LayoutController) BeginEdit(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.BeginEdit()
	return ctx.JSON(fiber.Map{"success": true, "message": "Edit mode started"})
}

// POST /:whs/:zone/edit/commit
func (lc *LayoutController) CommitEdit(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.CommitEdit()
	return ctx.JSON(fiber.Map{"success": true, "message": "Edit committed"})
}

// POST /:whs/:zone/edit/cancel
func (lc *LayoutController) CancelEdit(ctx *fiber.Ctx) error {
	s, err := lc.getSession(ctx.Params("whs"), ctx.Params("zone"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.CancelEdit()
	return ctx.JSON(fiber.Map{"success": true, "message": "Edit canceled", "data": s.Items()})
}

// SaveLayout persists asynchronously with a single-flight guard per zone: a
// save issued while one is already in flight is rejected with a retryable
// conflict instead of racing it.
// POST /:whs/:zone/save
func (lc *LayoutController) SaveLayout(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))
	whsCode := ctx.Params("whs")
	zoneCode := ctx.Params("zone")

	s, err := lc.getSession(whsCode, zoneCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	key := sessionKey(whsCode, zoneCode)
	lc.mu.Lock()
	if lc.saving[key] {
		lc.mu.Unlock()
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":   false,
			"retryable": true,
			"message":   "A save is already in flight for this zone, retry shortly",
		})
	}
	lc.saving[key] = true
	lc.mu.Unlock()

	grid := s.Grid()
	items := s.Items()

	go func() {
		defer func() {
			lc.mu.Lock()
			delete(lc.saving, key)
			lc.mu.Unlock()
		}()

		repo := repositories.NewLayoutRepository(lc.DB)
		version, err := repo.Save(whsCode, zoneCode, grid, items, userID)
		if err != nil {
			log.Println("Warning: layout save failed:", err)
			helpers.SendAlertEmail(
				"Zone layout save failed",
				fmt.Sprintf("Warehouse %s zone %s: %v", whsCode, zoneCode, err))
			return
		}
		helpers.InsertActivityLog(lc.DB, models.ActivityLog{
			WhsCode:   whsCode,
			ZoneCode:  zoneCode,
			Event:     "layout_saved",
			Detail:    fmt.Sprintf("version %d, %d item(s)", version, len(items)),
			CreatedBy: userID,
		})
	}()

	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Save started",
	})
}
