package routes

import (
	"zonelayout-app/config"
	"zonelayout-app/controllers"
	"zonelayout-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupLayoutRoutes(app *fiber.App, db *gorm.DB) *controllers.LayoutController {
	layoutController := controllers.NewLayoutController(db)

	api := app.Group(config.MAIN_ROUTES+"/layouts", middleware.AuthMiddleware)

	api.Get("/:whs/:zone", layoutController.GetLayout)
	api.Put("/:whs/:zone/grid", layoutController.SetGrid)
	api.Post("/:whs/:zone/save", layoutController.SaveLayout)

	api.Post("/:whs/:zone/items", layoutController.AddItem)
	api.Post("/:whs/:zone/items/duplicate", layoutController.DuplicateItems)
	api.Post("/:whs/:zone/items/move", layoutController.MoveItems)
	api.Post("/:whs/:zone/items/rotate", layoutController.RotateSelected)
	api.Put("/:whs/:zone/items/:id", layoutController.UpdateItem)
	api.Delete("/:whs/:zone/items/:id", layoutController.RemoveItem)

	api.Put("/:whs/:zone/items/:id/restriction", layoutController.SetItemRestriction)
	api.Put("/:whs/:zone/items/:id/floors/:floor/restriction", layoutController.SetFloorRestriction)
	api.Put("/:whs/:zone/items/:id/floors/:floor/cells/:cell/restriction", layoutController.SetCellRestriction)

	api.Post("/:whs/:zone/selection", layoutController.SetSelection)
	api.Post("/:whs/:zone/undo", layoutController.Undo)
	api.Post("/:whs/:zone/redo", layoutController.Redo)
	api.Post("/:whs/:zone/edit/begin", layoutController.BeginEdit)
	api.Post("/:whs/:zone/edit/commit", layoutController.CommitEdit)
	api.Post("/:whs/:zone/edit/cancel", layoutController.CancelEdit)

	return layoutController
}
