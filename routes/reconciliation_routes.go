package routes

import (
	"zonelayout-app/config"
	"zonelayout-app/controllers"
	"zonelayout-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReconciliationRoutes(app *fiber.App, db *gorm.DB, layouts *controllers.LayoutController) {
	reconController := controllers.NewReconciliationController(db, layouts)

	api := app.Group(config.MAIN_ROUTES+"/reconciliation", middleware.AuthMiddleware)

	api.Get("/:whs/:zone", reconController.GetZoneSummary)
	api.Get("/:whs/:zone/export", reconController.ExportZoneSummary)
	api.Get("/:whs/:zone/items/:id", reconController.GetItemSummary)
}
