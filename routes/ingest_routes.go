package routes

import (
	"zonelayout-app/config"
	"zonelayout-app/controllers"
	"zonelayout-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupIngestRoutes(app *fiber.App, db *gorm.DB) {
	ingestController := controllers.NewIngestController(db)

	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)

	api.Post("/:whs/upload/:source", ingestController.UploadInventory)
}
