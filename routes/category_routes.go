package routes

import (
	"zonelayout-app/config"
	"zonelayout-app/controllers"
	"zonelayout-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCategoryRoutes(app *fiber.App, db *gorm.DB) {
	categoryController := controllers.NewCategoryController(db)

	api := app.Group(config.MAIN_ROUTES+"/categories", middleware.AuthMiddleware)

	api.Get("/", categoryController.GetMajorCategories)
	api.Post("/", categoryController.CreateMajorCategory)
	api.Put("/:id", categoryController.UpdateMajorCategory)
	api.Delete("/:id", categoryController.DeleteMajorCategory)
	api.Get("/:id/minors", categoryController.GetMinorCategories)
	api.Post("/minors", categoryController.CreateMinorCategory)
	api.Delete("/minors/:id", categoryController.DeleteMinorCategory)

	materials := app.Group(config.MAIN_ROUTES+"/materials", middleware.AuthMiddleware)
	materials.Get("/", categoryController.GetMaterials)
	materials.Post("/", categoryController.CreateMaterial)
	materials.Put("/:id", categoryController.UpdateMaterial)
	materials.Delete("/:id", categoryController.DeleteMaterial)
}
