package main

import (
	"fmt"
	"log"

	"zonelayout-app/config"
	"zonelayout-app/controllers/idgen"
	"zonelayout-app/database"
	"zonelayout-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	database.Seed(db)

	idgen.Init()

	config.SetupCORS(app)

	layoutController := routes.SetupLayoutRoutes(app, db)
	routes.SetupReconciliationRoutes(app, db, layoutController)
	routes.SetupIngestRoutes(app, db)
	routes.SetupCategoryRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
