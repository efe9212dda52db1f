package controllers

import (
	"fmt"
	"strings"
	"time"

	"zonelayout-app/controllers/helpers"
	"zonelayout-app/recon"
	"zonelayout-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReconciliationController struct {
	DB      *gorm.DB
	Layouts *LayoutController
}

func NewReconciliationController(DB *gorm.DB, layouts *LayoutController) *ReconciliationController {
	return &ReconciliationController{DB: DB, Layouts: layouts}
}

func (rc *ReconciliationController) summarize(whsCode, zoneCode string) (recon.ZoneSummary, error) {
	s, err := rc.Layouts.getSession(whsCode, zoneCode)
	if err != nil {
		return recon.ZoneSummary{}, err
	}
	rows, err := repositories.NewInventoryRepository(rc.DB).GetSnapshot(whsCode)
	if err != nil {
		return recon.ZoneSummary{}, err
	}
	return recon.Summarize(zoneCode, s.Items(), rows, recon.DefaultClassifier()), nil
}

// alertVariance notifies the configured recipients about locations holding
// material their restrictions disallow. Fire-and-forget.
func (rc *ReconciliationController) alertVariance(whsCode, zoneCode string, summary recon.ZoneSummary) {
	var locations []string
	for _, item := range summary.Items {
		if item.CodeVariance {
			locations = append(locations, item.Location)
		}
	}
	if len(locations) == 0 {
		return
	}
	helpers.SendAlertEmail(
		fmt.Sprintf("Restriction variance in %s %s", whsCode, zoneCode),
		fmt.Sprintf("Locations holding disallowed material: %s", strings.Join(locations, ", ")))
}

// GET /:whs/:zone
func (rc *ReconciliationController) GetZoneSummary(ctx *fiber.Ctx) error {
	whsCode := ctx.Params("whs")
	zoneCode := ctx.Params("zone")

	summary, err := rc.summarize(whsCode, zoneCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go rc.alertVariance(whsCode, zoneCode, summary)

	lastFetch, err := repositories.NewInventoryRepository(rc.DB).LastFetchedAt(whsCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"summary":      summary,
			"last_fetched": lastFetch,
		},
	})
}

// GET /:whs/:zone/items/:id
func (rc *ReconciliationController) GetItemSummary(ctx *fiber.Ctx) error {
	whsCode := ctx.Params("whs")
	zoneCode := ctx.Params("zone")

	s, err := rc.Layouts.getSession(whsCode, zoneCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	item, ok := s.Item(ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Item not found"})
	}
	rows, err := repositories.NewInventoryRepository(rc.DB).GetSnapshot(whsCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	matched := recon.MatchRows(zoneCode, item, rows)
	summary := recon.Aggregate(item, matched, recon.DefaultClassifier())

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"summary": summary,
			"rows":    matched,
		},
	})
}

// GET /:whs/:zone/export
func (rc *ReconciliationController) ExportZoneSummary(ctx *fiber.Ctx) error {
	whsCode := ctx.Params("whs")
	zoneCode := ctx.Params("zone")

	summary, err := rc.summarize(whsCode, zoneCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Reconciliation"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Location", "Occupancy", "Max Capacity", "Utilization %",
		"Total Qty", "Unique Codes", "Available", "Quality Hold", "Blocked",
		"Top Lot", "Code Variance",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, item := range summary.Items {
		row := i + 2
		maxCap := fmt.Sprintf("%d", item.MaxCapacity)
		if item.Unbounded {
			maxCap = "unlimited"
		}
		topLot := ""
		if len(item.LotDistribution) > 0 {
			topLot = fmt.Sprintf("%s (%.1f%%)", item.LotDistribution[0].LotKey, item.LotDistribution[0].Percentage)
		}
		values := []interface{}{
			item.Location,
			item.CurrentOccupancy,
			maxCap,
			item.UtilizationPercentage,
			item.TotalQuantity,
			item.UniqueItemCodes,
			item.StockStatus.Available,
			item.StockStatus.QualityHold,
			item.StockStatus.Blocked,
			topLot,
			item.CodeVariance,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fileName := fmt.Sprintf("reconciliation_%s_%s_%s.xlsx", whsCode, zoneCode, time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return nil
}
