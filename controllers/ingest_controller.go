package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"zonelayout-app/controllers/helpers"
	"zonelayout-app/models"
	"zonelayout-app/recon"
	"zonelayout-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const maxUploadSize = 10 * 1024 * 1024

type IngestController struct {
	DB *gorm.DB
}

func NewIngestController(DB *gorm.DB) *IngestController {
	return &IngestController{DB: DB}
}

type rowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// wms sheet: Zone | Location | Item Code | Lot | Quantity | Status
// sap sheet: Zone | Location | Item Code | Lot | Unrestricted | Quality Inspection | Blocked | Returns
func parseInventorySheet(sourceType string, rows [][]string) ([]models.InventoryRow, []rowError) {
	var out []models.InventoryRow
	var rowErrors []rowError

	parseQty := func(rowNum int, label, raw string) (float64, bool) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, true
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: fmt.Sprintf("%s is not a number: %q", label, raw)})
			return 0, false
		}
		return v, true
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		zone := cell(row, 0)
		location := cell(row, 1)
		itemCode := cell(row, 2)
		lotKey := cell(row, 3)

		if zone == "" && location == "" && itemCode == "" {
			continue // blank line
		}
		if location == "" {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "Location is required"})
			continue
		}
		if itemCode == "" {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "Item code is required"})
			continue
		}

		ir := models.InventoryRow{
			Zone:     recon.NormalizeZone(zone),
			Location: recon.NormalizeLocation(location),
			ItemCode: itemCode,
			LotKey:   lotKey,
		}

		if sourceType == string(recon.SourceSAP) {
			unrestricted, ok1 := parseQty(rowNum, "Unrestricted", cell(row, 4))
			quality, ok2 := parseQty(rowNum, "Quality inspection", cell(row, 5))
			blocked, ok3 := parseQty(rowNum, "Blocked", cell(row, 6))
			returns, ok4 := parseQty(rowNum, "Returns", cell(row, 7))
			if !ok1 || !ok2 || !ok3 || !ok4 {
				continue
			}
			ir.UnrestrictedQty = unrestricted
			ir.QualityInspectionQty = quality
			ir.BlockedQty = blocked
			ir.ReturnsQty = returns
			ir.Quantity = unrestricted + quality + blocked + returns
		} else {
			qty, ok := parseQty(rowNum, "Quantity", cell(row, 4))
			if !ok {
				continue
			}
			ir.Quantity = qty
			ir.Status = cell(row, 5)
		}

		out = append(out, ir)
	}
	return out, rowErrors
}

// POST /:whs/upload/:source
func (ic *IngestController) UploadInventory(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))
	whsCode := ctx.Params("whs")
	sourceType := strings.ToLower(ctx.Params("source"))

	if sourceType != string(recon.SourceWMS) && sourceType != string(recon.SourceSAP) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Source must be wms or sap",
		})
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "File is required"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only .xlsx or .xls files are allowed"})
	}
	if file.Size > maxUploadSize {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "File exceeds the 10MB limit"})
	}

	src, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Unable to read Excel file"})
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	parsed, rowErrors := parseInventorySheet(sourceType, rows)
	if len(rowErrors) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("%d row(s) failed validation", len(rowErrors)),
			"errors":  rowErrors,
		})
	}
	if len(parsed) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "File contains no data rows"})
	}

	for i := range parsed {
		parsed[i].CreatedBy = userID
	}

	batchID := uuid.NewString()
	repo := repositories.NewInventoryRepository(ic.DB)
	if err := repo.ReplaceSnapshot(whsCode, sourceType, batchID, parsed); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go helpers.InsertActivityLog(ic.DB, models.ActivityLog{
		WhsCode:   whsCode,
		Event:     "inventory_uploaded",
		Detail:    fmt.Sprintf("source %s, batch %s, %d row(s)", sourceType, batchID, len(parsed)),
		CreatedBy: userID,
	})

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d row(s) imported", len(parsed)),
		"data": fiber.Map{
			"batch_id": batchID,
			"rows":     len(parsed),
		},
	})
}
