package controllers

import (
	"errors"

	"zonelayout-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(DB *gorm.DB) *CategoryController {
	return &CategoryController{DB: DB}
}

type majorCategoryInput struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order"`
}

type minorCategoryInput struct {
	MajorCategoryID uint   `json:"major_category_id" validate:"required"`
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Description     string `json:"description"`
}

type materialInput struct {
	ItemCode      string `json:"item_code" validate:"required,min=1,max=50"`
	ItemName      string `json:"item_name" validate:"required,min=1"`
	MajorCategory string `json:"major_category"`
	MinorCategory string `json:"minor_category"`
}

// GET /
func (cc *CategoryController) GetMajorCategories(ctx *fiber.Ctx) error {
	var categories []models.MajorCategory
	if err := cc.DB.Order("display_order asc, name asc").Find(&categories).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": categories})
}

// POST /
func (cc *CategoryController) CreateMajorCategory(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))

	var input majorCategoryInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.MajorCategory
	if err := cc.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Category already exists"})
	}

	category := models.MajorCategory{
		Name:         input.Name,
		Description:  input.Description,
		Color:        input.Color,
		DisplayOrder: input.DisplayOrder,
		CreatedBy:    userID,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Category created successfully", "data": category})
}

// PUT /:id
func (cc *CategoryController) UpdateMajorCategory(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input majorCategoryInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var category models.MajorCategory
	if err := cc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Category not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Color = input.Color
	category.DisplayOrder = input.DisplayOrder
	category.UpdatedBy = userID
	if err := cc.DB.Save(&category).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Category updated successfully", "data": category})
}

// DELETE /:id
func (cc *CategoryController) DeleteMajorCategory(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var count int64
	if err := cc.DB.Model(&models.MinorCategory{}).Where("major_category_id = ?", id).Count(&count).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if count > 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Category still has minor categories",
		})
	}

	if err := cc.DB.Delete(&models.MajorCategory{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Category deleted successfully"})
}

// GET /:id/minors
func (cc *CategoryController) GetMinorCategories(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	var minors []models.MinorCategory
	if err := cc.DB.Where("major_category_id = ?", id).Order("name asc").Find(&minors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": minors})
}

// POST /minors
func (cc *CategoryController) CreateMinorCategory(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))

	var input minorCategoryInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var major models.MajorCategory
	if err := cc.DB.First(&major, input.MajorCategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Major category not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	minor := models.MinorCategory{
		MajorCategoryID: input.MajorCategoryID,
		Name:            input.Name,
		Description:     input.Description,
		CreatedBy:       userID,
	}
	if err := cc.DB.Create(&minor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Minor category created successfully", "data": minor})
}

// DELETE /minors/:id
func (cc *CategoryController) DeleteMinorCategory(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	if err := cc.DB.Delete(&models.MinorCategory{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Minor category deleted successfully"})
}

// GET /materials
func (cc *CategoryController) GetMaterials(ctx *fiber.Ctx) error {
	var materials []models.Material
	query := cc.DB.Order("item_code asc")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("item_code like ? or item_name like ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Find(&materials).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": materials})
}

// POST /materials
func (cc *CategoryController) CreateMaterial(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))

	var input materialInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Material
	if err := cc.DB.Where("item_code = ?", input.ItemCode).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Material already exists"})
	}

	material := models.Material{
		ItemCode:      input.ItemCode,
		ItemName:      input.ItemName,
		MajorCategory: input.MajorCategory,
		MinorCategory: input.MinorCategory,
		CreatedBy:     userID,
	}
	if err := cc.DB.Create(&material).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Material created successfully", "data": material})
}

// PUT /materials/:id
func (cc *CategoryController) UpdateMaterial(ctx *fiber.Ctx) error {
	userID := int(ctx.Locals("userID").(float64))
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input materialInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var material models.Material
	if err := cc.DB.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	material.ItemCode = input.ItemCode
	material.ItemName = input.ItemName
	material.MajorCategory = input.MajorCategory
	material.MinorCategory = input.MinorCategory
	material.UpdatedBy = userID
	if err := cc.DB.Save(&material).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Material updated successfully", "data": material})
}

// DELETE /materials/:id
func (cc *CategoryController) DeleteMaterial(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	if err := cc.DB.Delete(&models.Material{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Material deleted successfully"})
}
