package asset

import (
	"errors"
	"strings"

	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssetResponse struct {
	ID          uint   `json:"id"`
	HREmail     string `json:"hr_email"`
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
	CreatedAt   string `json:"created_at"`
}

type CreateAssetRequest struct {
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
}

type UpdateAssetRequest struct {
	ProductName *string `json:"product_name"`
	ProductType *string `json:"product_type"`
	Quantity    *int    `json:"quantity"`
}

func toAssetResponse(a *models.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		HREmail:     a.HREmail,
		ProductName: a.ProductName,
		ProductType: string(a.ProductType),
		Quantity:    a.Quantity,
		CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validAssetType(t string) bool {
	return t == string(models.AssetReturnable) || t == string(models.AssetNonReturnable)
}

// GET /api/assets?search=&type=&availability=&page=&limit=
// Visible to every authenticated user (employees browse to request).
func ListAssetsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Asset{})

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("product_name ILIKE ?", "%"+search+"%")
		}
		if t := c.Query("type"); t != "" {
			if !validAssetType(t) {
				return fiber.NewError(fiber.StatusBadRequest, "type must be 'returnable' or 'non-returnable'")
			}
			dbq = dbq.Where("product_type = ?", t)
		}
		switch c.Query("availability") {
		case "":
		case "available":
			dbq = dbq.Where("quantity > 0")
		case "out-of-stock":
			dbq = dbq.Where("quantity = 0")
		default:
			return fiber.NewError(fiber.StatusBadRequest, "availability must be 'available' or 'out-of-stock'")
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assets could not be counted")
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var assets []models.Asset
		if err := dbq.Order("product_name asc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&assets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assets could not be listed")
		}

		items := make([]AssetResponse, 0, len(assets))
		for i := range assets {
			items = append(items, toAssetResponse(&assets[i]))
		}

		return c.JSON(fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"items": items,
		})
	}
}

// GET /api/assets/mine (HR inventory)
func ListMyAssetsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.Asset{}).Where("hr_email = ?", hrEmail)
		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("product_name ILIKE ?", "%"+search+"%")
		}

		var assets []models.Asset
		if err := dbq.Order("product_name asc").Find(&assets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assets could not be listed")
		}

		items := make([]AssetResponse, 0, len(assets))
		for i := range assets {
			items = append(items, toAssetResponse(&assets[i]))
		}
		return c.JSON(items)
	}
}

// POST /api/assets (HR only)
func CreateAssetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var body CreateAssetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.ProductName = strings.TrimSpace(body.ProductName)
		if body.ProductName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product_name is required")
		}
		if !validAssetType(body.ProductType) {
			return fiber.NewError(fiber.StatusBadRequest, "product_type must be 'returnable' or 'non-returnable'")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
		}

		a := models.Asset{
			HREmail:     hrEmail,
			ProductName: body.ProductName,
			ProductType: models.AssetType(body.ProductType),
			Quantity:    body.Quantity,
		}

		if err := db.Create(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Asset could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toAssetResponse(&a))
	}
}

// PUT /api/assets/:id (HR only, own assets)
func UpdateAssetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var a models.Asset
		if err := db.First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Asset not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Asset could not be loaded")
		}
		if a.HREmail != hrEmail {
			return fiber.NewError(fiber.StatusForbidden, "This asset belongs to another HR account")
		}

		var body UpdateAssetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ProductName != nil {
			name := strings.TrimSpace(*body.ProductName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "product_name cannot be empty")
			}
			a.ProductName = name
		}
		if body.ProductType != nil {
			if !validAssetType(*body.ProductType) {
				return fiber.NewError(fiber.StatusBadRequest, "product_type must be 'returnable' or 'non-returnable'")
			}
			a.ProductType = models.AssetType(*body.ProductType)
		}
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
			}
			a.Quantity = *body.Quantity
		}

		if err := db.Save(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Asset could not be updated")
		}

		return c.JSON(toAssetResponse(&a))
	}
}

// DELETE /api/assets/:id (HR only, own assets)
func DeleteAssetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var a models.Asset
		if err := db.First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Asset not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Asset could not be loaded")
		}
		if a.HREmail != hrEmail {
			return fiber.NewError(fiber.StatusForbidden, "This asset belongs to another HR account")
		}

		if err := db.Delete(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Asset could not be deleted")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
