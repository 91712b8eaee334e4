package report

import (
	"assetverse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TypeDistributionItem struct {
	ProductType string `json:"product_type"`
	Count       int64  `json:"count"`
	TotalStock  int64  `json:"total_stock"`
}

// GET /api/reports/asset-types (HR): distribution of the caller's inventory
// by product type.
func AssetTypeDistributionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var items []TypeDistributionItem
		err = db.Raw(`
			SELECT product_type, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS total_stock
			FROM assets
			WHERE hr_email = ?
			GROUP BY product_type
			ORDER BY count DESC
		`, hrEmail).Scan(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Report could not be generated")
		}

		return c.JSON(items)
	}
}

type TopRequestedItem struct {
	AssetName string `json:"asset_name"`
	Requests  int64  `json:"requests"`
}

// GET /api/reports/top-requested (HR): five most requested assets of the
// caller's company.
func TopRequestedAssetsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var items []TopRequestedItem
		err = db.Raw(`
			SELECT asset_name, COUNT(*) AS requests
			FROM asset_requests
			WHERE hr_email = ?
			GROUP BY asset_name
			ORDER BY requests DESC
			LIMIT 5
		`, hrEmail).Scan(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Report could not be generated")
		}

		return c.JSON(items)
	}
}
