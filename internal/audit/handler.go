package audit

import (
	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/audit-logs?entity_type=&action=&page=&limit=
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.AuditLog{}).Where("actor_email = ?", email)

		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be counted")
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be listed")
		}

		return c.JSON(fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"items": logs,
		})
	}
}
