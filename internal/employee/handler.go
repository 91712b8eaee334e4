package employee

import (
	"fmt"
	"strings"

	"assetverse-backend/internal/audit"
	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"
	"assetverse-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmployeeResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	AddedAt string `json:"added_at"`
}

// GET /api/employees (HR roster)
func ListEmployeesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var employees []models.Employee
		if err := db.Where("hr_email = ?", hrEmail).
			Order("added_at asc").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Employees could not be listed")
		}

		items := make([]EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			items = append(items, EmployeeResponse{
				ID:      e.ID,
				Email:   e.EmployeeEmail,
				Name:    e.Name,
				AddedAt: e.AddedAt.Format("2006-01-02"),
			})
		}

		var hr models.User
		limit := models.DefaultMemberLimit
		if err := db.Where("email = ?", hrEmail).First(&hr).Error; err == nil {
			limit = hr.MemberLimit
		}

		return c.JSON(fiber.Map{
			"member_limit": limit,
			"count":        len(items),
			"items":        items,
		})
	}
}

// DELETE /api/employees/:email (HR offboarding)
func RemoveEmployeeHandler(db *gorm.DB, svc *workflow.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		employeeEmail := strings.TrimSpace(strings.ToLower(c.Params("email")))
		if employeeEmail == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Employee email is required")
		}

		result, err := svc.RemoveEmployee(hrEmail, employeeEmail)
		if err != nil {
			if err == workflow.ErrNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Employee is not on your roster")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Employee could not be removed")
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			ActorEmail: hrEmail,
			ActorRole:  models.RoleHR,
			EntityType: "employee",
			Action:     models.AuditActionOffboard,
			Description: fmt.Sprintf("Removed %s (returned %d assets, rejected %d requests)",
				employeeEmail, result.ReturnedAssets, result.RejectedRequests),
			After: result,
		})

		return c.JSON(fiber.Map{
			"message":           "Employee removed",
			"returned_assets":   result.ReturnedAssets,
			"rejected_requests": result.RejectedRequests,
		})
	}
}

// GET /api/team (employee view: everyone on the rosters the caller belongs to)
func MyTeamHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var memberships []models.Employee
		if err := db.Where("employee_email = ?", email).Find(&memberships).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Team could not be loaded")
		}
		if len(memberships) == 0 {
			return c.JSON([]fiber.Map{})
		}

		hrEmails := make([]string, 0, len(memberships))
		for _, m := range memberships {
			hrEmails = append(hrEmails, m.HREmail)
		}

		var teammates []models.Employee
		if err := db.Where("hr_email IN ?", hrEmails).
			Order("added_at asc").Find(&teammates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Team could not be loaded")
		}

		items := make([]fiber.Map, 0, len(teammates))
		for _, t := range teammates {
			items = append(items, fiber.Map{
				"email":    t.EmployeeEmail,
				"name":     t.Name,
				"hr_email": t.HREmail,
				"added_at": t.AddedAt.Format("2006-01-02"),
			})
		}
		return c.JSON(items)
	}
}
