package workflow

import (
	"errors"
	"fmt"
	"strings"

	"assetverse-backend/internal/audit"
	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubmitRequestBody struct {
	AssetID uint   `json:"asset_id"`
	Email   string `json:"email"` // must match the authenticated caller
	Name    string `json:"name"`
	Note    string `json:"note"`
}

type RequestResponse struct {
	ID             uint   `json:"id"`
	AssetID        uint   `json:"asset_id"`
	AssetName      string `json:"asset_name"`
	AssetType      string `json:"asset_type"`
	HREmail        string `json:"hr_email"`
	RequesterEmail string `json:"requester_email"`
	RequesterName  string `json:"requester_name"`
	Note           string `json:"note"`
	Status         string `json:"status"`
	RequestedAt    string `json:"requested_at"`
	ApprovedAt     string `json:"approved_at,omitempty"`
}

func toRequestResponse(r *models.AssetRequest) RequestResponse {
	res := RequestResponse{
		ID:             r.ID,
		AssetID:        r.AssetID,
		AssetName:      r.AssetName,
		AssetType:      string(r.AssetType),
		HREmail:        r.HREmail,
		RequesterEmail: r.RequesterEmail,
		RequesterName:  r.RequesterName,
		Note:           r.Note,
		Status:         string(r.Status),
		RequestedAt:    r.RequestedAt.Format("2006-01-02 15:04:05"),
	}
	if r.ApprovedAt != nil {
		res.ApprovedAt = r.ApprovedAt.Format("2006-01-02 15:04:05")
	}
	return res
}

// httpError maps engine errors onto the HTTP error taxonomy.
func httpError(err error, fallback string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Record not found")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, ErrOutOfStock):
		return fiber.NewError(fiber.StatusConflict, "Asset is out of stock")
	case errors.Is(err, ErrSeatLimitReached):
		return fiber.NewError(fiber.StatusConflict, "Member limit reached, upgrade your package")
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(fiber.StatusBadRequest, "Request is not pending")
	case errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

// POST /api/requests (employee)
func SubmitRequestHandler(db *gorm.DB, svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var body SubmitRequestBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.AssetID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "asset_id is required")
		}

		// Self-service only: the body email must match the verified identity.
		email := strings.TrimSpace(strings.ToLower(body.Email))
		if email == "" {
			email = callerEmail
		} else if email != callerEmail {
			return fiber.NewError(fiber.StatusForbidden, "You can only request assets for yourself")
		}

		req, err := svc.Submit(SubmitInput{
			AssetID:        body.AssetID,
			RequesterEmail: email,
			RequesterName:  strings.TrimSpace(body.Name),
			Note:           strings.TrimSpace(body.Note),
		})
		if err != nil {
			return httpError(err, "Request could not be created")
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			ActorEmail:  email,
			ActorRole:   models.RoleEmployee,
			EntityType:  "request",
			EntityID:    req.ID,
			Action:      models.AuditActionSubmit,
			Description: fmt.Sprintf("Requested asset %q", req.AssetName),
			After:       req,
		})

		return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
	}
}

// GET /api/requests?status=&search=&page=&limit= (HR, own inbox)
func ListRequestsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.AssetRequest{}).Where("hr_email = ?", hrEmail)

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", normalizeStatus(status))
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("requester_name ILIKE ? OR requester_email ILIKE ?", like, like)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Requests could not be counted")
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var requests []models.AssetRequest
		if err := dbq.Order("requested_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Requests could not be listed")
		}

		items := make([]RequestResponse, 0, len(requests))
		for i := range requests {
			items = append(items, toRequestResponse(&requests[i]))
		}

		return c.JSON(fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"items": items,
		})
	}
}

// GET /api/requests/my?search= (employee, own requests)
func ListMyRequestsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.AssetRequest{}).Where("requester_email = ?", email)
		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("asset_name ILIKE ?", "%"+search+"%")
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", normalizeStatus(status))
		}

		var requests []models.AssetRequest
		if err := dbq.Order("requested_at DESC").Find(&requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Requests could not be listed")
		}

		items := make([]RequestResponse, 0, len(requests))
		for i := range requests {
			items = append(items, toRequestResponse(&requests[i]))
		}
		return c.JSON(items)
	}
}

// PATCH /api/requests/:id/approve (HR)
func ApproveRequestHandler(db *gorm.DB, svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
		}

		if err := requireOwnRequest(db, uint(id), hrEmail); err != nil {
			return err
		}

		req, err := svc.Approve(uint(id))
		if err != nil {
			return httpError(err, "Request could not be approved")
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			ActorEmail:  hrEmail,
			ActorRole:   models.RoleHR,
			EntityType:  "request",
			EntityID:    req.ID,
			Action:      models.AuditActionApprove,
			Description: fmt.Sprintf("Approved request of %s for %q", req.RequesterEmail, req.AssetName),
			After:       req,
		})

		return c.JSON(fiber.Map{
			"message": "Request approved successfully",
			"request": toRequestResponse(req),
		})
	}
}

type UpdateStatusBody struct {
	Status string `json:"status"` // "approved" or "denied"/"rejected"
}

// PATCH /api/requests/:id/status (HR). "approved" runs the full approval
// path; "denied"/"rejected" is a status-only transition.
func UpdateRequestStatusHandler(db *gorm.DB, svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
		}

		var body UpdateStatusBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := requireOwnRequest(db, uint(id), hrEmail); err != nil {
			return err
		}

		switch normalizeStatus(body.Status) {
		case models.StatusApproved:
			req, err := svc.Approve(uint(id))
			if err != nil {
				return httpError(err, "Request could not be approved")
			}
			_ = audit.WriteLog(db, audit.LogOptions{
				ActorEmail:  hrEmail,
				ActorRole:   models.RoleHR,
				EntityType:  "request",
				EntityID:    req.ID,
				Action:      models.AuditActionApprove,
				Description: fmt.Sprintf("Approved request of %s for %q", req.RequesterEmail, req.AssetName),
				After:       req,
			})
			return c.JSON(fiber.Map{"message": "Request approved successfully", "request": toRequestResponse(req)})

		case models.StatusRejected:
			req, err := svc.Reject(uint(id))
			if err != nil {
				return httpError(err, "Request could not be rejected")
			}
			_ = audit.WriteLog(db, audit.LogOptions{
				ActorEmail:  hrEmail,
				ActorRole:   models.RoleHR,
				EntityType:  "request",
				EntityID:    req.ID,
				Action:      models.AuditActionReject,
				Description: fmt.Sprintf("Rejected request of %s for %q", req.RequesterEmail, req.AssetName),
				After:       req,
			})
			return c.JSON(fiber.Map{"message": "Request rejected", "request": toRequestResponse(req)})

		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
	}
}

type AssignBody struct {
	AssetID       uint   `json:"asset_id"`
	EmployeeEmail string `json:"employee_email"`
	EmployeeName  string `json:"employee_name"`
	Note          string `json:"note"`
}

// POST /api/assignments (HR): assign an asset directly, no prior request.
func DirectAssignHandler(db *gorm.DB, svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var body AssignBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.AssetID == 0 || strings.TrimSpace(body.EmployeeEmail) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "asset_id and employee_email are required")
		}

		req, err := svc.DirectAssign(AssignInput{
			AssetID:       body.AssetID,
			HREmail:       hrEmail,
			EmployeeEmail: strings.TrimSpace(strings.ToLower(body.EmployeeEmail)),
			EmployeeName:  strings.TrimSpace(body.EmployeeName),
			Note:          strings.TrimSpace(body.Note),
		})
		if err != nil {
			return httpError(err, "Assignment could not be created")
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			ActorEmail:  hrEmail,
			ActorRole:   models.RoleHR,
			EntityType:  "request",
			EntityID:    req.ID,
			Action:      models.AuditActionAssign,
			Description: fmt.Sprintf("Assigned %q to %s", req.AssetName, req.RequesterEmail),
			After:       req,
		})

		return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
	}
}

// requireOwnRequest ensures the request exists and belongs to the caller's
// inbox before any transition.
func requireOwnRequest(db *gorm.DB, id uint, hrEmail string) error {
	var req models.AssetRequest
	if err := db.Select("id", "hr_email").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Request not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Request could not be loaded")
	}
	if req.HREmail != hrEmail {
		return fiber.NewError(fiber.StatusForbidden, "This request belongs to another HR account")
	}
	return nil
}

// normalizeStatus accepts the legacy "denied" spelling for rejections.
func normalizeStatus(s string) models.RequestStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return models.StatusApproved
	case "denied", "rejected":
		return models.StatusRejected
	case "pending":
		return models.StatusPending
	default:
		return models.RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	}
}
