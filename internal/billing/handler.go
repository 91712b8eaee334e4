package billing

import (
	"errors"
	"fmt"
	"strconv"

	"assetverse-backend/internal/audit"
	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/config"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackageResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
	PriceCents  int64  `json:"price_cents"`
}

// GET /api/packages (public)
func ListPackagesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var packages []models.Package
		if err := db.Order("member_limit asc").Find(&packages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Packages could not be listed")
		}

		items := make([]PackageResponse, 0, len(packages))
		for _, p := range packages {
			items = append(items, PackageResponse{
				ID:          p.ID,
				Name:        p.Name,
				MemberLimit: p.MemberLimit,
				PriceCents:  p.PriceCents,
			})
		}
		return c.JSON(items)
	}
}

type CheckoutBody struct {
	PackageID uint `json:"package_id"`
}

// POST /api/billing/checkout (HR): create a gateway checkout session for a package.
func CreateCheckoutHandler(db *gorm.DB, gw Gateway, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var body CheckoutBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.PackageID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "package_id is required")
		}

		var pkg models.Package
		if err := db.First(&pkg, body.PackageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Package not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Package could not be loaded")
		}

		session, err := gw.CreateCheckoutSession(CheckoutInput{
			AmountCents:     pkg.PriceCents,
			Currency:        cfg.Currency,
			ProductName:     pkg.Name,
			SuccessURL:      cfg.CheckoutSuccessURL,
			CancelURL:       cfg.CheckoutCancelURL,
			ClientReference: uuid.NewString(),
			Metadata: map[string]string{
				"package_id":   strconv.FormatUint(uint64(pkg.ID), 10),
				"payer_email":  hrEmail,
				"member_limit": strconv.Itoa(pkg.MemberLimit),
			},
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Checkout session could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id": session.ID,
			"url":        session.URL,
		})
	}
}

type ConfirmBody struct {
	SessionID string `json:"session_id"`
}

// POST /api/billing/confirm (HR): idempotent payment completion.
func ConfirmPaymentHandler(db *gorm.DB, gw Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		var body ConfirmBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SessionID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
		}

		payment, alreadyProcessed, err := ConfirmPayment(db, gw, hrEmail, body.SessionID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotVerified):
				return fiber.NewError(fiber.StatusBadRequest, "Payment not verified")
			case errors.Is(err, ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Record not found")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Payment could not be confirmed")
			}
		}

		if alreadyProcessed {
			return c.JSON(fiber.Map{
				"message":    "Payment already processed",
				"payment_id": payment.ID,
			})
		}

		_ = audit.WriteLog(db, audit.LogOptions{
			ActorEmail:  hrEmail,
			ActorRole:   models.RoleHR,
			EntityType:  "payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionPayment,
			Description: fmt.Sprintf("Completed payment for package %d", payment.PackageID),
			After:       payment,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Payment completed",
			"payment_id": payment.ID,
		})
	}
}

type PaymentHistoryItem struct {
	PackageID   uint   `json:"package_id"`
	PackageName string `json:"package_name"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PaidAt      string `json:"paid_at"`
}

// GET /api/billing/history (HR): payments of the caller, one row per package
// (the latest payment wins).
func PaymentHistoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		type row struct {
			PackageID   uint
			PackageName string
			AmountCents int64
			Currency    string
			PaidAt      string
		}
		var rows []row
		err = db.Raw(`
			SELECT DISTINCT ON (p.package_id)
				p.package_id,
				pk.name AS package_name,
				p.amount_cents,
				p.currency,
				to_char(p.paid_at, 'YYYY-MM-DD HH24:MI:SS') AS paid_at
			FROM payments p
			JOIN packages pk ON pk.id = p.package_id
			WHERE p.payer_email = ?
			ORDER BY p.package_id, p.paid_at DESC
		`, hrEmail).Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payment history could not be loaded")
		}

		items := make([]PaymentHistoryItem, 0, len(rows))
		for _, r := range rows {
			items = append(items, PaymentHistoryItem{
				PackageID:   r.PackageID,
				PackageName: r.PackageName,
				AmountCents: r.AmountCents,
				Currency:    r.Currency,
				PaidAt:      r.PaidAt,
			})
		}
		return c.JSON(items)
	}
}
