package main

import (
	"log"
	"strings"

	"assetverse-backend/internal/asset"
	"assetverse-backend/internal/audit"
	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/billing"
	"assetverse-backend/internal/config"
	"assetverse-backend/internal/database"
	"assetverse-backend/internal/employee"
	"assetverse-backend/internal/models"
	"assetverse-backend/internal/report"
	"assetverse-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	db := database.Open(cfg)

	gateway := billing.NewHTTPGateway(cfg)
	engine := workflow.NewService(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", auth.RegisterHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))
	api.Get("/packages", billing.ListPackagesHandler(db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))
	protected.Put("/auth/profile", auth.UpdateProfileHandler(db))
	protected.Get("/users/role/:email", auth.RoleByEmailHandler(db))

	// Asset catalogue (all authenticated users browse it)
	protected.Get("/assets", asset.ListAssetsHandler(db))

	// Employee self-service
	protected.Post("/requests", workflow.SubmitRequestHandler(db, engine))
	protected.Get("/requests/my", workflow.ListMyRequestsHandler(db))
	protected.Get("/team", employee.MyTeamHandler(db))

	// HR routes
	hrRoutes := protected.Group("")
	hrRoutes.Use(auth.RequireRole(models.RoleHR))

	// Inventory
	hrRoutes.Post("/assets", asset.CreateAssetHandler(db))
	hrRoutes.Get("/assets/mine", asset.ListMyAssetsHandler(db))
	hrRoutes.Put("/assets/:id", asset.UpdateAssetHandler(db))
	hrRoutes.Delete("/assets/:id", asset.DeleteAssetHandler(db))
	hrRoutes.Post("/assets/import", asset.ImportAssetsHandler(db))

	// Request workflow
	hrRoutes.Get("/requests", workflow.ListRequestsHandler(db))
	hrRoutes.Patch("/requests/:id/approve", workflow.ApproveRequestHandler(db, engine))
	hrRoutes.Patch("/requests/:id/status", workflow.UpdateRequestStatusHandler(db, engine))
	hrRoutes.Post("/assignments", workflow.DirectAssignHandler(db, engine))

	// Roster
	hrRoutes.Get("/employees", employee.ListEmployeesHandler(db))
	hrRoutes.Delete("/employees/:email", employee.RemoveEmployeeHandler(db, engine))

	// Billing
	hrRoutes.Post("/billing/checkout", billing.CreateCheckoutHandler(db, gateway, cfg))
	hrRoutes.Post("/billing/confirm", billing.ConfirmPaymentHandler(db, gateway))
	hrRoutes.Get("/billing/history", billing.PaymentHistoryHandler(db))

	// Reports
	hrRoutes.Get("/reports/asset-types", report.AssetTypeDistributionHandler(db))
	hrRoutes.Get("/reports/top-requested", report.TopRequestedAssetsHandler(db))

	// Audit logs
	hrRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
