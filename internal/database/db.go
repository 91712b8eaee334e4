package database

import (
	"log"

	"assetverse-backend/internal/config"
	"assetverse-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Open(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	// Employee dedup migration (before AutoMigrate): the composite unique index on
	// (employee_email, hr_email) cannot be created while duplicate rows exist.
	// Keep the oldest row per pair, drop the rest.
	if db.Migrator().HasTable(&models.Employee{}) {
		var dupCount int64
		db.Raw(`
			SELECT COUNT(*) FROM employees e
			WHERE e.id NOT IN (
				SELECT MIN(id) FROM employees GROUP BY employee_email, hr_email
			)
		`).Scan(&dupCount)
		if dupCount > 0 {
			log.Printf("Found %d duplicate employee rows, removing before unique index creation...", dupCount)
			db.Exec(`
				DELETE FROM employees
				WHERE id NOT IN (
					SELECT MIN(id) FROM employees GROUP BY employee_email, hr_email
				)
			`)
		}
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.AssetRequest{},
		&models.Employee{},
		&models.Package{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedPackages(db)

	log.Println("Database connection established. Migration complete.")
	return db
}

// seedPackages inserts the purchasable seat-limit tiers on first boot.
func seedPackages(db *gorm.DB) {
	var count int64
	db.Model(&models.Package{}).Count(&count)
	if count > 0 {
		return
	}

	packages := []models.Package{
		{Name: "5 Members for $5", MemberLimit: 5, PriceCents: 500},
		{Name: "10 Members for $8", MemberLimit: 10, PriceCents: 800},
		{Name: "20 Members for $15", MemberLimit: 20, PriceCents: 1500},
	}
	if err := db.Create(&packages).Error; err != nil {
		log.Printf("Package seeding failed: %v", err)
		return
	}
	log.Printf("Seeded %d packages", len(packages))
}
