package auth

import (
	"errors"
	"strings"
	"time"

	"assetverse-backend/internal/config"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"` // "hr" or "employee"
	CompanyName string `json:"company_name"`
	CompanyLogo string `json:"company_logo"`
	DateOfBirth string `json:"date_of_birth"` // "2000-01-31", optional
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func RegisterHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		role := models.UserRole(body.Role)
		if role != models.RoleHR && role != models.RoleEmployee {
			return fiber.NewError(fiber.StatusBadRequest, "Role must be 'hr' or 'employee'")
		}
		if role == models.RoleHR && strings.TrimSpace(body.CompanyName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company name is required for HR accounts")
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "User already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
			CompanyName:  strings.TrimSpace(body.CompanyName),
			CompanyLogo:  strings.TrimSpace(body.CompanyLogo),
			MemberLimit:  models.DefaultMemberLimit,
		}

		if body.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", body.DateOfBirth)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date of birth must be 'YYYY-MM-DD'")
			}
			user.DateOfBirth = &dob
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be created")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be generated")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":           user.ID,
				"name":         user.Name,
				"email":        user.Email,
				"role":         user.Role,
				"company_name": user.CompanyName,
			},
		})
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be generated")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":           user.ID,
				"name":         user.Name,
				"email":        user.Email,
				"role":         user.Role,
				"company_name": user.CompanyName,
				"member_limit": user.MemberLimit,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Caller identity is missing")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"user_id":      user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"role":         user.Role,
			"company_name": user.CompanyName,
			"company_logo": user.CompanyLogo,
			"member_limit": user.MemberLimit,
		})
	}
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	CompanyLogo *string `json:"company_logo"`
	DateOfBirth *string `json:"date_of_birth"`
}

// PUT /api/auth/profile
func UpdateProfileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Caller identity is missing")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			user.Name = name
		}
		if body.CompanyName != nil && user.Role == models.RoleHR {
			user.CompanyName = strings.TrimSpace(*body.CompanyName)
		}
		if body.CompanyLogo != nil {
			user.CompanyLogo = strings.TrimSpace(*body.CompanyLogo)
		}
		if body.DateOfBirth != nil {
			dob, err := time.Parse("2006-01-02", *body.DateOfBirth)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date of birth must be 'YYYY-MM-DD'")
			}
			user.DateOfBirth = &dob
		}

		if err := db.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Profile could not be updated")
		}

		return c.JSON(fiber.Map{
			"name":         user.Name,
			"email":        user.Email,
			"company_name": user.CompanyName,
			"company_logo": user.CompanyLogo,
		})
	}
}

// GET /api/users/role/:email
func RoleByEmailHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(strings.ToLower(c.Params("email")))

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Role could not be retrieved")
		}

		return c.JSON(fiber.Map{"role": user.Role})
	}
}
