package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetverse-backend/internal/config"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: strings.Repeat("s", 32)}
}

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()

	app.Get("/probe", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		email, err := CallerEmail(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"email": email})
	})
	app.Get("/hr-only", JWTMiddleware(cfg), RequireRole(models.RoleHR), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenFor(t *testing.T, cfg *config.Config, role models.UserRole) string {
	t.Helper()
	token, err := GenerateToken(cfg.JWTSecret, &models.User{
		ID:    1,
		Email: "user@corp.com",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, "/probe", tc.header)
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	claims := &JWTCustomClaims{
		UserID: 1,
		Email:  "user@corp.com",
		Role:   models.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	resp := doRequest(t, app, "/probe", "Bearer "+token)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewarePassesIdentity(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	resp := doRequest(t, app, "/probe", "Bearer "+tokenFor(t, cfg, models.RoleEmployee))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	resp := doRequest(t, app, "/hr-only", "Bearer "+tokenFor(t, cfg, models.RoleEmployee))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for employee on hr route, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "/hr-only", "Bearer "+tokenFor(t, cfg, models.RoleHR))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for hr, got %d", resp.StatusCode)
	}
}
