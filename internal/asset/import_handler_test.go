package asset

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func identityStub(email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxEmailKey, email)
		c.Locals(auth.CtxRoleKey, models.RoleHR)
		return c.Next()
	}
}

func buildXLSX(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func uploadXLSX(t *testing.T, app *fiber.App, content *bytes.Buffer) *ImportResult {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "assets.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content.Bytes()); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/assets/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &result
}

func TestImportAssetsSkipsInvalidRows(t *testing.T) {
	db, mock := newTestDB(t)

	app := fiber.New()
	app.Post("/assets/import", identityStub("hr@corp.com"), ImportAssetsHandler(db))

	content := buildXLSX(t, [][]string{
		{"Product Name", "Type", "Quantity"}, // header, skipped silently
		{"MacBook Pro", "returnable", "4"},
		{"Notebook", "non-returnable", "not-a-number"}, // skipped
		{"", "returnable", "2"},                        // skipped
		{"Monitor", "office", "3"},                     // skipped, bad type
		{"Keyboard", "returnable", "10"},
	})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	result := uploadXLSX(t, app, content)

	if result.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %d", result.Imported)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", result.Skipped)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestImportAssetsRejectsNonXLSX(t *testing.T) {
	db, _ := newTestDB(t)

	app := fiber.New()
	app.Post("/assets/import", identityStub("hr@corp.com"), ImportAssetsHandler(db))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "assets.csv")
	part.Write([]byte("name,type,quantity"))
	writer.Close()

	req := httptest.NewRequest("POST", "/assets/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
