package asset

import (
	"strconv"
	"strings"

	"assetverse-backend/internal/auth"
	"assetverse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResult struct {
	Imported    int      `json:"imported"`
	Skipped     int      `json:"skipped"`
	SkippedRows []string `json:"skipped_rows,omitempty"`
}

// POST /api/assets/import (HR only)
// Expects an .xlsx with columns: product name | product type | quantity.
// A header row is detected and skipped; rows that fail validation are
// reported back instead of aborting the whole import.
func ImportAssetsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hrEmail, err := auth.CallerEmail(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File upload failed: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files can be uploaded")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File could not be opened: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file could not be read: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet could not be read: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		// Header detection: "PRODUCT", "NAME", "ASSET" in the first cell
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "PRODUCT") || strings.Contains(firstCell, "NAME") ||
				strings.Contains(firstCell, "ASSET") {
				startIndex = 1
			}
		}

		result := ImportResult{}
		var assets []models.Asset

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 3 {
				result.Skipped++
				result.SkippedRows = append(result.SkippedRows, rowError(i, "expected 3 columns"))
				continue
			}

			name := strings.TrimSpace(row[0])
			productType := strings.ToLower(strings.TrimSpace(row[1]))
			quantityStr := strings.TrimSpace(row[2])

			if name == "" {
				result.Skipped++
				result.SkippedRows = append(result.SkippedRows, rowError(i, "product name is empty"))
				continue
			}
			if !validAssetType(productType) {
				result.Skipped++
				result.SkippedRows = append(result.SkippedRows, rowError(i, "product type must be 'returnable' or 'non-returnable'"))
				continue
			}
			quantity, err := strconv.Atoi(quantityStr)
			if err != nil || quantity < 0 {
				result.Skipped++
				result.SkippedRows = append(result.SkippedRows, rowError(i, "quantity must be a non-negative number"))
				continue
			}

			assets = append(assets, models.Asset{
				HREmail:     hrEmail,
				ProductName: name,
				ProductType: models.AssetType(productType),
				Quantity:    quantity,
			})
		}

		if len(assets) > 0 {
			if err := db.Create(&assets).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Assets could not be saved")
			}
		}
		result.Imported = len(assets)

		return c.JSON(result)
	}
}

func rowError(index int, msg string) string {
	return "row " + strconv.Itoa(index+1) + ": " + msg
}
