package workflow

import (
	"errors"
	"time"

	"assetverse-backend/internal/models"

	"gorm.io/gorm"
)

// Service owns every status transition of an AssetRequest and keeps asset
// stock and roster membership consistent with it. Multi-step mutations run
// inside a single database transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type SubmitInput struct {
	AssetID        uint
	RequesterEmail string
	RequesterName  string
	Note           string
}

// Submit creates a pending request for an asset. The stock check here is a
// soft gate: it reads the current quantity but does not reserve anything, the
// approval path re-checks with a guarded decrement.
func (s *Service) Submit(in SubmitInput) (*models.AssetRequest, error) {
	var user models.User
	if err := s.db.Where("email = ?", in.RequesterEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var asset models.Asset
	if err := s.db.First(&asset, in.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if asset.Quantity <= 0 {
		return nil, ErrOutOfStock
	}

	req := models.AssetRequest{
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetType:      asset.ProductType,
		HREmail:        asset.HREmail,
		RequesterEmail: in.RequesterEmail,
		RequesterName:  in.RequesterName,
		Note:           in.Note,
		Status:         models.StatusPending,
		RequestedAt:    time.Now(),
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Approve transitions a pending request to approved, adds the requester to
// the HR's roster when needed (enforcing the seat limit for new members) and
// decrements the asset's stock. Everything happens in one transaction: a
// failed decrement rolls back the membership insert and the status change.
func (s *Service) Approve(requestID uint) (*models.AssetRequest, error) {
	var req models.AssetRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Status != models.StatusPending {
			return ErrNotPending
		}

		if err := ensureMembership(tx, req.RequesterEmail, req.RequesterName, req.HREmail); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&req).Updates(map[string]interface{}{
			"status":      models.StatusApproved,
			"approved_at": now,
		}).Error; err != nil {
			return err
		}

		return decrementStock(tx, req.AssetID)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Reject sets the status only; no stock or roster side effects.
func (s *Service) Reject(requestID uint) (*models.AssetRequest, error) {
	var req models.AssetRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	if err := s.db.Model(&req).Update("status", models.StatusRejected).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

type AssignInput struct {
	AssetID       uint
	HREmail       string
	EmployeeEmail string
	EmployeeName  string
	Note          string
}

// DirectAssign lets HR hand an asset to an employee without a prior request.
// It goes through the same roster/seat-limit bookkeeping as Approve and uses
// the same guarded stock decrement.
func (s *Service) DirectAssign(in AssignInput) (*models.AssetRequest, error) {
	var req models.AssetRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, in.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if asset.HREmail != in.HREmail {
			return ErrForbidden
		}

		if err := ensureMembership(tx, in.EmployeeEmail, in.EmployeeName, in.HREmail); err != nil {
			return err
		}

		now := time.Now()
		req = models.AssetRequest{
			AssetID:        asset.ID,
			AssetName:      asset.ProductName,
			AssetType:      asset.ProductType,
			HREmail:        in.HREmail,
			RequesterEmail: in.EmployeeEmail,
			RequesterName:  in.EmployeeName,
			Note:           in.Note,
			Status:         models.StatusApproved,
			RequestedAt:    now,
			ApprovedAt:     &now,
		}
		if err := tx.Create(&req).Error; err != nil {
			return err
		}

		return decrementStock(tx, asset.ID)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

type OffboardResult struct {
	ReturnedAssets   int `json:"returned_assets"`
	RejectedRequests int `json:"rejected_requests"`
}

// RemoveEmployee offboards an employee from an HR's roster: every approved
// request returns one unit of stock, every request under the pair ends up
// rejected, and the membership row is deleted.
func (s *Service) RemoveEmployee(hrEmail, employeeEmail string) (*OffboardResult, error) {
	result := &OffboardResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("employee_email = ? AND hr_email = ?", employeeEmail, hrEmail).
			Delete(&models.Employee{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var approved []models.AssetRequest
		if err := tx.Where("requester_email = ? AND hr_email = ? AND status = ?",
			employeeEmail, hrEmail, models.StatusApproved).Find(&approved).Error; err != nil {
			return err
		}

		for _, req := range approved {
			// The asset may have been deleted since approval, in that case
			// there is nothing to return stock to.
			if err := tx.Model(&models.Asset{}).Where("id = ?", req.AssetID).
				UpdateColumn("quantity", gorm.Expr("quantity + 1")).Error; err != nil {
				return err
			}
		}
		result.ReturnedAssets = len(approved)

		res = tx.Model(&models.AssetRequest{}).
			Where("requester_email = ? AND hr_email = ?", employeeEmail, hrEmail).
			Update("status", models.StatusRejected)
		if res.Error != nil {
			return res.Error
		}
		result.RejectedRequests = int(res.RowsAffected)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ensureMembership inserts the roster row for (employee, hr) if it does not
// exist yet, enforcing the HR's seat limit for new members. Existing members
// pass through without a limit check. The application-level existence check is
// a fast path; the composite unique index on employees is the real guard.
func ensureMembership(tx *gorm.DB, employeeEmail, employeeName, hrEmail string) error {
	var member int64
	if err := tx.Model(&models.Employee{}).
		Where("employee_email = ? AND hr_email = ?", employeeEmail, hrEmail).
		Count(&member).Error; err != nil {
		return err
	}
	if member > 0 {
		return nil
	}

	var hr models.User
	if err := tx.Where("email = ? AND role = ?", hrEmail, models.RoleHR).First(&hr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var roster int64
	if err := tx.Model(&models.Employee{}).Where("hr_email = ?", hrEmail).Count(&roster).Error; err != nil {
		return err
	}
	if roster >= int64(hr.MemberLimit) {
		return ErrSeatLimitReached
	}

	return tx.Create(&models.Employee{
		EmployeeEmail: employeeEmail,
		HREmail:       hrEmail,
		Name:          employeeName,
		AddedAt:       time.Now(),
	}).Error
}

// decrementStock takes one unit off the asset, guarded against going
// negative. Zero rows affected means the asset is gone or out of stock.
func decrementStock(tx *gorm.DB, assetID uint) error {
	res := tx.Model(&models.Asset{}).
		Where("id = ? AND quantity > 0", assetID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}
