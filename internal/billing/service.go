package billing

import (
	"errors"
	"time"

	"assetverse-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrNotVerified = errors.New("payment not verified")
)

// ConfirmPayment turns a gateway confirmation into a seat-limit increase,
// exactly once per session id. The Payment row is the idempotency guard: if
// one already exists the call reports "already processed" and mutates nothing.
func ConfirmPayment(db *gorm.DB, gw Gateway, payerEmail, sessionID string) (*models.Payment, bool, error) {
	var existing models.Payment
	err := db.Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	session, err := gw.GetSession(sessionID)
	if err != nil {
		return nil, false, err
	}
	if session.PaymentStatus != "paid" {
		return nil, false, ErrNotVerified
	}
	if email := session.Metadata["payer_email"]; email != "" && email != payerEmail {
		return nil, false, ErrNotFound
	}

	var pkg models.Package
	if err := db.First(&pkg, "id = ?", session.Metadata["package_id"]).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	payment := models.Payment{
		SessionID:   sessionID,
		AmountCents: session.AmountCents,
		Currency:    session.Currency,
		PayerEmail:  payerEmail,
		PackageID:   pkg.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("email = ? AND role = ?", payerEmail, models.RoleHR).
			Update("member_limit", pkg.MemberLimit)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		payment.PaidAt = time.Now()
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &payment, false, nil
}
