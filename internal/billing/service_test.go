package billing

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGateway struct {
	session *Session
	err     error
	calls   int
}

func (f *fakeGateway) CreateCheckoutSession(in CheckoutInput) (*Session, error) {
	f.calls++
	return f.session, f.err
}

func (f *fakeGateway) GetSession(id string) (*Session, error) {
	f.calls++
	return f.session, f.err
}

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

func TestConfirmPaymentAlreadyProcessed(t *testing.T) {
	db, mock := newTestDB(t)
	gw := &fakeGateway{}

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "payer_email", "package_id"}).
			AddRow(5, "sess_123", "hr@corp.com", 2))

	payment, already, err := ConfirmPayment(db, gw, "hr@corp.com", "sess_123")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if !already {
		t.Fatal("expected already-processed response")
	}
	if payment.ID != 5 {
		t.Fatalf("expected existing payment row, got id %d", payment.ID)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway should not be queried for a processed session, got %d calls", gw.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentNotVerified(t *testing.T) {
	db, mock := newTestDB(t)
	gw := &fakeGateway{session: &Session{ID: "sess_123", PaymentStatus: "unpaid"}}

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := ConfirmPayment(db, gw, "hr@corp.com", "sess_123")
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentRaisesSeatLimitOnce(t *testing.T) {
	db, mock := newTestDB(t)
	gw := &fakeGateway{session: &Session{
		ID:            "sess_123",
		PaymentStatus: "paid",
		AmountCents:   800,
		Currency:      "usd",
		Metadata: map[string]string{
			"package_id":  "2",
			"payer_email": "hr@corp.com",
		},
	}}

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "member_limit", "price_cents"}).
			AddRow(2, "10 Members for $8", 10, 800))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectCommit()

	payment, already, err := ConfirmPayment(db, gw, "hr@corp.com", "sess_123")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if already {
		t.Fatal("first confirmation reported as already processed")
	}
	if payment.PackageID != 2 || payment.AmountCents != 800 {
		t.Fatalf("unexpected payment row: %+v", payment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentPayerMismatch(t *testing.T) {
	db, mock := newTestDB(t)
	gw := &fakeGateway{session: &Session{
		ID:            "sess_123",
		PaymentStatus: "paid",
		Metadata:      map[string]string{"payer_email": "someone-else@corp.com"},
	}}

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := ConfirmPayment(db, gw, "hr@corp.com", "sess_123")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmPaymentUnknownPayer(t *testing.T) {
	db, mock := newTestDB(t)
	gw := &fakeGateway{session: &Session{
		ID:            "sess_123",
		PaymentStatus: "paid",
		Metadata:      map[string]string{"package_id": "2"},
	}}

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_limit"}).AddRow(2, 10))
	mock.ExpectBegin()
	// no hr account matches: nothing to raise
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := ConfirmPayment(db, gw, "ghost@corp.com", "sess_123")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
