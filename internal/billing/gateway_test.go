package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetverse-backend/internal/config"
)

func TestHTTPGatewayCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var in CheckoutInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.AmountCents != 800 || in.Metadata["package_id"] != "2" {
			t.Errorf("unexpected checkout input: %+v", in)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Session{
			ID:            "sess_123",
			URL:           "https://checkout.example.com/sess_123",
			PaymentStatus: "unpaid",
		})
	}))
	defer server.Close()

	gw := NewHTTPGateway(&config.Config{
		PaymentAPIBase: server.URL,
		PaymentAPIKey:  "test-key",
	})

	session, err := gw.CreateCheckoutSession(CheckoutInput{
		AmountCents: 800,
		Currency:    "usd",
		ProductName: "10 Members for $8",
		Metadata:    map[string]string{"package_id": "2"},
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "sess_123" {
		t.Fatalf("unexpected session id: %q", session.ID)
	}
}

func TestHTTPGatewayGetSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/sess_123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Session{
			ID:            "sess_123",
			PaymentStatus: "paid",
			AmountCents:   800,
			Metadata:      map[string]string{"package_id": "2"},
		})
	}))
	defer server.Close()

	gw := NewHTTPGateway(&config.Config{PaymentAPIBase: server.URL, PaymentAPIKey: "test-key"})

	session, err := gw.GetSession("sess_123")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session.PaymentStatus != "paid" {
		t.Fatalf("unexpected payment status: %q", session.PaymentStatus)
	}
}

func TestHTTPGatewaySurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such session"}`, http.StatusNotFound)
	}))
	defer server.Close()

	gw := NewHTTPGateway(&config.Config{PaymentAPIBase: server.URL, PaymentAPIKey: "test-key"})

	if _, err := gw.GetSession("sess_missing"); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}
