package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"assetverse-backend/internal/config"
)

// Session is the gateway's view of one checkout.
type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"` // "paid" | "unpaid"
	AmountCents   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type CheckoutInput struct {
	AmountCents     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	ProductName     string            `json:"product_name"`
	SuccessURL      string            `json:"success_url"`
	CancelURL       string            `json:"cancel_url"`
	ClientReference string            `json:"client_reference_id"`
	Metadata        map[string]string `json:"metadata"`
}

// Gateway is the external checkout provider. The HTTP implementation talks to
// the provider's REST API; tests swap in a fake.
type Gateway interface {
	CreateCheckoutSession(in CheckoutInput) (*Session, error)
	GetSession(id string) (*Session, error)
}

type httpGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(cfg *config.Config) Gateway {
	return &httpGateway{
		baseURL: cfg.PaymentAPIBase,
		apiKey:  cfg.PaymentAPIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *httpGateway) CreateCheckoutSession(in CheckoutInput) (*Session, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("checkout payload could not be encoded: %w", err)
	}

	req, err := http.NewRequest("POST", g.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway request could not be created: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	return g.do(req)
}

func (g *httpGateway) GetSession(id string) (*Session, error) {
	req, err := http.NewRequest("GET", g.baseURL+"/v1/checkout/sessions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway request could not be created: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	return g.do(req)
}

func (g *httpGateway) do(req *http.Request) (*Session, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway response could not be read: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("gateway response could not be decoded: %w", err)
	}
	return &session, nil
}
