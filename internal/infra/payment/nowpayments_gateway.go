package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/ports/adapter"
)

// NOWPaymentsGateway implements adapter.PaymentGateway against the NOWPayments
// invoice API. One outbound call per invoice, bounded timeout, no retries.
type NOWPaymentsGateway struct {
	apiKey      string
	baseURL     string
	payCurrency string
	client      *http.Client
}

func NewNOWPaymentsGateway(apiKey, baseURL, payCurrency string, timeout time.Duration) *NOWPaymentsGateway {
	if baseURL == "" {
		baseURL = "https://api.nowpayments.io"
	}
	if payCurrency == "" {
		payCurrency = "usdttrc20"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NOWPaymentsGateway{
		apiKey:      apiKey,
		baseURL:     baseURL,
		payCurrency: payCurrency,
		client:      &http.Client{Timeout: timeout},
	}
}

func (g *NOWPaymentsGateway) Name() string { return "nowpayments" }

type createPaymentRequest struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	PayCurrency      string  `json:"pay_currency"`
	IPNCallbackURL   string  `json:"ipn_callback_url"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description"`
}

type createPaymentResponse struct {
	PaymentID  json.Number `json:"payment_id"`
	InvoiceURL string      `json:"invoice_url"`
	PayAddress string      `json:"pay_address"`
}

// CreateInvoice submits the charge request and returns the provider payment id
// plus the hosted checkout URL. Any transport error or non-2xx response maps
// to domain.ErrGatewayUnavailable.
func (g *NOWPaymentsGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error) {
	payCurrency := req.PayCurrency
	if payCurrency == "" {
		payCurrency = g.payCurrency
	}
	body := createPaymentRequest{
		PriceAmount:      float64(req.AmountCents) / 100,
		PriceCurrency:    req.Currency,
		PayCurrency:      payCurrency,
		IPNCallbackURL:   req.CallbackURL,
		OrderID:          req.OrderID,
		OrderDescription: req.Description,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := g.baseURL + "/v1/payment"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGatewayUnavailable, resp.StatusCode, string(raw))
	}

	var out createPaymentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v, body: %s", domain.ErrGatewayUnavailable, err, string(raw))
	}
	extID := out.PaymentID.String()
	if extID == "" {
		return nil, fmt.Errorf("%w: response missing payment_id, body: %s", domain.ErrGatewayUnavailable, string(raw))
	}

	checkoutURL := out.InvoiceURL
	if checkoutURL == "" {
		checkoutURL = fmt.Sprintf("https://nowpayments.io/payment?payment_id=%s", extID)
	}
	return &adapter.Invoice{ExternalID: extID, CheckoutURL: checkoutURL}, nil
}
