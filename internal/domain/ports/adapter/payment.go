package adapter

import "context"

// InvoiceRequest is the single outbound charge request sent to the provider.
type InvoiceRequest struct {
	AmountCents int64  // USD minor units
	Currency    string // price currency, e.g. "usd"
	PayCurrency string // settlement currency, e.g. "usdttrc20"
	CallbackURL string // where the provider posts IPN callbacks
	OrderID     string // our payment id, echoed back in notifications
	Description string
}

// Invoice is the provider's answer: its payment id and the hosted checkout
// page the user is redirected to.
type Invoice struct {
	ExternalID  string
	CheckoutURL string
}

// PaymentGateway is the port for crypto payment providers. One call, no
// retries: retry policy belongs to the caller, which must avoid
// double-charging.
type PaymentGateway interface {
	Name() string
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
}
