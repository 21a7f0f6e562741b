package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"    // created at checkout, invoice not yet paid
	PaymentStatusWaiting    PaymentStatus = "waiting"    // provider waiting for funds
	PaymentStatusConfirming PaymentStatus = "confirming" // funds seen, awaiting confirmations
	PaymentStatusFinished   PaymentStatus = "finished"   // terminal success, grants entitlement
	PaymentStatusFailed     PaymentStatus = "failed"     // terminal failure, no entitlement
)

// Payment records one checkout attempt. Rows are never deleted (audit trail);
// only the IPN path mutates status after creation.
type Payment struct {
	ID              string // UUID, doubles as the gateway order reference
	UserID          string
	PlanType        PlanType
	AmountCents     int64 // USD minor units, promo discount already applied
	Currency        string
	Status          PaymentStatus
	DurationMinutes int
	Provider        string
	ExternalID      *string // provider payment id, nil until the gateway responds
	ExternalRef     *string // optional reference id supplied by the caller
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AmountUSD converts the stored minor units back to the decimal amount the
// gateway and API responses use.
func (p *Payment) AmountUSD() float64 {
	return float64(p.AmountCents) / 100
}
