// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/adapter"
	"pluxo-backend/internal/domain/ports/repository"
	"pluxo-backend/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Initiate prices the order, records a pending payment and opens an
	// invoice with the gateway.
	Initiate(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}

type CheckoutInput struct {
	UserID      string
	PlanID      string
	TimeOption  string
	PromoCode   string // optional
	ExternalRef string // optional caller reference
}

type CheckoutResult struct {
	OrderID     string
	AmountCents int64
	CheckoutURL string
}

type checkoutUC struct {
	pricing  model.PriceTable
	promos   model.PromoTable
	payments repository.PaymentRepository
	gateway  adapter.PaymentGateway
	cbURL    string
	log      *zerolog.Logger
}

func NewCheckoutUseCase(pricing model.PriceTable, promos model.PromoTable, payments repository.PaymentRepository, gateway adapter.PaymentGateway, callbackURL string, logger *zerolog.Logger) *checkoutUC {
	l := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{
		pricing:  pricing,
		promos:   promos,
		payments: payments,
		gateway:  gateway,
		cbURL:    callbackURL,
		log:      &l,
	}
}

func (u *checkoutUC) Initiate(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.UserID == "" || in.PlanID == "" || in.TimeOption == "" {
		return nil, domain.ErrInvalidArgument
	}

	amountCents, err := u.price(in.PlanID, in.TimeOption, in.PromoCode)
	if err != nil {
		return nil, err
	}
	durationMinutes, err := model.ParseTimeOption(in.TimeOption)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Payment{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		PlanType:        model.PlanTypeFor(in.PlanID),
		AmountCents:     amountCents,
		Currency:        "USD",
		Status:          model.PaymentStatusPending,
		DurationMinutes: durationMinutes,
		Provider:        u.gateway.Name(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.ExternalRef != "" {
		ref := in.ExternalRef
		p.ExternalRef = &ref
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))

	inv, err := u.gateway.CreateInvoice(ctx, adapter.InvoiceRequest{
		AmountCents: amountCents,
		Currency:    "usd",
		PayCurrency: "", // gateway default
		CallbackURL: u.cbURL,
		OrderID:     p.ID,
		Description: fmt.Sprintf("%s Access - %s", tierLabel(in.PlanID), in.TimeOption),
	})
	metrics.IncGatewayRequest(u.gateway.Name(), err == nil)
	if err != nil {
		// The pending row stays without an external id; the janitor expires it
		// later. Never hand out a checkout URL that bypasses payment.
		u.log.Warn().Err(err).Str("order_id", p.ID).Msg("gateway invoice creation failed")
		if errors.Is(err, domain.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	if err := u.payments.SetExternalID(ctx, repository.NoTX, p.ID, inv.ExternalID); err != nil {
		return nil, err
	}

	u.log.Info().
		Str("order_id", p.ID).
		Str("external_id", inv.ExternalID).
		Int64("amount_cents", amountCents).
		Str("plan", in.PlanID).
		Msg("checkout initiated")

	return &CheckoutResult{
		OrderID:     p.ID,
		AmountCents: amountCents,
		CheckoutURL: inv.CheckoutURL,
	}, nil
}

// price resolves base price and applies the promo discount. Unknown promo
// codes apply zero discount, silently; unknown plan/duration combinations are
// a validation error, never a zero price.
func (u *checkoutUC) price(planID, timeOption, promoCode string) (int64, error) {
	opts, ok := u.pricing[planID]
	if !ok {
		return 0, domain.ErrInvalidPlan
	}
	base, ok := opts[timeOption]
	if !ok || base <= 0 {
		return 0, domain.ErrInvalidPlan
	}
	discount := 0.0
	if promoCode != "" {
		discount = u.promos[strings.ToUpper(promoCode)]
	}
	return int64(math.Round(float64(base) * (1 - discount))), nil
}

func tierLabel(planID string) string {
	if planID == model.PlanVIPElite {
		return "ELITE"
	}
	return "VUP"
}
