package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/infra/logging"
	"pluxo-backend/internal/infra/metrics"
	"pluxo-backend/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- checkout ----

type checkoutRequest struct {
	PlanID              string `json:"planId"`
	TimeOption          string `json:"timeOption"`
	PromoCode           string `json:"promoCode"`
	ExternalReferenceID string `json:"externalReferenceId"`
}

type checkoutResponse struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	CheckoutURL string  `json:"checkoutUrl"`
}

func (s *Server) handleCheckoutInitiate(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.checkoutUC.Initiate(r.Context(), usecase.CheckoutInput{
		UserID:      claims.UserID(),
		PlanID:      req.PlanID,
		TimeOption:  req.TimeOption,
		PromoCode:   req.PromoCode,
		ExternalRef: req.ExternalReferenceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPlan), errors.Is(err, domain.ErrInvalidDuration), errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Invalid plan or duration")
		case errors.Is(err, domain.ErrGatewayUnavailable):
			writeError(w, http.StatusBadGateway, "Payment service unavailable")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		OrderID:     res.OrderID,
		Amount:      float64(res.AmountCents) / 100,
		CheckoutURL: res.CheckoutURL,
	})
}

// ---- webhook ----

type ipnPayload struct {
	PaymentStatus string      `json:"payment_status"`
	OrderID       string      `json:"order_id"`
	PaymentID     json.Number `json:"payment_id"`
}

// handleIPN acknowledges with plain text: the provider only looks at the
// status code, the body is for humans reading delivery logs.
func (s *Server) handleIPN(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, reason := "ok", ""
	defer func() {
		if result != "ok" {
			metrics.IPNRequests.WithLabelValues(result, reason).Inc()
		} else {
			metrics.IPNRequests.WithLabelValues(result, "").Inc()
		}
		metrics.IPNDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		result, reason = "fail", "bad_json"
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := s.verifier.Verify(raw, r.Header.Get("x-nowpayments-sig")); err != nil {
		result, reason = "fail", "bad_signature"
		logging.With(r.Context(), s.log).Warn().Msg("ipn signature mismatch")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	var payload ipnPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.OrderID == "" || payload.PaymentStatus == "" {
		result, reason = "fail", "bad_json"
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	ctx := logging.WithOrderID(r.Context(), payload.OrderID)
	outcome, err := s.activationUC.HandleNotification(ctx, usecase.Notification{
		OrderID:    payload.OrderID,
		ExternalID: payload.PaymentID.String(),
		Status:     payload.PaymentStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			result, reason = "fail", "order_not_found"
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidArgument):
			result, reason = "fail", "bad_json"
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			result, reason = "fail", "store_error"
			logging.With(ctx, s.log).Error().Err(err).Msg("ipn processing failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	switch outcome {
	case usecase.OutcomeDuplicate:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Already processed"))
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// ---- profile ----

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type subscriptionDTO struct {
	PlanType string    `json:"planType"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Active   bool      `json:"active"`
}

type profileResponse struct {
	User         userDTO          `json:"user"`
	Subscription *subscriptionDTO `json:"subscription"`
}

func toProfileResponse(p *usecase.UserProfile) profileResponse {
	out := profileResponse{
		User: userDTO{ID: p.User.ID, Email: p.User.Email, Role: p.User.Role},
	}
	if p.Subscription != nil {
		out.Subscription = &subscriptionDTO{
			PlanType: string(p.Subscription.PlanType),
			StartsAt: p.Subscription.StartsAt,
			EndsAt:   p.Subscription.EndsAt,
			Active:   p.Subscription.Active,
		}
	}
	return out
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	profile, err := s.userUC.Profile(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("profile lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// ---- predictions ----

type predictionRequest struct {
	Type        string `json:"type"`
	RiskSetting string `json:"riskSetting"`
}

func (s *Server) handlePredictionGenerate(w http.ResponseWriter, r *http.Request) {
	// Auth is optional here; a valid token keys the caller's output sequence.
	userID := ""
	if claims, err := s.auth.ParseFromRequest(r); err == nil {
		userID = claims.UserID()
	}

	var req predictionRequest
	if r.Body != nil {
		// an empty or invalid body falls back to defaults
		json.NewDecoder(r.Body).Decode(&req)
	}

	batch, err := s.predictionUC.Generate(r.Context(), usecase.PredictionInput{
		UserID:      userID,
		Type:        req.Type,
		RiskSetting: req.RiskSetting,
	})
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("prediction generation failed")
		writeError(w, http.StatusInternalServerError, "Encryption fault")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// ---- admin ----

type grantRequest struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
	PlanType string `json:"planType"`
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	listing, err := s.adminUC.ListUsers(r.Context(), offset, limit)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("user listing failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	users := make([]profileResponse, 0, len(listing.Users))
	for _, p := range listing.Users {
		users = append(users, toProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": listing.Total,
	})
}

func (s *Server) handleAdminGrantVIP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := s.adminUC.GrantVIP(r.Context(), usecase.Grant{
		UserID:   userID,
		Duration: req.Duration,
		Unit:     req.Unit,
		PlanType: model.PlanType(req.PlanType),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidDuration), errors.Is(err, domain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, "Invalid grant")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("vip grant failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, subscriptionDTO{
		PlanType: string(sub.PlanType),
		StartsAt: sub.StartsAt,
		EndsAt:   sub.EndsAt,
		Active:   sub.Active,
	})
}

func (s *Server) handleAdminRevokeVIP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := s.adminUC.RevokeVIP(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("vip revoke failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
