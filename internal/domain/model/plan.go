package model

import (
	"strconv"
	"strings"

	"pluxo-backend/internal/domain"
)

type PlanType string

const (
	PlanTypeVIP PlanType = "vip"
	PlanTypeVUP PlanType = "vup"
)

const (
	PlanVIPVup   = "vip_vup"
	PlanVIPElite = "vip_elite"
)

// PriceTable maps planID -> duration label -> price in USD cents.
type PriceTable map[string]map[string]int64

// PromoTable maps an uppercased promo code to a fractional discount.
type PromoTable map[string]float64

// PlanTypeFor maps the public plan id onto the entitlement tier it grants.
func PlanTypeFor(planID string) PlanType {
	if planID == PlanVIPElite {
		return PlanTypeVIP
	}
	return PlanTypeVUP
}

// ParseTimeOption converts a duration label such as "1 Hour" or "30 Minutes"
// into minutes. A unit containing "hour" (any case) multiplies by 60.
func ParseTimeOption(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return 0, domain.ErrInvalidDuration
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil || value < 1 {
		return 0, domain.ErrInvalidDuration
	}
	if strings.Contains(strings.ToLower(fields[1]), "hour") {
		return value * 60, nil
	}
	return value, nil
}
