package model

import "time"

// Subscription is a user's VIP entitlement window. At most one row exists per
// user (upsert keyed by UserID); a new purchase always replaces the previous
// window, it never stacks with remaining time.
type Subscription struct {
	UserID   string
	PlanType PlanType
	StartsAt time.Time
	EndsAt   time.Time
	Active   bool
}

// Effective reports whether the subscription grants access at the given time.
func (s *Subscription) Effective(now time.Time) bool {
	return s.Active && s.EndsAt.After(now)
}
