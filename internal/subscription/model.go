package subscription

import "time"

type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Plan struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Frequency string  `json:"frequency"` // "ilimitado" or text with visits per week, e.g. "2x por semana"
}

type Subscription struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"client_id"`
	PlanID        int64     `json:"plan_id"`
	Value         float64   `json:"value"`
	Discount      float64   `json:"discount"` // percent, 0-100
	PaymentMethod string    `json:"payment_method"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	Status        Status    `json:"status,omitempty"`

	Client *Client `json:"client,omitempty"`
	Plan   *Plan   `json:"plan,omitempty"`
}

// DefaultExpiry is the expiration assigned when a subscription is created without one.
func DefaultExpiry(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 1, 0)
}

// WithStatus fills the derived Status field for now.
func (s *Subscription) WithStatus(now time.Time) *Subscription {
	s.Status = ResolveStatus(s.ExpiresAt, now)
	return s
}
