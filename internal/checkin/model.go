package checkin

import (
	"encoding/json"
	"time"

	"gymaccess/internal/subscription"
)

// ReasonSubscriptionExpired is recorded on check-ins denied because the subscription had expired.
const ReasonSubscriptionExpired = "subscription-expired"

// Business rules that reject a check-in before anything is written.
const (
	RuleDuplicateDaily = "duplicate-daily-checkin"
	RuleWeeklyQuota    = "weekly-quota-exceeded"
)

type CheckIn struct {
	ID             int64      `json:"id"`
	SubscriptionID int64      `json:"subscription_id" validate:"required"`
	EntryAt        time.Time  `json:"entry_at" validate:"required"`
	ExitAt         *time.Time `json:"exit_at" validate:"omitempty,gtfield=EntryAt"`
	Authorized     bool       `json:"authorized"`
	BlockReason    *string    `json:"block_reason" validate:"omitempty,max=100"`

	Subscription *subscription.Subscription `json:"subscription,omitempty" validate:"-"`
}

// Deny marks the check-in as not authorized with reason.
func (c *CheckIn) Deny(reason string) {
	c.Authorized = false
	c.BlockReason = &reason
}

// Nullable distinguishes an absent JSON field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Patch is an administrative correction. Unset fields keep their stored value.
type Patch struct {
	EntryAt     *time.Time
	ExitAt      Nullable[time.Time]
	Authorized  *bool
	BlockReason Nullable[string]
}

// Apply copies the set fields of p onto c.
func (p Patch) Apply(c *CheckIn) {
	if p.EntryAt != nil {
		c.EntryAt = *p.EntryAt
	}
	if p.ExitAt.Set {
		c.ExitAt = p.ExitAt.Value
	}
	if p.Authorized != nil {
		c.Authorized = *p.Authorized
	}
	if p.BlockReason.Set {
		c.BlockReason = p.BlockReason.Value
	}
}
