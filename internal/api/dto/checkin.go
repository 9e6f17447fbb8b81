package dto

import (
	"time"

	"gymaccess/internal/checkin"
	"gymaccess/internal/checkin/service"
)

// CreateCheckInRequest has no entry time: the entry is recorded at the moment of the request.
type CreateCheckInRequest struct {
	SubscriptionID int64      `json:"subscription_id"`
	ExitAt         *time.Time `json:"exit_at"`
}

func (r CreateCheckInRequest) Input() service.CreateInput {
	return service.CreateInput{SubscriptionID: r.SubscriptionID, ExitAt: r.ExitAt}
}

// UpdateCheckInRequest is an administrative correction; exit_at and block_reason
// accept an explicit null to clear the stored value.
type UpdateCheckInRequest struct {
	EntryAt     *time.Time                  `json:"entry_at"`
	ExitAt      checkin.Nullable[time.Time] `json:"exit_at"`
	Authorized  *bool                       `json:"authorized"`
	BlockReason checkin.Nullable[string]    `json:"block_reason"`
}

func (r UpdateCheckInRequest) Patch() checkin.Patch {
	return checkin.Patch{
		EntryAt:     r.EntryAt,
		ExitAt:      r.ExitAt,
		Authorized:  r.Authorized,
		BlockReason: r.BlockReason,
	}
}
