package checkin

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymaccess/internal/apperror"
)

func fieldsOf(t *testing.T, err error) []apperror.FieldError {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestValidate(t *testing.T) {
	entry := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	later := entry.Add(time.Hour)
	earlier := entry.Add(-time.Hour)

	assert.NoError(t, Validate("test", &CheckIn{SubscriptionID: 1, EntryAt: entry}))
	assert.NoError(t, Validate("test", &CheckIn{SubscriptionID: 1, EntryAt: entry, ExitAt: &later}))

	fields := fieldsOf(t, Validate("test", &CheckIn{SubscriptionID: 1, EntryAt: entry, ExitAt: &earlier}))
	require.Len(t, fields, 1)
	assert.Equal(t, "exit_at", fields[0].Field)
	assert.Equal(t, "exit time must be after entry time", fields[0].Message)

	same := entry
	fields = fieldsOf(t, Validate("test", &CheckIn{SubscriptionID: 1, EntryAt: entry, ExitAt: &same}))
	assert.Equal(t, "exit_at", fields[0].Field)

	long := strings.Repeat("x", 101)
	fields = fieldsOf(t, Validate("test", &CheckIn{SubscriptionID: 1, EntryAt: entry, BlockReason: &long}))
	assert.Equal(t, "block_reason", fields[0].Field)

	fields = fieldsOf(t, Validate("test", &CheckIn{EntryAt: entry}))
	assert.Equal(t, "subscription_id", fields[0].Field)
}

func TestPatchApply(t *testing.T) {
	entry := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	exit := entry.Add(time.Hour)
	reason := "manual"
	c := &CheckIn{ID: 1, SubscriptionID: 1, EntryAt: entry, ExitAt: &exit, Authorized: false, BlockReason: &reason}

	var p struct {
		ExitAt      Nullable[time.Time] `json:"exit_at"`
		BlockReason Nullable[string]    `json:"block_reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"exit_at": null}`), &p))
	assert.True(t, p.ExitAt.Set)
	assert.False(t, p.BlockReason.Set)

	authorized := true
	Patch{ExitAt: p.ExitAt, BlockReason: p.BlockReason, Authorized: &authorized}.Apply(c)
	assert.Nil(t, c.ExitAt)
	require.NotNil(t, c.BlockReason, "absent field keeps stored value")
	assert.Equal(t, "manual", *c.BlockReason)
	assert.True(t, c.Authorized)
	assert.Equal(t, entry, c.EntryAt)
}

func TestDeny(t *testing.T) {
	c := &CheckIn{Authorized: true}
	c.Deny(ReasonSubscriptionExpired)
	assert.False(t, c.Authorized)
	require.NotNil(t, c.BlockReason)
	assert.Equal(t, "subscription-expired", *c.BlockReason)
}
