package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeeklyLimit(t *testing.T) {
	tests := []struct {
		descriptor string
		want       Limit
	}{
		{"2x por semana", VisitsPerWeek(2)},
		{"3 vezes por semana", VisitsPerWeek(3)},
		{"Ilimitado", Unlimited()},
		{"ILIMITADO", Unlimited()},
		{"unlimited access", Unlimited()},
		{"livre 5x ilimitado", Unlimited()},
		{"12x / 4x", VisitsPerWeek(12)},
		{"abc", VisitsPerWeek(0)},
		{"", VisitsPerWeek(0)},
		{"99999999999999999999999x", VisitsPerWeek(0)},
	}
	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWeeklyLimit(tt.descriptor))
		})
	}
}

func TestLimitReached(t *testing.T) {
	assert.False(t, Unlimited().Reached(1000))
	assert.True(t, VisitsPerWeek(0).Reached(0))
	assert.False(t, VisitsPerWeek(2).Reached(1))
	assert.True(t, VisitsPerWeek(2).Reached(2))

	b, err := json.Marshal(Unlimited())
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(b))
}

func TestQuotaViolation(t *testing.T) {
	rule, _ := Quota{WeeklyLimit: Unlimited()}.Violation()
	assert.Empty(t, rule)

	rule, _ = Quota{AlreadyCheckedInToday: true, WeeklyCount: 5, WeeklyLimit: VisitsPerWeek(2)}.Violation()
	assert.Equal(t, RuleDuplicateDaily, rule, "daily duplicate is reported before the quota")

	rule, msg := Quota{WeeklyCount: 2, WeeklyLimit: VisitsPerWeek(2)}.Violation()
	assert.Equal(t, RuleWeeklyQuota, rule)
	assert.Contains(t, msg, "2")
}

func TestDayBounds(t *testing.T) {
	brt := time.FixedZone("BRT", -3*3600)
	e := NewQuotaEvaluator(brt)

	// 01:30 UTC on the 11th is still the 10th in BRT.
	from, to := e.DayBounds(time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC))
	assert.True(t, from.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, brt)))
	assert.True(t, to.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, brt)))
	assert.Equal(t, brt, e.Location())
}

func TestWeekWindow(t *testing.T) {
	e := NewQuotaEvaluator(time.UTC)
	entry := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	start, end := e.WeekWindow(entry)
	assert.True(t, start.Equal(time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)))
	assert.True(t, end.Equal(entry))
}

type countCall struct {
	from, to time.Time
}

type fakeCounter struct {
	onDate, inWindow int
	err              error
	dateCall         countCall
	windowCall       countCall
}

func (f *fakeCounter) CountOnDate(_ context.Context, _ int64, from, to time.Time) (int, error) {
	f.dateCall = countCall{from, to}
	return f.onDate, f.err
}

func (f *fakeCounter) CountInWindow(_ context.Context, _ int64, start, end time.Time) (int, error) {
	f.windowCall = countCall{start, end}
	return f.inWindow, nil
}

func TestEvaluate(t *testing.T) {
	e := NewQuotaEvaluator(time.UTC)
	entry := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	c := &fakeCounter{onDate: 0, inWindow: 2}
	q, err := e.Evaluate(context.Background(), c, 1, entry, "3x por semana")
	require.NoError(t, err)
	assert.False(t, q.AlreadyCheckedInToday)
	assert.Equal(t, 2, q.WeeklyCount)
	assert.Equal(t, VisitsPerWeek(3), q.WeeklyLimit)
	assert.True(t, c.dateCall.from.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.windowCall.to.Equal(entry))

	c = &fakeCounter{onDate: 1}
	q, err = e.Evaluate(context.Background(), c, 1, entry, "ilimitado")
	require.NoError(t, err)
	assert.True(t, q.AlreadyCheckedInToday)

	c = &fakeCounter{err: errors.New("db down")}
	_, err = e.Evaluate(context.Background(), c, 1, entry, "ilimitado")
	assert.Error(t, err)
}
