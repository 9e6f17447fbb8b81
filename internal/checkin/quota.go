package checkin

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// WeeklyWindowDays is the trailing span, in days, over which the plan quota applies.
const WeeklyWindowDays = 7

var firstInteger = regexp.MustCompile(`\d+`)

// Limit is a weekly visit allowance. The zero value allows no visits.
type Limit struct {
	Visits    int
	Unbounded bool
}

func Unlimited() Limit { return Limit{Unbounded: true} }

func VisitsPerWeek(n int) Limit { return Limit{Visits: n} }

// Reached reports whether count uses up the allowance.
func (l Limit) Reached(count int) bool {
	return !l.Unbounded && count >= l.Visits
}

func (l Limit) String() string {
	if l.Unbounded {
		return "unlimited"
	}
	return strconv.Itoa(l.Visits)
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if l.Unbounded {
		return []byte(`null`), nil
	}
	return []byte(strconv.Itoa(l.Visits)), nil
}

// ParseWeeklyLimit reads a plan frequency descriptor such as "2x por semana" or "Ilimitado".
// A descriptor with an unlimited marker is unbounded; otherwise the first integer is the
// limit. Descriptors without a usable integer yield zero visits.
func ParseWeeklyLimit(descriptor string) Limit {
	txt := strings.ToLower(descriptor)
	if strings.Contains(txt, "ilimit") || strings.Contains(txt, "unlimited") {
		return Unlimited()
	}
	m := firstInteger.FindString(txt)
	if m == "" {
		return VisitsPerWeek(0)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return VisitsPerWeek(0)
	}
	return VisitsPerWeek(n)
}

// Quota is the entitlement of a client for one candidate entry time.
type Quota struct {
	AlreadyCheckedInToday bool  `json:"already_checked_in_today"`
	WeeklyCount           int   `json:"weekly_count"`
	WeeklyLimit           Limit `json:"weekly_limit"`
}

// Violation returns the rule that blocks the entry, or "" when it may proceed.
func (q Quota) Violation() (rule, message string) {
	if q.AlreadyCheckedInToday {
		return RuleDuplicateDaily, "client already checked in today"
	}
	if q.WeeklyLimit.Reached(q.WeeklyCount) {
		return RuleWeeklyQuota, fmt.Sprintf("weekly limit of %d check-ins reached for this plan", q.WeeklyLimit.Visits)
	}
	return "", ""
}

// QuotaCounter is the part of the ledger the evaluator reads.
type QuotaCounter interface {
	CountOnDate(ctx context.Context, clientID int64, from, to time.Time) (int, error)
	CountInWindow(ctx context.Context, clientID int64, start, end time.Time) (int, error)
}

// QuotaEvaluator computes a client's remaining entitlement. Calendar days are
// taken in loc, the ledger's reference timezone.
type QuotaEvaluator struct {
	loc *time.Location
}

func NewQuotaEvaluator(loc *time.Location) *QuotaEvaluator {
	if loc == nil {
		loc = time.Local
	}
	return &QuotaEvaluator{loc: loc}
}

func (e *QuotaEvaluator) Location() *time.Location {
	return e.loc
}

// DayBounds returns [start of day, start of next day) for the calendar date of t.
func (e *QuotaEvaluator) DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.In(e.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the inclusive window [t - 7 days, t].
func (e *QuotaEvaluator) WeekWindow(t time.Time) (time.Time, time.Time) {
	return t.In(e.loc).AddDate(0, 0, -WeeklyWindowDays), t
}

func (e *QuotaEvaluator) Evaluate(ctx context.Context, counter QuotaCounter, clientID int64, entry time.Time, frequency string) (Quota, error) {
	q := Quota{WeeklyLimit: ParseWeeklyLimit(frequency)}

	from, to := e.DayBounds(entry)
	today, err := counter.CountOnDate(ctx, clientID, from, to)
	if err != nil {
		return q, fmt.Errorf("count check-ins on date: %w", err)
	}
	q.AlreadyCheckedInToday = today > 0

	start, end := e.WeekWindow(entry)
	q.WeeklyCount, err = counter.CountInWindow(ctx, clientID, start, end)
	if err != nil {
		return q, fmt.Errorf("count check-ins in window: %w", err)
	}
	return q, nil
}
