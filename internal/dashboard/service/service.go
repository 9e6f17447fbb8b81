package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gymaccess/internal/apperror"
	"gymaccess/internal/dashboard"
)

const (
	ExpiringDays      = 10
	RecentCheckInsMax = 10
	ChartMonths       = 6
)

type DashboardRepository interface {
	CountClients(ctx context.Context) (int, error)
	CountSubscriptionsExpiringFrom(ctx context.Context, t time.Time) (int, error)
	CountSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) (int, error)
	CountSubscriptionsCreatedSince(ctx context.Context, t time.Time) (int, error)
	CountSubscriptionsCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCheckInsBetween(ctx context.Context, from, to time.Time) (int, error)
	CountOpenCheckInsSince(ctx context.Context, t time.Time) (int, error)
	RecentCheckIns(ctx context.Context, limit int) ([]dashboard.RecentCheckIn, error)
	CheckInEntriesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

type Service struct {
	repo DashboardRepository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the overview in loc, the same timezone the check-in ledger uses for days.
func NewService(repo DashboardRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Overview gathers the dashboard figures concurrently. The first failing query cancels the rest.
func (s *Service) Overview(ctx context.Context) (*dashboard.Overview, error) {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	tomorrow := today.AddDate(0, 0, 1)

	var (
		ov      = &dashboard.Overview{}
		entries []time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}

	count(&ov.Stats.TotalClients, s.repo.CountClients)
	count(&ov.Stats.ActiveSubscriptions, func(ctx context.Context) (int, error) {
		return s.repo.CountSubscriptionsExpiringFrom(ctx, now)
	})
	count(&ov.Stats.ExpiringSubscriptions, func(ctx context.Context) (int, error) {
		return s.repo.CountSubscriptionsExpiringBetween(ctx, now, today.AddDate(0, 0, ExpiringDays))
	})
	count(&ov.Stats.NewSubscriptionsWeek, func(ctx context.Context) (int, error) {
		return s.repo.CountSubscriptionsCreatedSince(ctx, today.AddDate(0, 0, -7))
	})
	count(&ov.Stats.CheckInsToday, func(ctx context.Context) (int, error) {
		return s.repo.CountCheckInsBetween(ctx, today, tomorrow)
	})
	count(&ov.Stats.ClientsInGym, func(ctx context.Context) (int, error) {
		return s.repo.CountOpenCheckInsSince(ctx, today)
	})

	months := MonthStarts(today, ChartMonths)
	ov.Chart = dashboard.Chart{
		Labels:           make([]string, len(months)),
		NewSubscriptions: make([]int, len(months)),
	}
	for i, start := range months {
		start := start
		ov.Chart.Labels[i] = start.Format("Jan 2006")
		count(&ov.Chart.NewSubscriptions[i], func(ctx context.Context) (int, error) {
			return s.repo.CountSubscriptionsCreatedBetween(ctx, start, start.AddDate(0, 1, 0))
		})
	}

	g.Go(func() error {
		recent, err := s.repo.RecentCheckIns(gctx, RecentCheckInsMax)
		ov.RecentCheckIns = recent
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.repo.CheckInEntriesBetween(gctx, today, tomorrow)
		return err
	})

	if err := g.Wait(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to build dashboard overview")
		return nil, apperror.Persistence("dashboard.overview", "failed to build dashboard", err)
	}

	ov.OccupancyByHour = OccupancyByHour(entries, s.loc)
	return ov, nil
}

// MonthStarts returns the first instant of the n calendar months ending with the month of
// day, oldest first, in day's location.
func MonthStarts(day time.Time, n int) []time.Time {
	y, m, _ := day.Date()
	current := time.Date(y, m, 1, 0, 0, 0, 0, day.Location())
	out := make([]time.Time, n)
	for i := range out {
		out[i] = current.AddDate(0, i-(n-1), 0)
	}
	return out
}

// OccupancyByHour buckets entry times by local hour of day.
func OccupancyByHour(entries []time.Time, loc *time.Location) map[int]int {
	out := make(map[int]int)
	for _, e := range entries {
		out[e.In(loc).Hour()]++
	}
	return out
}
