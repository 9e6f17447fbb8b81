package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"gymaccess/internal/dashboard"
)

// PostgresDashboardRepository runs the read-only aggregate queries behind the dashboard.
type PostgresDashboardRepository struct {
	DB *sqlx.DB
}

func NewPostgresDashboardRepository(db *sqlx.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{DB: db}
}

func (r *PostgresDashboardRepository) CountClients(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM clients`)
}

// CountSubscriptionsExpiringFrom counts subscriptions with expires_at >= t.
func (r *PostgresDashboardRepository) CountSubscriptionsExpiringFrom(ctx context.Context, t time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE expires_at >= $1`, t)
}

func (r *PostgresDashboardRepository) CountSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE expires_at BETWEEN $1 AND $2`, from, to)
}

func (r *PostgresDashboardRepository) CountSubscriptionsCreatedSince(ctx context.Context, t time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE created_at >= $1`, t)
}

// CountSubscriptionsCreatedBetween counts subscriptions with from <= created_at < to.
func (r *PostgresDashboardRepository) CountSubscriptionsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE created_at >= $1 AND created_at < $2`, from, to)
}

// CountCheckInsBetween counts check-ins with from <= entry_at < to.
func (r *PostgresDashboardRepository) CountCheckInsBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM checkins WHERE entry_at >= $1 AND entry_at < $2`, from, to)
}

func (r *PostgresDashboardRepository) CountOpenCheckInsSince(ctx context.Context, t time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM checkins WHERE exit_at IS NULL AND entry_at >= $1`, t)
}

func (r *PostgresDashboardRepository) RecentCheckIns(ctx context.Context, limit int) ([]dashboard.RecentCheckIn, error) {
	query := `
		SELECT cl.name AS client_name, c.entry_at, c.authorized
		FROM checkins c
		JOIN subscriptions s ON s.id = c.subscription_id
		JOIN clients cl ON cl.id = s.client_id
		ORDER BY c.entry_at DESC
		LIMIT $1
	`
	out := []dashboard.RecentCheckIn{}
	if err := r.DB.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresDashboardRepository) CheckInEntriesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.DB.SelectContext(ctx, &out,
		`SELECT entry_at FROM checkins WHERE entry_at >= $1 AND entry_at < $2 ORDER BY entry_at ASC`, from, to)
	return out, err
}

func (r *PostgresDashboardRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, query, args...)
	return n, err
}
