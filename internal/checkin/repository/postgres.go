package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"gymaccess/internal/apperror"
	"gymaccess/internal/checkin"
	"gymaccess/internal/subscription"
	subscriptionrepository "gymaccess/internal/subscription/repository"
	"gymaccess/pkg/db"
)

const selectCheckIns = `
	SELECT c.id, c.subscription_id, c.entry_at, c.exit_at, c.authorized, c.block_reason,
	       s.id, s.client_id, s.plan_id, s.value, s.discount, s.payment_method, s.expires_at, s.created_at,
	       cl.id, cl.name, COALESCE(cl.email, ''),
	       p.id, p.name, p.value, p.frequency
	  FROM checkins c
	  JOIN subscriptions s ON s.id = c.subscription_id
	  JOIN clients cl ON cl.id = s.client_id
	  JOIN plans p ON p.id = s.plan_id`

// PostgreSQL error codes mapped to caller-visible failures.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// CheckInRepository runs check-in queries against a *sql.DB or a *sql.Tx.
type CheckInRepository struct {
	q db.Querier
}

func NewCheckInRepository(q db.Querier) *CheckInRepository {
	return &CheckInRepository{q: q}
}

func (r *CheckInRepository) Insert(ctx context.Context, c *checkin.CheckIn) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO checkins (subscription_id, entry_at, exit_at, authorized, block_reason)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.SubscriptionID, c.EntryAt, c.ExitAt, c.Authorized, c.BlockReason).Scan(&c.ID)
	return translate("checkin.insert", err)
}

func (r *CheckInRepository) Update(ctx context.Context, c *checkin.CheckIn) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE checkins SET entry_at = $1, exit_at = $2, authorized = $3, block_reason = $4 WHERE id = $5`,
		c.EntryAt, c.ExitAt, c.Authorized, c.BlockReason, c.ID)
	return translate("checkin.update", err)
}

func (r *CheckInRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM checkins WHERE id = $1`, id)
	return err
}

// FindByID returns nil, nil when the check-in does not exist.
func (r *CheckInRepository) FindByID(ctx context.Context, id int64) (*checkin.CheckIn, error) {
	c, err := scanCheckIn(r.q.QueryRowContext(ctx, selectCheckIns+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CheckInRepository) ListAll(ctx context.Context) ([]*checkin.CheckIn, error) {
	return r.list(ctx, selectCheckIns+` ORDER BY c.entry_at DESC`)
}

// ListByClient returns the client's check-ins across all their subscriptions, most recent first.
func (r *CheckInRepository) ListByClient(ctx context.Context, clientID int64) ([]*checkin.CheckIn, error) {
	return r.list(ctx, selectCheckIns+` WHERE s.client_id = $1 ORDER BY c.entry_at DESC`, clientID)
}

func (r *CheckInRepository) ListByAuthorization(ctx context.Context, authorized bool) ([]*checkin.CheckIn, error) {
	return r.list(ctx, selectCheckIns+` WHERE c.authorized = $1 ORDER BY c.entry_at DESC`, authorized)
}

// ListPresent returns check-ins without an exit time.
func (r *CheckInRepository) ListPresent(ctx context.Context) ([]*checkin.CheckIn, error) {
	return r.list(ctx, selectCheckIns+` WHERE c.exit_at IS NULL ORDER BY c.entry_at DESC`)
}

// CountOnDate counts the client's check-ins with from <= entry_at < to.
func (r *CheckInRepository) CountOnDate(ctx context.Context, clientID int64, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*)
		   FROM checkins c
		   JOIN subscriptions s ON s.id = c.subscription_id
		  WHERE s.client_id = $1 AND c.entry_at >= $2 AND c.entry_at < $3`,
		clientID, from, to).Scan(&n)
	return n, err
}

// CountInWindow counts the client's check-ins with start <= entry_at <= end.
func (r *CheckInRepository) CountInWindow(ctx context.Context, clientID int64, start, end time.Time) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*)
		   FROM checkins c
		   JOIN subscriptions s ON s.id = c.subscription_id
		  WHERE s.client_id = $1 AND c.entry_at BETWEEN $2 AND $3`,
		clientID, start, end).Scan(&n)
	return n, err
}

func (r *CheckInRepository) list(ctx context.Context, query string, args ...any) ([]*checkin.CheckIn, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*checkin.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(s scanner) (*checkin.CheckIn, error) {
	var (
		exitAt sql.NullTime
		reason sql.NullString
	)
	c := &checkin.CheckIn{}
	sub := &subscription.Subscription{Client: &subscription.Client{}, Plan: &subscription.Plan{}}
	err := s.Scan(
		&c.ID,
		&c.SubscriptionID,
		&c.EntryAt,
		&exitAt,
		&c.Authorized,
		&reason,
		&sub.ID,
		&sub.ClientID,
		&sub.PlanID,
		&sub.Value,
		&sub.Discount,
		&sub.PaymentMethod,
		&sub.ExpiresAt,
		&sub.CreatedAt,
		&sub.Client.ID,
		&sub.Client.Name,
		&sub.Client.Email,
		&sub.Plan.ID,
		&sub.Plan.Name,
		&sub.Plan.Value,
		&sub.Plan.Frequency,
	)
	if err != nil {
		return nil, err
	}
	if exitAt.Valid {
		c.ExitAt = &exitAt.Time
	}
	if reason.Valid {
		c.BlockReason = &reason.String
	}
	c.Subscription = sub
	return c, nil
}

// translate maps constraint violations to typed errors and passes everything else through.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		return apperror.NotFound(op, "subscription")
	case pqCheckViolation:
		return apperror.Validation(op, apperror.FieldError{Field: "exit_at", Message: "exit time must be after entry time"})
	}
	return err
}

// Ledger is the PostgreSQL check-in ledger.
type Ledger struct {
	*CheckInRepository
	db *sql.DB
}

func NewLedger(database *sql.DB) *Ledger {
	return &Ledger{CheckInRepository: NewCheckInRepository(database), db: database}
}

func (l *Ledger) WithinTx(ctx context.Context, fn func(tx checkin.Tx) error) error {
	return db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		return fn(&txLedger{
			CheckInRepository: NewCheckInRepository(tx),
			subs:              subscriptionrepository.NewSubscriptionRepository(tx),
			tx:                tx,
		})
	})
}

// txLedger binds the check-in and subscription repositories to one transaction.
type txLedger struct {
	*CheckInRepository
	subs *subscriptionrepository.SubscriptionRepository
	tx   *sql.Tx
}

func (t *txLedger) GetSubscription(ctx context.Context, id int64) (*subscription.Subscription, error) {
	return t.subs.GetWithPlan(ctx, id)
}

// LockClient takes a transaction-scoped advisory lock keyed by the client id, so two
// admissions for the same client cannot interleave their checks and insert.
func (t *txLedger) LockClient(ctx context.Context, clientID int64) error {
	_, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, clientID)
	return err
}
