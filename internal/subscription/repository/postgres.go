package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymaccess/internal/subscription"
	"gymaccess/pkg/db"
)

const selectWithRelations = `
	SELECT s.id, s.client_id, s.plan_id, s.value, s.discount, s.payment_method, s.expires_at, s.created_at,
	       c.id, c.name, COALESCE(c.email, ''),
	       p.id, p.name, p.value, p.frequency
	  FROM subscriptions s
	  JOIN clients c ON c.id = s.client_id
	  JOIN plans p ON p.id = s.plan_id`

// SubscriptionRepository reads subscriptions joined with their client and plan.
// It works against a *sql.DB or a *sql.Tx.
type SubscriptionRepository struct {
	q db.Querier
}

func NewSubscriptionRepository(q db.Querier) *SubscriptionRepository {
	return &SubscriptionRepository{q: q}
}

// GetWithPlan returns nil, nil when the subscription does not exist.
func (r *SubscriptionRepository) GetWithPlan(ctx context.Context, id int64) (*subscription.Subscription, error) {
	row := r.q.QueryRowContext(ctx, selectWithRelations+` WHERE s.id = $1`, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	return r.list(ctx, selectWithRelations+` ORDER BY s.expires_at ASC`)
}

// ListExpiringBetween returns subscriptions with from <= expires_at <= to.
func (r *SubscriptionRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	return r.list(ctx, selectWithRelations+` WHERE s.expires_at BETWEEN $1 AND $2 ORDER BY s.expires_at ASC`, from, to)
}

func (r *SubscriptionRepository) list(ctx context.Context, query string, args ...any) ([]*subscription.Subscription, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(s scanner) (*subscription.Subscription, error) {
	sub := &subscription.Subscription{Client: &subscription.Client{}, Plan: &subscription.Plan{}}
	err := s.Scan(
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
	return sub, nil
}
