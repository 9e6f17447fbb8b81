package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"gymaccess/internal/apperror"
	"gymaccess/internal/subscription"
)

const DefaultExpiringDays = 10

type SubscriptionRepository interface {
	GetWithPlan(ctx context.Context, id int64) (*subscription.Subscription, error)
	ListAll(ctx context.Context) ([]*subscription.Subscription, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error)
}

// Service serves the reporting side of subscriptions. Status is always derived
// with subscription.ResolveStatus so reports agree with admission control.
type Service struct {
	repo SubscriptionRepository
	now  func() time.Time
}

func NewService(repo SubscriptionRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*subscription.Subscription, error) {
	const op = "subscription.get"

	sub, err := s.repo.GetWithPlan(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("subscription_id", id).Msg("failed to load subscription")
		return nil, apperror.Persistence(op, "failed to load subscription", err)
	}
	if sub == nil {
		return nil, apperror.NotFound(op, "subscription")
	}
	return sub.WithStatus(s.now()), nil
}

// ResolveStatus is the reporting entry point for a single subscription.
func (s *Service) ResolveStatus(sub *subscription.Subscription) subscription.Status {
	return subscription.ResolveStatus(sub.ExpiresAt, s.now())
}

// ListByStatus returns the subscriptions whose derived status equals status.
// One clock reading is used for the whole listing.
func (s *Service) ListByStatus(ctx context.Context, status subscription.Status) ([]*subscription.Subscription, error) {
	const op = "subscription.list_by_status"

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("failed to list subscriptions")
		return nil, apperror.Persistence(op, "failed to list subscriptions", err)
	}

	now := s.now()
	out := make([]*subscription.Subscription, 0, len(all))
	for _, sub := range all {
		if sub.WithStatus(now).Status == status {
			out = append(out, sub)
		}
	}
	return out, nil
}

// ListExpiringWithin returns subscriptions expiring between now and now+days.
func (s *Service) ListExpiringWithin(ctx context.Context, days int) ([]*subscription.Subscription, error) {
	const op = "subscription.list_expiring"

	if days <= 0 {
		days = DefaultExpiringDays
	}
	now := s.now()
	subs, err := s.repo.ListExpiringBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		log.Error().Err(err).Int("days", days).Msg("failed to list expiring subscriptions")
		return nil, apperror.Persistence(op, "failed to list expiring subscriptions", err)
	}
	for _, sub := range subs {
		sub.WithStatus(now)
	}
	return subs, nil
}
