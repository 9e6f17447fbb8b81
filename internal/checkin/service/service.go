package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"gymaccess/internal/apperror"
	"gymaccess/internal/checkin"
	"gymaccess/internal/metrics"
	"gymaccess/internal/subscription"
)

// Messages surfaced for storage faults; the cause is only logged.
const (
	msgCreateFailed = "check-in creation failed"
	msgUpdateFailed = "check-in update failed"
	msgDeleteFailed = "check-in removal failed"
	msgReadFailed   = "check-in lookup failed"
)

// CreateInput is an entry attempt. The entry time is always the service clock, so
// check-ins reach the ledger in time order and the trailing weekly window sees every
// earlier visit.
type CreateInput struct {
	SubscriptionID int64
	ExitAt         *time.Time
}

// Service is the admission decision engine over a check-in ledger.
type Service struct {
	ledger checkin.Ledger
	quota  *checkin.QuotaEvaluator
	now    func() time.Time
}

func NewService(ledger checkin.Ledger, quota *checkin.QuotaEvaluator) *Service {
	return &Service{ledger: ledger, quota: quota, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create decides an entry attempt and records it.
//
// An expired subscription still produces a stored, denied check-in. A second check-in on
// the same calendar day or one beyond the plan's weekly quota is rejected and nothing is
// written. Rule checks and the insert share one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*checkin.CheckIn, error) {
	const op = "checkin.create"

	if in.SubscriptionID == 0 {
		metrics.CheckInDecisionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, apperror.MissingField(op, "subscription_id")
	}

	now := s.now()
	record := &checkin.CheckIn{
		SubscriptionID: in.SubscriptionID,
		EntryAt:        now,
		ExitAt:         in.ExitAt,
		Authorized:     true,
	}
	if err := checkin.Validate(op, record); err != nil {
		metrics.CheckInDecisionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	var saved *checkin.CheckIn
	started := time.Now()
	err := s.ledger.WithinTx(ctx, func(tx checkin.Tx) error {
		sub, err := tx.GetSubscription(ctx, in.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return apperror.NotFound(op, "subscription")
		}
		if sub.Plan == nil {
			return errors.New("subscription loaded without plan")
		}

		if subscription.ResolveStatus(sub.ExpiresAt, now) == subscription.StatusExpired {
			record.Deny(checkin.ReasonSubscriptionExpired)
		}

		if err := tx.LockClient(ctx, sub.ClientID); err != nil {
			return err
		}
		q, err := s.quota.Evaluate(ctx, tx, sub.ClientID, record.EntryAt, sub.Plan.Frequency)
		if err != nil {
			return err
		}
		if rule, msg := q.Violation(); rule != "" {
			zerolog.Ctx(ctx).Info().
				Int64("client_id", sub.ClientID).
				Int64("subscription_id", sub.ID).
				Str("rule", rule).
				Int("weekly_count", q.WeeklyCount).
				Str("weekly_limit", q.WeeklyLimit.String()).
				Msg("check-in rejected")
			return apperror.BusinessRule(op, rule, msg)
		}

		if err := tx.Insert(ctx, record); err != nil {
			return err
		}
		saved, err = tx.FindByID(ctx, record.ID)
		if err != nil {
			return err
		}
		if saved == nil {
			return errors.New("inserted check-in not readable")
		}
		return nil
	})
	metrics.CheckInTxDuration.WithLabelValues("create").Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.CheckInDecisionsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, s.classify(ctx, op, msgCreateFailed, in.SubscriptionID, err)
	}

	if saved.Authorized {
		metrics.CheckInDecisionsTotal.WithLabelValues(metrics.OutcomeAuthorized).Inc()
	} else {
		metrics.CheckInDecisionsTotal.WithLabelValues(metrics.OutcomeDeniedExpired).Inc()
	}
	zerolog.Ctx(ctx).Info().
		Int64("checkin_id", saved.ID).
		Int64("subscription_id", saved.SubscriptionID).
		Bool("authorized", saved.Authorized).
		Msg("check-in recorded")

	return s.withStatus(saved, now), nil
}

// Update patches fields of an existing check-in without re-running admission rules.
func (s *Service) Update(ctx context.Context, id int64, patch checkin.Patch) (*checkin.CheckIn, error) {
	const op = "checkin.update"

	var saved *checkin.CheckIn
	started := time.Now()
	err := s.ledger.WithinTx(ctx, func(tx checkin.Tx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound(op, "check-in")
		}

		patch.Apply(current)
		if err := checkin.Validate(op, current); err != nil {
			return err
		}
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		saved, err = tx.FindByID(ctx, id)
		return err
	})
	metrics.CheckInTxDuration.WithLabelValues("update").Observe(time.Since(started).Seconds())

	if err != nil {
		return nil, s.classify(ctx, op, msgUpdateFailed, id, err)
	}
	return s.withStatus(saved, s.now()), nil
}

// Delete removes a check-in and returns the removed record.
func (s *Service) Delete(ctx context.Context, id int64) (*checkin.CheckIn, error) {
	const op = "checkin.delete"

	var removed *checkin.CheckIn
	err := s.ledger.WithinTx(ctx, func(tx checkin.Tx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound(op, "check-in")
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		removed = current
		return nil
	})
	if err != nil {
		return nil, s.classify(ctx, op, msgDeleteFailed, id, err)
	}
	return s.withStatus(removed, s.now()), nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*checkin.CheckIn, error) {
	const op = "checkin.find"

	c, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, s.classify(ctx, op, msgReadFailed, id, err)
	}
	if c == nil {
		return nil, apperror.NotFound(op, "check-in")
	}
	return s.withStatus(c, s.now()), nil
}

func (s *Service) ListAll(ctx context.Context) ([]*checkin.CheckIn, error) {
	return s.list(ctx, "checkin.list", s.ledger.ListAll)
}

// ListByClient returns the client's check-ins, most recent entry first.
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*checkin.CheckIn, error) {
	return s.list(ctx, "checkin.list_by_client", func(ctx context.Context) ([]*checkin.CheckIn, error) {
		return s.ledger.ListByClient(ctx, clientID)
	})
}

func (s *Service) ListByAuthorization(ctx context.Context, authorized bool) ([]*checkin.CheckIn, error) {
	return s.list(ctx, "checkin.list_by_authorization", func(ctx context.Context) ([]*checkin.CheckIn, error) {
		return s.ledger.ListByAuthorization(ctx, authorized)
	})
}

// ListPresent returns the check-ins that have no exit yet.
func (s *Service) ListPresent(ctx context.Context) ([]*checkin.CheckIn, error) {
	return s.list(ctx, "checkin.list_present", s.ledger.ListPresent)
}

func (s *Service) list(ctx context.Context, op string, fetch func(context.Context) ([]*checkin.CheckIn, error)) ([]*checkin.CheckIn, error) {
	items, err := fetch(ctx)
	if err != nil {
		return nil, s.classify(ctx, op, msgReadFailed, 0, err)
	}
	now := s.now()
	out := make([]*checkin.CheckIn, 0, len(items))
	for _, c := range items {
		out = append(out, s.withStatus(c, now))
	}
	return out, nil
}

func (s *Service) withStatus(c *checkin.CheckIn, now time.Time) *checkin.CheckIn {
	if c.Subscription != nil {
		c.Subscription.WithStatus(now)
	}
	return c
}

// classify passes typed caller errors through and hides everything else behind message.
func (s *Service) classify(ctx context.Context, op, message string, id int64, err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindMissingField, apperror.KindNotFound, apperror.KindBusinessRule, apperror.KindValidation:
		return err
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Int64("id", id).Msg(message)
	return apperror.Persistence(op, message, err)
}

func outcomeOf(err error) string {
	switch apperror.RuleOf(err) {
	case checkin.RuleDuplicateDaily:
		return metrics.OutcomeDuplicateDaily
	case checkin.RuleWeeklyQuota:
		return metrics.OutcomeWeeklyQuota
	}
	switch apperror.KindOf(err) {
	case apperror.KindNotFound, apperror.KindValidation, apperror.KindMissingField:
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeFailed
}
