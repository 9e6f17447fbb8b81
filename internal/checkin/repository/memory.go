package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gymaccess/internal/apperror"
	"gymaccess/internal/checkin"
	"gymaccess/internal/subscription"
)

// MemoryLedger keeps subscriptions and check-ins in process memory. Transactions are
// serialised by a single mutex and rolled back by restoring a snapshot.
type MemoryLedger struct {
	mu     sync.Mutex
	subs   map[int64]*subscription.Subscription
	rows   map[int64]checkin.CheckIn
	nextID int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		subs: make(map[int64]*subscription.Subscription),
		rows: make(map[int64]checkin.CheckIn),
	}
}

// AddSubscription registers sub, with its client and plan, for later lookups.
func (l *MemoryLedger) AddSubscription(sub *subscription.Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *sub
	l.subs[sub.ID] = &cp
}

func (l *MemoryLedger) WithinTx(ctx context.Context, fn func(tx checkin.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make(map[int64]checkin.CheckIn, len(l.rows))
	for id, c := range l.rows {
		snapshot[id] = c
	}
	nextID := l.nextID

	committed := false
	defer func() {
		if !committed {
			l.rows = snapshot
			l.nextID = nextID
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(memTx{l}); err != nil {
		return err
	}
	committed = true
	return nil
}

func (l *MemoryLedger) FindByID(_ context.Context, id int64) (*checkin.CheckIn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.find(id), nil
}

func (l *MemoryLedger) ListAll(_ context.Context) ([]*checkin.CheckIn, error) {
	return l.filter(func(*checkin.CheckIn) bool { return true }), nil
}

func (l *MemoryLedger) ListByClient(_ context.Context, clientID int64) ([]*checkin.CheckIn, error) {
	return l.filter(func(c *checkin.CheckIn) bool { return c.Subscription.ClientID == clientID }), nil
}

func (l *MemoryLedger) ListByAuthorization(_ context.Context, authorized bool) ([]*checkin.CheckIn, error) {
	return l.filter(func(c *checkin.CheckIn) bool { return c.Authorized == authorized }), nil
}

func (l *MemoryLedger) ListPresent(_ context.Context) ([]*checkin.CheckIn, error) {
	return l.filter(func(c *checkin.CheckIn) bool { return c.ExitAt == nil }), nil
}

// Subscriptions exposes the registered subscriptions to the reporting service.
func (l *MemoryLedger) Subscriptions() *MemorySubscriptions {
	return &MemorySubscriptions{l: l}
}

type MemorySubscriptions struct {
	l *MemoryLedger
}

func (m *MemorySubscriptions) GetWithPlan(_ context.Context, id int64) (*subscription.Subscription, error) {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	return m.l.subscription(id), nil
}

func (m *MemorySubscriptions) ListAll(_ context.Context) ([]*subscription.Subscription, error) {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(m.l.subs))
	for id := range m.l.subs {
		out = append(out, m.l.subscription(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (m *MemorySubscriptions) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	all, _ := m.ListAll(ctx)
	out := all[:0]
	for _, sub := range all {
		if !sub.ExpiresAt.Before(from) && !sub.ExpiresAt.After(to) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (l *MemoryLedger) subscription(id int64) *subscription.Subscription {
	sub, ok := l.subs[id]
	if !ok {
		return nil
	}
	cp := *sub
	return &cp
}

func (l *MemoryLedger) find(id int64) *checkin.CheckIn {
	row, ok := l.rows[id]
	if !ok {
		return nil
	}
	row.Subscription = l.subscription(row.SubscriptionID)
	return &row
}

func (l *MemoryLedger) filter(keep func(*checkin.CheckIn) bool) []*checkin.CheckIn {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*checkin.CheckIn
	for id := range l.rows {
		c := l.find(id)
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryAt.Equal(out[j].EntryAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].EntryAt.After(out[j].EntryAt)
	})
	return out
}

func (l *MemoryLedger) count(clientID int64, in func(time.Time) bool) int {
	n := 0
	for _, row := range l.rows {
		sub, ok := l.subs[row.SubscriptionID]
		if ok && sub.ClientID == clientID && in(row.EntryAt) {
			n++
		}
	}
	return n
}

// memTx runs with l.mu already held by WithinTx.
type memTx struct {
	l *MemoryLedger
}

func (t memTx) GetSubscription(_ context.Context, id int64) (*subscription.Subscription, error) {
	return t.l.subscription(id), nil
}

func (t memTx) LockClient(context.Context, int64) error {
	return nil
}

func (t memTx) CountOnDate(_ context.Context, clientID int64, from, to time.Time) (int, error) {
	return t.l.count(clientID, func(e time.Time) bool { return !e.Before(from) && e.Before(to) }), nil
}

func (t memTx) CountInWindow(_ context.Context, clientID int64, start, end time.Time) (int, error) {
	return t.l.count(clientID, func(e time.Time) bool { return !e.Before(start) && !e.After(end) }), nil
}

func (t memTx) Insert(_ context.Context, c *checkin.CheckIn) error {
	if err := t.check("checkin.insert", c); err != nil {
		return err
	}
	t.l.nextID++
	c.ID = t.l.nextID
	row := *c
	row.Subscription = nil
	t.l.rows[c.ID] = row
	return nil
}

func (t memTx) FindByID(_ context.Context, id int64) (*checkin.CheckIn, error) {
	return t.l.find(id), nil
}

func (t memTx) Update(_ context.Context, c *checkin.CheckIn) error {
	if _, ok := t.l.rows[c.ID]; !ok {
		return nil
	}
	if err := t.check("checkin.update", c); err != nil {
		return err
	}
	row := *c
	row.Subscription = nil
	t.l.rows[c.ID] = row
	return nil
}

func (t memTx) Delete(_ context.Context, id int64) error {
	delete(t.l.rows, id)
	return nil
}

// check mirrors the foreign key and CHECK constraints of the checkins table.
func (t memTx) check(op string, c *checkin.CheckIn) error {
	if _, ok := t.l.subs[c.SubscriptionID]; !ok {
		return apperror.NotFound(op, "subscription")
	}
	if c.ExitAt != nil && !c.ExitAt.After(c.EntryAt) {
		return apperror.Validation(op, apperror.FieldError{Field: "exit_at", Message: "exit time must be after entry time"})
	}
	return nil
}
