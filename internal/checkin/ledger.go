package checkin

import (
	"context"
	"time"

	"gymaccess/internal/subscription"
)

// Ledger is the durable store of check-ins.
type Ledger interface {
	// WithinTx runs fn in one transaction: committed if fn returns nil, rolled back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	FindByID(ctx context.Context, id int64) (*CheckIn, error)
	ListAll(ctx context.Context) ([]*CheckIn, error)
	ListByClient(ctx context.Context, clientID int64) ([]*CheckIn, error)
	ListByAuthorization(ctx context.Context, authorized bool) ([]*CheckIn, error)
	ListPresent(ctx context.Context) ([]*CheckIn, error)
}

// Tx is the view of the ledger inside a transaction.
// Lookups return nil, nil when the row does not exist.
type Tx interface {
	GetSubscription(ctx context.Context, id int64) (*subscription.Subscription, error)
	// LockClient serialises admission for one client until the transaction ends.
	LockClient(ctx context.Context, clientID int64) error

	CountOnDate(ctx context.Context, clientID int64, from, to time.Time) (int, error)
	CountInWindow(ctx context.Context, clientID int64, start, end time.Time) (int, error)

	Insert(ctx context.Context, c *CheckIn) error
	FindByID(ctx context.Context, id int64) (*CheckIn, error)
	Update(ctx context.Context, c *CheckIn) error
	Delete(ctx context.Context, id int64) error
}
