package ports

import (
	"context"
	"errors"
)

// ErrLockBusy is returned when a key stays held past the locker's wait budget.
var ErrLockBusy = errors.New("resource is busy")

// Locker serializes work on a single key (a route or an order).
// Lock blocks until the key is free or ctx is done and returns the release func.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
