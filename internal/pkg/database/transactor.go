package database

import (
	"context"
	"sync"
)

// Transactor runs a unit of work that mutates one employee's data. All work
// sharing the same key is serialized, and the work commits or rolls back as
// a whole.
type Transactor interface {
	WithinEmployee(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error
}

// LocalTransactor serializes work per key inside a single process. It has no
// rollback, so it only suits in-memory stores.
type LocalTransactor struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalTransactor() *LocalTransactor {
	return &LocalTransactor{locks: make(map[string]*sync.Mutex)}
}

func (t *LocalTransactor) WithinEmployee(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	l, ok := t.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[employeeID] = l
	}
	t.mu.Unlock()

	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
