package locking

import (
	"context"
	"sync"

	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
)

// LocalLocker serializes postings within one process with a mutex per owner.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocalLocker creates an in-process OwnerLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{})}
}

var _ infra.OwnerLocker = (*LocalLocker)(nil)

func (l *LocalLocker) slot(id string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[id] = ch
	}
	return ch
}

// LockOwners blocks until every owner is locked or ctx is done.
func (l *LocalLocker) LockOwners(ctx context.Context, ownerIDs []string) (func(), error) {
	ids := sortedUnique(ownerIDs)
	held := make([]chan struct{}, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ids {
		ch := l.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, infra.ErrLockNotObtained
		}
	}
	return release, nil
}
