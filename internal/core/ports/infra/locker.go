package infra

import (
	"context"
	"errors"
)

// ErrLockNotObtained is returned when an owner lock could not be acquired in time.
var ErrLockNotObtained = errors.New("owner lock not obtained")

// OwnerLocker serializes postings that touch the same owners.
type OwnerLocker interface {
	// LockOwners acquires locks for every owner id (in sorted order) and returns a release func.
	LockOwners(ctx context.Context, ownerIDs []string) (release func(), err error)
}
