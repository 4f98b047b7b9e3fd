// Package locking provides per-owner serialization for postings.
package locking

import (
	"sort"
)

const keyPrefix = "trust_ledger:owner:"

// sortedUnique returns ids sorted and de-duplicated; locks are always taken in this order.
func sortedUnique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
