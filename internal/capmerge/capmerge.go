// Package capmerge merges a batch of free-text capability labels into an
// existing list without introducing case-insensitive duplicates. The same
// rules apply to a signed-in account and to a guest's in-memory list.
package capmerge

import (
	"strings"

	"github.com/dmitrijs2005/strengthsmap/internal/taxonomy"
)

// NoNewEntriesNotice is shown when a non-empty batch added nothing.
const NoNewEntriesNotice = "No new entries to add. All items already exist."

// Result describes the outcome of a merge.
type Result struct {
	// Added holds the surviving items in batch order, trimmed.
	Added []string
	// NoNewEntries is set when the batch had input but every item already existed.
	NoNewEntries bool
}

// Notice returns the user-facing message for the result, or "".
func (r Result) Notice() string {
	if r.NoNewEntries {
		return NoNewEntriesNotice
	}
	return ""
}

// Merge computes which batch items are new with respect to existing.
// Items are trimmed and empties dropped; duplicates within the batch keep
// their first occurrence; items matching an existing one are dropped.
func Merge(existing, batch []string) Result {
	seen := make(map[string]struct{}, len(existing)+len(batch))
	for _, e := range existing {
		seen[taxonomy.Key(e)] = struct{}{}
	}

	res := Result{Added: []string{}}
	nonEmpty := false
	for _, raw := range batch {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		nonEmpty = true

		k := taxonomy.Key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		res.Added = append(res.Added, item)
	}

	res.NoNewEntries = nonEmpty && len(res.Added) == 0
	return res
}

// Apply merges batch into existing and returns the extended list.
// existing is not modified.
func Apply(existing, batch []string) ([]string, Result) {
	res := Merge(existing, batch)
	out := make([]string, 0, len(existing)+len(res.Added))
	out = append(out, existing...)
	out = append(out, res.Added...)
	return out, res
}
