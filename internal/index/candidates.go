// Package index implements the Candidate Finder, Scorer, and Indexer: the
// parts of the similarity index that read and write the store.
package index

import (
	"context"

	"github.com/avuko/kathe-cli/internal/store"
)

// FindCandidates reads the sibling set for each window key and returns the
// union, minus digest itself. Reads tolerate missing keys (an empty
// sibling set, not an error); a store-transient failure on one window
// key's read is reported but does not stop the remaining window keys from
// being read, per the store-transient policy in spec.md §7.
func FindCandidates(ctx context.Context, s store.Store, digest string, windowKeys []string) ([]string, []error) {
	seen := make(map[string]bool)
	var errs []error

	for _, key := range windowKeys {
		siblings, err := s.SMembers(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, sib := range siblings {
			seen[sib] = true
		}
	}
	delete(seen, digest)

	candidates := make([]string, 0, len(seen))
	for d := range seen {
		candidates = append(candidates, d)
	}
	return candidates, errs
}
