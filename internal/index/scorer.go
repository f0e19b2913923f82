package index

import (
	"errors"

	"github.com/avuko/kathe-cli/ssdeep"
)

// ErrScorerUnavailable is returned when the ssdeep comparator rejects its
// inputs. Per spec.md §4.4/§7, a candidate that fails to score this way is
// dropped rather than treated as record-fatal.
var ErrScorerUnavailable = errors.New("index: scorer unavailable")

// Score returns the ssdeep comparator's similarity score for a and b, an
// integer in [0,100]. It does no normalization of its own — that's handled
// internally by the reference comparator.
func Score(a, b string) (int, error) {
	score, err := ssdeep.Compare(a, b)
	if err != nil {
		return 0, ErrScorerUnavailable
	}
	return score, nil
}
