// Package window decomposes an ssdeep digest into the ordered list of
// window keys used to index and retrieve similar digests.
package window

import (
	"fmt"
	"strconv"
	"strings"
)

const windowSize = 7

// ErrMalformedDigest is returned when a digest does not split into exactly
// three colon-separated fields, or its blocksize field is not a positive
// integer.
var ErrMalformedDigest = fmt.Errorf("window: malformed digest")

// Decompose parses digest (the "B:S:D" ssdeep format) and returns its
// window-key list: every length-7 sliding window of the normalized single
// block, prefixed "<B>:", followed by every length-7 sliding window of the
// normalized double block, prefixed "<2B>:". Duplicates are not
// deduplicated; the store's set semantics absorb them on write.
//
// The digest itself is never a member of its own window-key list.
func Decompose(digest string) ([]string, error) {
	parts := strings.Split(digest, ":")
	if len(parts) != 3 {
		return nil, ErrMalformedDigest
	}

	blockSize, err := strconv.Atoi(parts[0])
	if err != nil || blockSize <= 0 {
		return nil, ErrMalformedDigest
	}

	single := normalize(parts[1])
	double := normalize(parts[2])

	keys := make([]string, 0, windows(len(single))+windows(len(double)))
	keys = appendWindows(keys, blockSize, single)
	keys = appendWindows(keys, blockSize*2, double)
	return keys, nil
}

// normalize collapses every run of four or more identical characters down
// to a run of exactly three, matching the reference ssdeep comparator's
// internal preprocessing step. The result is independent of how long the
// original run was: "xxxxx" and "xxxxxxxx" both normalize to "xxx".
func normalize(s string) string {
	if len(s) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	run := 1
	for i := 1; i <= len(s); i++ {
		if i < len(s) && s[i] == s[i-1] {
			run++
			continue
		}
		c := s[i-1]
		n := run
		if n > 3 {
			n = 3
		}
		for j := 0; j < n; j++ {
			b.WriteByte(c)
		}
		run = 1
	}
	return b.String()
}

// windows returns the number of length-7 sliding windows a string of
// length n produces: n-6 for n >= 7, zero otherwise.
func windows(n int) int {
	if n < windowSize {
		return 0
	}
	return n - windowSize + 1
}

// appendWindows appends "<blockSize>:<window>" for every length-7 sliding
// window of block, in order, to keys.
func appendWindows(keys []string, blockSize int, block string) []string {
	n := windows(len(block))
	for i := 0; i < n; i++ {
		keys = append(keys, strconv.Itoa(blockSize)+":"+block[i:i+windowSize])
	}
	return keys
}
