// Package ingest drives the two core workflows spec.md §4.6 describes: the
// hash-and-emit mode (external collaborator, computes primitive hashes and
// writes a TSV record) and the index-from-TSV mode (the core: decompose,
// find candidates, score, index).
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/avuko/kathe-cli/internal/index"
	"github.com/avuko/kathe-cli/internal/record"
	"github.com/avuko/kathe-cli/internal/sanitize"
	"github.com/avuko/kathe-cli/internal/store"
	"github.com/avuko/kathe-cli/internal/window"
)

// State names the per-record state machine spec.md §4.6 defines. It exists
// for observability (Driver reports it through the Logger), not control
// flow.
type State string

const (
	StateReceived     State = "received"
	StateDecomposed   State = "decomposed"
	StateSiblingsRead State = "siblings-read"
	StateScored       State = "scored"
	StateWritten      State = "written"
	StateAcknowledged State = "acknowledged"
	StateReported     State = "reported"
)

// Logger receives one event per state a record passes through. Kind is one
// of the §7 error kinds ("malformed-digest", "input-parse",
// "store-transient", "scorer-unavailable") on a "reported" event, and ""
// on every other event.
type Logger interface {
	Record(state State, kind string, inputName, digest string, err error)
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) Record(State, string, string, string, error) {}

// Driver orchestrates Decomposer -> Candidate Finder -> Scorer -> Indexer
// for each record read from a TSV stream, in input order, without
// batching.
type Driver struct {
	Store  store.Store
	Logger Logger
}

// NewDriver returns a Driver. A nil logger is replaced with NopLogger.
func NewDriver(s store.Store, logger Logger) *Driver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Driver{Store: s, Logger: logger}
}

// Run reads records from r until exhaustion, indexing each one, and
// returns nil. A malformed digest skips that record and moves on (state ->
// reported). A TSV read error (a row without exactly six fields, or any
// other parse error) is reported as input-parse and ends the run: no
// record after it is read.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	scanner := record.NewScanner(r)
	for {
		rec, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			d.Logger.Record(StateReported, "input-parse", "", "", err)
			return nil
		}
		d.ingestOne(ctx, rec)
	}
}

// ingestOne runs one record through the full state machine. Failures at
// any step move the record to "reported" and Run proceeds to the next one.
func (d *Driver) ingestOne(ctx context.Context, rec record.Record) {
	d.Logger.Record(StateReceived, "", rec.InputName, rec.SSDeep, nil)

	windowKeys, err := window.Decompose(rec.SSDeep)
	if err != nil {
		d.Logger.Record(StateReported, "malformed-digest", rec.InputName, rec.SSDeep, err)
		return
	}
	d.Logger.Record(StateDecomposed, "", rec.InputName, rec.SSDeep, nil)

	ix := index.NewIndexer(d.Store)

	// Sibling publication happens before the candidate read, per the
	// ordering guarantee in spec.md §5 -- not required for correctness,
	// since FindCandidates already excludes the record's own digest, but
	// it is the defined order.
	for _, err := range ix.PublishSiblings(ctx, rec.SSDeep, windowKeys) {
		d.Logger.Record(StateReported, "store-transient", rec.InputName, rec.SSDeep, err)
	}

	candidateDigests, findErrs := index.FindCandidates(ctx, d.Store, rec.SSDeep, windowKeys)
	for _, err := range findErrs {
		d.Logger.Record(StateReported, "store-transient", rec.InputName, rec.SSDeep, err)
	}
	d.Logger.Record(StateSiblingsRead, "", rec.InputName, rec.SSDeep, nil)

	var candidates []index.Candidate
	for _, sib := range candidateDigests {
		score, err := index.Score(rec.SSDeep, sib)
		if err != nil {
			d.Logger.Record(StateReported, "scorer-unavailable", rec.InputName, rec.SSDeep, err)
			continue
		}
		candidates = append(candidates, index.Candidate{Digest: sib, Score: score})
	}
	d.Logger.Record(StateScored, "", rec.InputName, rec.SSDeep, nil)

	attrs := index.Attributes{
		InputName: sanitize.String(rec.InputName),
		MD5:       rec.MD5,
		SHA1:      rec.SHA1,
		SHA256:    rec.SHA256,
		Contexts:  sanitize.Contexts(rec.Context),
	}

	errs := ix.Write(ctx, rec.SSDeep, attrs, candidates, index.Now())
	for _, err := range errs {
		d.Logger.Record(StateReported, "store-transient", rec.InputName, rec.SSDeep, err)
	}
	d.Logger.Record(StateWritten, "", rec.InputName, rec.SSDeep, nil)
	d.Logger.Record(StateAcknowledged, "", rec.InputName, rec.SSDeep, nil)
}

// ErrNotRegularFile is returned by HashAndEmit when path is not a regular
// file, mapping to the file-missing error kind in spec.md §7.
var ErrNotRegularFile = fmt.Errorf("ingest: not a regular file")
