package index

import (
	"context"
	"fmt"
	"time"

	"github.com/avuko/kathe-cli/internal/store"
)

// Candidate is a sibling digest paired with its similarity score, as
// produced by FindCandidates + Score for one ingestion.
type Candidate struct {
	Digest string
	Score  int
}

// Attributes is the set of named external identifiers an ingested digest
// carries, plus its context tokens. inputname/md5/sha1/sha256 are single
// values; context is a list because one artifact may carry several.
type Attributes struct {
	InputName string
	MD5       string
	SHA1      string
	SHA256    string
	Contexts  []string
}

// Indexer writes the fan-out of store entries that make a single ingestion
// observable from every attribute, per spec.md §4.5.
type Indexer struct {
	Store store.Store
}

// NewIndexer returns an Indexer backed by s.
func NewIndexer(s store.Store) *Indexer {
	return &Indexer{Store: s}
}

// appendErr appends err to *errs tagged with label, or does nothing if err
// is nil. Every Indexer write goes
// through this so a single failure never stops the remaining writes,
// matching the store-transient policy in spec.md §7.
func appendErr(errs *[]error, label string, err error) {
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", label, err))
	}
}

// PublishSiblings is step 1 of spec.md §4.5: insert digest into the
// sibling set at every one of its window keys. The Driver calls this
// before reading candidates for the same record (spec.md §5's ordering
// guarantee); it is also the first step Ingest performs, so that Ingest
// alone is sufficient for callers that don't need the candidate read to
// happen in between.
func (ix *Indexer) PublishSiblings(ctx context.Context, digest string, windowKeys []string) []error {
	var errs []error
	for _, key := range windowKeys {
		appendErr(&errs, "sibling-publish", ix.Store.SAdd(ctx, key, digest))
	}
	return errs
}

// Write is steps 2-5 of spec.md §4.5: symmetric edge writes, attribute
// fan-out, global indices, and the timestamp marker. nowMicros is the
// ingestion instant (microsecond epoch), passed in rather than read
// internally so the caller decides the timestamp value that is written.
func (ix *Indexer) Write(ctx context.Context, digest string, attrs Attributes, candidates []Candidate, nowMicros int64) []error {
	var errs []error

	// 2. Edge writes: symmetric, both directions get the same score.
	for _, c := range candidates {
		appendErr(&errs, "edge-write", ix.Store.ZIncrBy(ctx, digest, c.Digest, float64(c.Score)))
		appendErr(&errs, "edge-write", ix.Store.ZIncrBy(ctx, c.Digest, digest, float64(c.Score)))
	}

	// 3. Fan-out: ssdeep:<digest> <-> <kind>:<value>, both directions.
	fanout := func(kind, value string) {
		member := kind + ":" + value
		appendErr(&errs, "fanout-out", ix.Store.ZIncrBy(ctx, "ssdeep:"+digest, member, 1))
		appendErr(&errs, "fanout-in", ix.Store.ZIncrBy(ctx, member, digest, 1))
	}
	fanout("inputname", attrs.InputName)
	fanout("md5", attrs.MD5)
	fanout("sha1", attrs.SHA1)
	fanout("sha256", attrs.SHA256)
	for _, ctxTok := range attrs.Contexts {
		fanout("context", ctxTok)
	}

	// 4. Global indices.
	appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:inputname", attrs.InputName, 1))
	appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:ssdeep", digest, 1))
	appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:md5", attrs.MD5, 1))
	appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:sha1", attrs.SHA1, 1))
	appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:sha256", attrs.SHA256, 1))
	for _, ctxTok := range attrs.Contexts {
		appendErr(&errs, "global-index", ix.Store.ZIncrBy(ctx, "index:context", ctxTok, 1))
	}

	// 5. Timestamp.
	appendErr(&errs, "timestamp", ix.Store.Set(ctx, "timestamp", fmt.Sprintf("%d", nowMicros)))

	return errs
}

// Ingest runs PublishSiblings followed by Write: the full §4.5 steps 1-5
// for one record, for callers that don't need the candidate read ordered
// in between (most tests; Driver calls the two halves separately instead).
func (ix *Indexer) Ingest(ctx context.Context, digest string, windowKeys []string, attrs Attributes, candidates []Candidate, nowMicros int64) []error {
	errs := ix.PublishSiblings(ctx, digest, windowKeys)
	errs = append(errs, ix.Write(ctx, digest, attrs, candidates, nowMicros)...)
	return errs
}

// Now returns the current instant as microseconds since the Unix epoch,
// matching the reference tool's make_timestamp (SystemTime::now() as
// micros).
func Now() int64 {
	return time.Now().UnixMicro()
}
