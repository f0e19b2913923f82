package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avuko/kathe-cli/internal/sanitize"
	"github.com/avuko/kathe-cli/internal/store/memstore"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	state     State
	kind      string
	inputName string
	digest    string
}

type collectingLogger struct {
	events []recordedEvent
}

func (l *collectingLogger) Record(state State, kind string, inputName, digest string, _ error) {
	l.events = append(l.events, recordedEvent{state, kind, inputName, digest})
}

func tsvLine(inputName, md5, sha1, sha256, ssdeep, context string) string {
	return fmt.Sprintf("%q\t%q\t%q\t%q\t%q\t%q\n", inputName, md5, sha1, sha256, ssdeep, context)
}

func TestDriverRunIndexesRecordsInOrder(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	logger := &collectingLogger{}
	d := NewDriver(s, logger)

	input := tsvLine("a.txt", "m1", "s11", "h1", "6:ABCDEFGX:MMMMMMM", "A,B") +
		tsvLine("b.txt", "m2", "s21", "h2", "6:ABCDEFGY:NNNNNNN", "A")

	require.NoError(t, d.Run(ctx, strings.NewReader(input)))

	idx, ok := s.ZScore("index:ssdeep", "6:ABCDEFGX:MMMMMMM")
	require.True(t, ok)
	require.Equal(t, float64(1), idx)

	// Second record's digest shares a window with the first, so an edge
	// should exist between them.
	score, ok := s.ZScore("6:ABCDEFGX:MMMMMMM", "6:ABCDEFGY:NNNNNNN")
	require.True(t, ok)
	require.Greater(t, score, float64(0))

	require.Contains(t, logger.events, recordedEvent{StateAcknowledged, "", "a.txt", "6:ABCDEFGX:MMMMMMM"})
	require.Contains(t, logger.events, recordedEvent{StateAcknowledged, "", "b.txt", "6:ABCDEFGY:NNNNNNN"})
}

func TestDriverSkipsMalformedDigestAndContinues(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	logger := &collectingLogger{}
	d := NewDriver(s, logger)

	input := tsvLine("bad.txt", "m", "s1", "h", "not-a-digest", "") +
		tsvLine("good.txt", "m2", "s21", "h2", "6:ABCDEFG:HIJKLMN", "")

	require.NoError(t, d.Run(ctx, strings.NewReader(input)))

	idx, ok := s.ZScore("index:ssdeep", "6:ABCDEFG:HIJKLMN")
	require.True(t, ok)
	require.Equal(t, float64(1), idx)

	require.Contains(t, logger.events, recordedEvent{StateReported, "malformed-digest", "bad.txt", "not-a-digest"})
	require.Contains(t, logger.events, recordedEvent{StateAcknowledged, "", "good.txt", "6:ABCDEFG:HIJKLMN"})
}

func TestDriverRunReingestIsIdempotentForSiblingSets(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := NewDriver(s, nil)

	input := tsvLine("a.txt", "m", "s1", "h", "6:ABCDEFG:HIJKLMN", "ctx")
	require.NoError(t, d.Run(ctx, strings.NewReader(input)))
	require.NoError(t, d.Run(ctx, strings.NewReader(input)))

	count, ok := s.ZScore("index:ssdeep", "6:ABCDEFG:HIJKLMN")
	require.True(t, ok)
	require.Equal(t, float64(2), count)
}

func TestHashAndEmitRejectsNonRegularFile(t *testing.T) {
	dir := t.TempDir()
	var buf strings.Builder
	err := HashAndEmit(&buf, dir, []string{"ctx"})
	require.ErrorIs(t, err, ErrNotRegularFile)
}

func TestHashAndEmitWritesTSVRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world, this is sample content for hashing"), 0o644))

	var buf strings.Builder
	contexts := sanitize.Contexts("ctxA,ctxB")
	require.NoError(t, HashAndEmit(&buf, path, contexts))

	out := buf.String()
	require.Contains(t, out, "\"sample.txt\"")
	require.Contains(t, out, "\"ctxA,ctxB\"")
	require.True(t, strings.HasSuffix(out, "\n"))
}
