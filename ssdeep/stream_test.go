package ssdeep

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStreamViaFile exercises the only path the rest of this module actually
// takes: File opens an *os.File and hands it to Stream, which reads its
// size through the statReader branch.
func TestStreamViaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	data := []byte("The quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	hash, err := Stream(f)
	require.NoError(t, err)

	want, err := Bytes(data)
	require.NoError(t, err)
	require.Equal(t, want, hash)
}

func TestStreamViaSeekableReader(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog, twice over")

	hash, err := Stream(bytes.NewReader(data))
	require.NoError(t, err)

	want, err := Bytes(data)
	require.NoError(t, err)
	require.Equal(t, want, hash)
}

func TestStreamViaNonSeekableReader(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog, piped in")

	// io.NopCloser hides the Seek method strings.Reader would otherwise
	// expose, forcing Stream onto its buffer-then-hash fallback.
	hash, err := Stream(io.NopCloser(strings.NewReader(string(data))))
	require.NoError(t, err)

	want, err := Bytes(data)
	require.NoError(t, err)
	require.Equal(t, want, hash)
}

func BenchmarkStream(b *testing.B) {
	data := make([]byte, 64*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Stream(bytes.NewReader(data))
	}
}
