package ssdeep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesProducesNonEmptyDigest(t *testing.T) {
	hash, err := Bytes([]byte("The quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)
	require.NotEmpty(t, hash)
}

func TestFileMatchesBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	data := []byte("The quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	fromFile, err := File(path)
	require.NoError(t, err)

	fromBytes, err := Bytes(data)
	require.NoError(t, err)

	require.Equal(t, fromBytes, fromFile)
}

func TestFileRejectsMissingPath(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestCompareIdenticalDigestsScoreHundred(t *testing.T) {
	hash, err := Bytes([]byte("The quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)

	score, err := Compare(hash, hash)
	require.NoError(t, err)
	require.Equal(t, 100, score)
}

func TestCompareSimilarStringsScoreHigh(t *testing.T) {
	h1, err := Bytes([]byte("The quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)
	h2, err := Bytes([]byte("The quick brown fox jumps over the lazy dog!"))
	require.NoError(t, err)

	score, err := Compare(h1, h2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, score, 50)
}

func TestCompareUnrelatedStringsScoreLow(t *testing.T) {
	h1, err := Bytes([]byte("The quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)
	h2, err := Bytes([]byte("A completely different string that should have no similarity"))
	require.NoError(t, err)

	score, err := Compare(h1, h2)
	require.NoError(t, err)
	require.LessOrEqual(t, score, 40)
}

func TestCompareEmptyInputsMatch(t *testing.T) {
	h1, err := Bytes(nil)
	require.NoError(t, err)
	h2, err := Bytes([]byte{})
	require.NoError(t, err)

	score, err := Compare(h1, h2)
	require.NoError(t, err)
	require.Equal(t, 100, score)
}

func TestCompareLargeSimilarBuffersScoreHigh(t *testing.T) {
	data1 := make([]byte, 10000)
	for i := range data1 {
		data1[i] = byte(i % 256)
	}
	data2 := make([]byte, len(data1))
	copy(data2, data1)
	data2[5000] ^= 0xFF

	h1, err := Bytes(data1)
	require.NoError(t, err)
	h2, err := Bytes(data2)
	require.NoError(t, err)

	score, err := Compare(h1, h2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, score, 90)
}

func TestCompareRejectsMalformedDigest(t *testing.T) {
	_, err := Compare("not-a-digest", "3:AAA:BBB")
	require.Error(t, err)
}

func TestCompareBlockSizeMismatchScoresZero(t *testing.T) {
	score, err := Compare("3:FJKKIUKact:FHIGi", "12:FJKKIUKact:FHIGi")
	require.NoError(t, err)
	require.Equal(t, 0, score)
}

func TestCompareAcrossBlockSizeRatio(t *testing.T) {
	score, err := Compare("12:hAnzB9Wp8+3vE+vP:hAnzhWp8jvE+vP", "24:hAnzhWp8jvE+vP:hAnzhWp8jvE+vP")
	require.NoError(t, err)
	require.Equal(t, 100, score)
}

func BenchmarkBytes64K(b *testing.B) {
	data := make([]byte, 64*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Bytes(data)
	}
}

func BenchmarkCompare(b *testing.B) {
	data1 := make([]byte, 10000)
	for i := range data1 {
		data1[i] = byte(i % 256)
	}
	data2 := make([]byte, len(data1))
	copy(data2, data1)
	data2[5000] ^= 0xFF

	h1, _ := Bytes(data1)
	h2, _ := Bytes(data2)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compare(h1, h2)
	}
}
