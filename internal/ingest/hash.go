package ingest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/avuko/kathe-cli/internal/record"
	"github.com/avuko/kathe-cli/internal/sanitize"
	"github.com/avuko/kathe-cli/ssdeep"
)

// HashAndEmit is the external-collaborator half of the Ingest Driver
// (spec.md §4.6): it reads a file, computes its four primitive hashes and
// its ssdeep, and writes one TSV record to w. contexts is the
// already-sanitized context token list (built from the CLI's --context
// flag via sanitize.Contexts).
//
// Returns ErrNotRegularFile if path does not name a regular file (spec.md
// §7 file-missing), so the caller can exit 1 as the CLI surface requires.
func HashAndEmit(w io.Writer, path string, contexts []string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	md5Hex, err := hashFile(path, md5.New())
	if err != nil {
		return err
	}
	sha1Hex, err := hashFile(path, sha1.New())
	if err != nil {
		return err
	}
	sha256Hex, err := hashFile(path, sha256.New())
	if err != nil {
		return err
	}
	ssdeepHash, err := ssdeep.File(path)
	if err != nil {
		return err
	}

	rec := record.Record{
		InputName: sanitize.String(filepath.Base(path)),
		MD5:       md5Hex,
		SHA1:      sha1Hex,
		SHA256:    sha256Hex,
		SSDeep:    ssdeepHash,
		Context:   strings.Join(contexts, ","),
	}
	return record.NewWriter(w).Write(rec)
}

type hasher interface {
	io.Writer
	Sum([]byte) []byte
}

func hashFile(path string, h hasher) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
