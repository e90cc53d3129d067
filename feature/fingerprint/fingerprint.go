package fingerprint

import (
	"crypto/md5" // #nosec G501 -- catalogs are keyed by MD5; used for identification only
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dat-matcher/core/reconcile"
)

// bufSize is the read chunk size. It has no effect on the resulting digest.
const bufSize = 64 << 10

// headerSkips maps lower-case extensions to the number of leading bytes that are not
// part of the catalogued content.
var headerSkips = map[string]int64{
	".nes": 16, // iNES header
}

// HeaderSkip returns the header size to exclude for a file named name.
func HeaderSkip(name string) int64 {
	return headerSkips[strings.ToLower(filepath.Ext(name))]
}

// Hasher computes MD5 fingerprints. The zero value is ready to use.
type Hasher struct {
	// OnProgress, if set, is called with the number of bytes consumed after each
	// chunk (including skipped header bytes).
	OnProgress func(n int64)
}

// New returns a Hasher without a progress callback.
func New() *Hasher {
	return &Hasher{}
}

// HeaderSkip implements reconcile.Fingerprinter.
func (h *Hasher) HeaderSkip(name string) int64 {
	return HeaderSkip(name)
}

// Fingerprint returns the lowercase hex MD5 of the file at path, excluding its first
// skip bytes. A file shorter than skip hashes as empty.
func (h *Hasher) Fingerprint(path string, skip int64) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", reconcile.Wrap(reconcile.ErrIO, "open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if skip > 0 {
		n, err := io.CopyN(io.Discard, f, skip)
		h.progress(n)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", reconcile.Wrap(reconcile.ErrIO, "skip header", path, err)
		}
	}

	sum := md5.New() // #nosec G401
	buf := make([]byte, bufSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			_, _ = sum.Write(buf[:n])
			h.progress(int64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", reconcile.Wrap(reconcile.ErrIO, "read", path, rerr)
		}
	}

	return hex.EncodeToString(sum.Sum(nil)), nil
}

func (h *Hasher) progress(n int64) {
	if n > 0 && h.OnProgress != nil {
		h.OnProgress(n)
	}
}
