package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer stores raw provider payloads verbatim, keyed by city and capture
// time. Objects are write-once; nothing in the system reads them back.
type Writer interface {
	Put(city string, capturedAt time.Time, body []byte) error
}

// FSWriter writes archive objects under a base directory, one file per
// capture: <base>/<city>/<timestamp>.json.
type FSWriter struct {
	baseDir string
}

// NewFSWriter creates an FSWriter rooted at baseDir.
func NewFSWriter(baseDir string) *FSWriter {
	return &FSWriter{baseDir: baseDir}
}

// Put writes one raw payload. An existing object for the same key is left
// untouched.
func (w *FSWriter) Put(city string, capturedAt time.Time, body []byte) error {
	dir := filepath.Join(w.baseDir, sanitize(city))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	path := filepath.Join(dir, capturedAt.UTC().Format("20060102_150405")+".json")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create archive object: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write archive object: %w", err)
	}
	return nil
}

// sanitize keeps city names path-safe without losing the key's readability.
func sanitize(city string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, city)
}
