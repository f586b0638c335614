package tails

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"anoncreds/pkg/anoncreds/apperr"
)

// Writer is an append-only tails file writer. The file format itself is
// the CL primitive's opaque layout; Writer only ever treats contents as
// bytes.
type Writer struct {
	dir  string
	file *os.File
	path string
}

// NewWriter opens a fresh tails file inside dir, named with a random
// collision-resistant suffix.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.IOError, err, "creating tails directory %q", dir)
	}
	path := filepath.Join(dir, uuid.NewString()+".tails")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, apperr.Wrap(apperr.IOError, err, "creating tails file %q", path)
	}
	return &Writer{dir: dir, file: f, path: path}, nil
}

// Append writes p to the tails file.
func (w *Writer) Append(p []byte) error {
	if _, err := w.file.Write(p); err != nil {
		return apperr.Wrap(apperr.IOError, err, "writing tails file %q", w.path)
	}
	return nil
}

// Finalize fsyncs and closes the file, returning its absolute location and
// content hash. The writer must not be used afterward.
func (w *Writer) Finalize() (location string, hash string, err error) {
	if err := w.file.Sync(); err != nil {
		return "", "", apperr.Wrap(apperr.IOError, err, "syncing tails file %q", w.path)
	}
	contents, err := os.ReadFile(w.path)
	if err != nil {
		return "", "", apperr.Wrap(apperr.IOError, err, "rereading tails file %q", w.path)
	}
	if err := w.file.Close(); err != nil {
		return "", "", apperr.Wrap(apperr.IOError, err, "closing tails file %q", w.path)
	}
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return "", "", apperr.Wrap(apperr.IOError, err, "resolving tails file path %q", w.path)
	}
	h, err := hashContents(contents)
	if err != nil {
		return "", "", apperr.Wrap(apperr.Unexpected, err, "hashing tails file contents")
	}
	return abs, h, nil
}
