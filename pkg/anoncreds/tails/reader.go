package tails

import (
	"io"
	"os"

	"anoncreds/pkg/anoncreds/apperr"
)

// Reader is a random-access reader over a tails file. It satisfies
// clprimitive.TailsReader. Readers use pread-style access (os.File.ReadAt)
// rather than keeping the whole file resident.
type Reader struct {
	file *os.File
}

// NewReader opens path for random-access reads.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.IOError, err, "opening tails file %q", path)
	}
	return &Reader{file: f}, nil
}

// ReadAt reads length bytes starting at offset.
func (r *Reader) ReadAt(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := r.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, apperr.Wrap(apperr.IOError, err, "reading tails file at offset %d", offset)
	}
	return buf[:n], nil
}

// Close releases the underlying file descriptor.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return apperr.Wrap(apperr.IOError, err, "closing tails file")
	}
	return nil
}
