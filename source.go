package upng

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Source is the byte-addressable provider the decoder reads chunks from: a
// random-access read, a size, and an idempotent release hook. Concrete
// adapters (memorySource, fileSource) satisfy it; callers may also supply
// their own.
type Source interface {
	// ReadAt copies len(dst) bytes starting at offset into dst. Any short
	// read (fewer bytes than requested) must be reported as an error.
	ReadAt(offset uint64, dst []byte) error
	// Size returns the total number of bytes available from the source.
	Size() uint64
	// Close releases the source. It must be safe to call more than once.
	Close() error
}

// memorySource adapts an in-memory byte slice to Source.
type memorySource struct {
	buf    []byte
	closed bool
}

// NewMemorySource wraps buf as a Source, without copying it. The caller must
// not mutate buf while the decoder is in use.
func NewMemorySource(buf []byte) Source {
	return &memorySource{buf: buf}
}

func (m *memorySource) ReadAt(offset uint64, dst []byte) error {
	if m.closed {
		return errors.New("upng: read from closed memory source")
	}
	if offset >= uint64(len(m.buf)) {
		if len(dst) == 0 {
			return nil
		}
		return io.ErrUnexpectedEOF
	}
	end := offset + uint64(len(dst))
	if end > uint64(len(m.buf)) {
		return io.ErrUnexpectedEOF
	}
	copy(dst, m.buf[offset:end])
	return nil
}

func (m *memorySource) Size() uint64 {
	return uint64(len(m.buf))
}

func (m *memorySource) Close() error {
	m.closed = true
	m.buf = nil
	return nil
}

// fileSource adapts an *os.File to Source.
type fileSource struct {
	f    *os.File
	size uint64
}

// NewFileSource wraps an already-open file as a Source. The decoder takes
// ownership and will close it on release.
func NewFileSource(f *os.File) (Source, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &fileSource{f: f, size: uint64(info.Size())}, nil
}

func (fs *fileSource) ReadAt(offset uint64, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	n, err := fs.f.ReadAt(dst, int64(offset))
	if n != len(dst) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return errors.WithStack(err)
	}
	return nil
}

func (fs *fileSource) Size() uint64 {
	return fs.size
}

func (fs *fileSource) Close() error {
	if fs.f == nil {
		return nil
	}
	err := fs.f.Close()
	fs.f = nil
	return err
}
