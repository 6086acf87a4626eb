package upng

import (
	"bytes"
	"compress/zlib"
	stdio "io"

	kzlib "github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Inflater is the opaque decompression service the core drives. It must
// fill dst with exactly the expected filtered-stream size decompressed from
// src, or return an error.
type Inflater interface {
	Inflate(dst []byte, src []byte) error
}

// klauspostInflater is the default Inflater, backed by
// github.com/klauspost/compress/zlib. The corpus reaches for klauspost's
// implementation wherever a zlib/DEFLATE family codec is needed in a
// performance-sensitive path, so that is the default here rather than the
// standard library's compress/zlib.
type klauspostInflater struct{}

func (klauspostInflater) Inflate(dst []byte, src []byte) error {
	r, err := kzlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	n, err := stdio.ReadFull(r, dst)
	if err != nil && !(err == stdio.ErrUnexpectedEOF && n == len(dst)) {
		if err == stdio.EOF && n == len(dst) {
			return nil
		}
		return errors.WithStack(err)
	}
	return nil
}

// stdlibInflater wraps the standard library's compress/zlib. It exists as a
// fallback/comparison implementation, matching what a minimal PNG reader
// wires when no third-party zlib implementation is available.
type stdlibInflater struct{}

func (stdlibInflater) Inflate(dst []byte, src []byte) error {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	n, err := stdio.ReadFull(r, dst)
	if err != nil && !(err == stdio.ErrUnexpectedEOF && n == len(dst)) {
		if err == stdio.EOF && n == len(dst) {
			return nil
		}
		return errors.WithStack(err)
	}
	return nil
}

// DefaultInflater returns the Inflater used when a Decoder is constructed
// without WithInflater.
func DefaultInflater() Inflater { return klauspostInflater{} }

// StdlibInflater returns an Inflater backed by the standard library's
// compress/zlib, for callers that want to avoid the extra dependency.
func StdlibInflater() Inflater { return stdlibInflater{} }
