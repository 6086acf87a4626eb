package upng

import (
	"encoding/binary"
	"io"

	"github.com/rs/zerolog"
)

// state is the decoder's lifecycle stage: it advances monotonically
// NEW -> HEADER_PARSED -> DECODED, with ERROR as an absorbing sink.
type state int

const (
	stateNew state = iota
	stateHeaderParsed
	stateDecoded
	stateError
)

var pngSignature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// Decoder is the long-lived object carrying all state for one source: its
// dimensions, palette, transparency, frame table, text table, the most
// recently decoded pixel buffer, and the sticky error/line diagnostic.
type Decoder struct {
	src Source
	log zerolog.Logger

	inflater      Inflater
	crcValidation bool

	state state
	err   stickyError

	width, height uint32
	xOffset       int32
	yOffset       int32

	colorType ColorType
	depth     uint8
	format    PixelFormat

	palette        []byte
	paletteEntries int
	alpha          []byte
	alphaEntries   int

	frames       []FrameDescriptor
	playCount    uint32
	currentFrame int

	text []TextEntry

	buffer []byte
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger sets the zerolog.Logger the decoder uses for chunk-dispatch
// and skipped-chunk diagnostics. Defaults to a disabled logger, so library
// consumers see no output unless they opt in.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// WithInflater overrides the default Inflater (klauspost/compress's zlib
// reader).
func WithInflater(inf Inflater) Option {
	return func(d *Decoder) { d.inflater = inf }
}

// WithCRCValidation enables per-chunk CRC-32 verification, using
// github.com/snksoft/crc. Off by default: the core does not validate CRC
// values unless a caller opts in.
func WithCRCValidation(enabled bool) Option {
	return func(d *Decoder) { d.crcValidation = enabled }
}

// NewDecoder constructs a Decoder over src. The decoder takes ownership of
// src and will release it (via src.Close) at the end of a successful
// Decode, or on explicit Decoder.Close.
func NewDecoder(src Source, opts ...Option) *Decoder {
	d := &Decoder{
		src:          src,
		log:          zerolog.Nop(),
		inflater:     DefaultInflater(),
		state:        stateNew,
		currentFrame: 0,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ParseHeader validates the PNG signature and IHDR chunk, derives the
// image's dimensions and pixel format, and scans the remaining chunks to
// build the frame table and side-tables. It is idempotent after success:
// calling it again once HEADER_PARSED or DECODED is a no-op that returns
// the prior result.
func (d *Decoder) ParseHeader() error {
	if err := d.stickyErr(); err != nil {
		return err
	}
	if d.state != stateNew {
		return nil
	}

	if d.src.Size() < 29 {
		return d.setError(ErrNotPNG)
	}
	var header [29]byte
	if err := d.src.ReadAt(0, header[:]); err != nil {
		return d.setError(ErrRead)
	}
	if !bytesEqual(header[:8], pngSignature[:]) {
		return d.setError(ErrNotPNG)
	}
	if string(header[12:16]) != chunkIHDR {
		return d.setError(ErrMalformed)
	}

	d.width = binary.BigEndian.Uint32(header[16:20])
	d.height = binary.BigEndian.Uint32(header[20:24])
	d.depth = header[24]
	d.colorType = ColorType(header[25])

	if d.width == 0 || d.height == 0 {
		return d.setError(ErrMalformed)
	}

	d.format = determineFormat(d.colorType, d.depth)
	if d.format == FormatBadFormat {
		return d.setError(ErrUnformat)
	}

	if header[26] != 0 { // compression method
		return d.setError(ErrMalformed)
	}
	if header[27] != 0 { // filter method
		return d.setError(ErrMalformed)
	}
	if header[28] != 0 { // interlace method
		return d.setError(ErrNotInterlaced)
	}

	if err := d.processChunks(); err != nil {
		return err
	}

	d.state = stateHeaderParsed
	return nil
}

// bytesEqual avoids importing bytes just for this one comparison of fixed
// 8-byte arrays in ParseHeader.
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SelectFrame chooses which frame a subsequent Decode call will produce.
// Valid after ParseHeader; out-of-range indices are rejected immediately.
func (d *Decoder) SelectFrame(idx int) error {
	if err := d.stickyErr(); err != nil {
		return err
	}
	if idx < 0 || idx >= len(d.frames) {
		return d.setError(ErrMalformed)
	}
	d.currentFrame = idx
	return nil
}

// FrameCount returns the number of frames in the frame table (1 for a
// still image).
func (d *Decoder) FrameCount() int { return len(d.frames) }

// Frame returns the descriptor for frame i.
func (d *Decoder) Frame(i int) FrameDescriptor { return d.frames[i] }

// Decode assembles the compressed payload for the currently selected
// frame, inflates it, and reverses the PNG filter in place, exposing the
// result via Buffer(). On success the source is released. On any failure
// the decoder transitions to the ERROR state and releases any buffers.
func (d *Decoder) Decode() error {
	if err := d.ParseHeader(); err != nil {
		return err
	}
	if d.state != stateHeaderParsed && d.state != stateDecoded {
		return d.stickyErr()
	}

	frame := d.frames[d.currentFrame]
	d.log.Debug().Int("frame", d.currentFrame).Uint64("compressed_size", frame.CompressedSize).Msg("assembling frame")

	compressed, err := d.assembleFrame(d.currentFrame)
	if err != nil {
		d.releaseBuffer()
		return err
	}

	bpp := d.BitsPerPixel()
	if bpp == 0 {
		d.releaseBuffer()
		return d.setError(ErrMalformed)
	}
	strideBits := uint64(frame.Width) * uint64(bpp)
	stride := int((strideBits + 7) / 8)
	inflatedSize := (stride + 1) * int(frame.Height)

	// inflated is reused in place as the decoded buffer: postProcessScanlines
	// writes reconstructed rows back into its own leading region, since each
	// output row is always read from (and never ahead of) its own input row.
	inflated := make([]byte, inflatedSize)
	if err := d.inflater.Inflate(inflated, compressed); err != nil {
		d.releaseBuffer()
		return d.setError(ErrRead)
	}

	if err := postProcessScanlines(inflated, bpp, frame); err != nil {
		d.releaseBuffer()
		return d.setError(ErrMalformed)
	}

	d.buffer = inflated[:stride*int(frame.Height)]
	d.state = stateDecoded
	_ = d.src.Close()
	return nil
}

func (d *Decoder) releaseBuffer() {
	d.buffer = nil
}

// Close releases the decoder's source, if it has not already been released
// by a successful Decode. It does not free the pixel buffer: ownership of
// that buffer is considered transferred to the caller. Use TakeBuffer to
// retrieve and clear it explicitly.
func (d *Decoder) Close() error {
	return d.src.Close()
}

// TakeBuffer returns the decoded pixel buffer and clears the decoder's
// reference to it, transferring ownership to the caller.
func (d *Decoder) TakeBuffer() []byte {
	b := d.buffer
	d.buffer = nil
	return b
}

// Buffer returns the most recently decoded pixel buffer without
// transferring ownership.
func (d *Decoder) Buffer() []byte { return d.buffer }

// Width returns the image's canvas width.
func (d *Decoder) Width() uint32 { return d.width }

// Height returns the image's canvas height.
func (d *Decoder) Height() uint32 { return d.height }

// XOffset returns the signed canvas x-offset from oFFs, or 0 if absent.
func (d *Decoder) XOffset() int32 { return d.xOffset }

// YOffset returns the signed canvas y-offset from oFFs, or 0 if absent.
func (d *Decoder) YOffset() int32 { return d.yOffset }

// Palette returns the raw RGB-triple palette bytes and entry count.
func (d *Decoder) Palette() ([]byte, int) { return d.palette, d.paletteEntries }

// Alpha returns the raw per-entry transparency bytes and entry count.
func (d *Decoder) Alpha() ([]byte, int) { return d.alpha, d.alphaEntries }

// BitDepth returns the sample bit depth from IHDR.
func (d *Decoder) BitDepth() uint8 { return d.depth }

// Components returns the channel count implied by the color type: 1/1/3/2/4
// for indexed/luminance/RGB/luminance+alpha/RGBA, 0 if unrecognized.
func (d *Decoder) Components() int { return componentsForColorType(d.colorType) }

// BitsPerPixel returns bit depth times component count.
func (d *Decoder) BitsPerPixel() int { return int(d.depth) * d.Components() }

// Format returns the derived pixel format tag.
func (d *Decoder) Format() PixelFormat { return d.format }

// TextCount returns the number of retained text entries (at most
// maxTextEntries).
func (d *Decoder) TextCount() int { return len(d.text) }

// TextEntryAt returns the text entry at index i.
func (d *Decoder) TextEntryAt(i int) TextEntry { return d.text[i] }

// Error returns the sticky error kind, ErrOK if none has been latched.
func (d *Decoder) Error() ErrorKind { return d.err.kind }

// ErrorLine returns the call-site line at which the sticky error was
// raised, or 0 if none.
func (d *Decoder) ErrorLine() int { return d.err.line }

// PlayCount returns the APNG loop count from acTL (0 means infinite), or 0
// for a still image.
func (d *Decoder) PlayCount() uint32 { return d.playCount }

var _ io.Closer = (*Decoder)(nil)
