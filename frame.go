package upng

import "encoding/binary"

// DisposeOp is the APNG frame-disposal directive, as per the APNG spec.
type DisposeOp uint8

const (
	DisposeNone       DisposeOp = 0
	DisposeBackground DisposeOp = 1
	DisposePrevious   DisposeOp = 2

	lastDisposeOp = DisposePrevious
)

// BlendOp is the APNG frame-blend directive, as per the APNG spec.
type BlendOp uint8

const (
	BlendSource BlendOp = 0
	BlendOver   BlendOp = 1

	lastBlendOp = BlendOver
)

// FrameDescriptor carries everything needed to assemble and place one
// animation frame, or the single synthetic frame of a still image.
type FrameDescriptor struct {
	Width, Height   uint32
	OffsetX         uint32
	OffsetY         uint32
	DelayNum        uint16
	DelayDen        uint16
	Dispose         DisposeOp
	Blend           BlendOp
	DataChunkOffset uint64
	CompressedSize  uint64
}

const frameIndexNone = ^uint32(0)

// processChunks performs a single linear scan over the chunks following
// IHDR: it classifies chunks, enforces animation ordering, and accumulates
// the frame table plus palette/transparency/text side-tables. It assumes
// the IHDR chunk has already been consumed by ParseHeader and starts at
// byte 33.
func (d *Decoder) processChunks() error {
	var curFrame = frameIndexNone
	offset := uint64(33)

	for offset < d.src.Size() {
		if offset+12 > d.src.Size() {
			return d.setError(ErrMalformed)
		}
		var hdr [8]byte
		if err := d.src.ReadAt(offset, hdr[:]); err != nil {
			return d.setError(ErrRead)
		}
		length := decodeChunkLength(hdr[:])
		if length >= 1<<31 {
			return d.setError(ErrMalformed)
		}
		if offset+uint64(length)+12 > d.src.Size() {
			return d.setError(ErrMalformed)
		}
		typ := decodeChunkType(hdr[:])
		dataOffset := offset + chunkHeaderSize

		d.log.Debug().Str("chunk", typ).Uint32("length", length).Msg("dispatch chunk")

		if d.crcValidation {
			if err := d.verifyChunkCRC(chunkHeader{offset: offset, length: length, typ: typ}); err != nil {
				return err
			}
		}

		switch typ {
		case chunkIHDR:
			return d.setError(ErrMalformed)

		case chunkIDAT:
			if curFrame != frameIndexNone && curFrame != 0 {
				return d.setError(ErrMalformed)
			}
			if d.frames == nil {
				d.setupSingleImageFrame()
			}
			idx := curFrame
			if idx == frameIndexNone {
				idx = 0
			}
			f := &d.frames[idx]
			f.CompressedSize += uint64(length)
			if f.DataChunkOffset == 0 {
				f.DataChunkOffset = offset
			}

		case chunkFDAT:
			if d.frames == nil {
				return d.setError(ErrMalformed)
			}
			if curFrame == frameIndexNone || int(curFrame) >= len(d.frames) {
				return d.setError(ErrMalformed)
			}
			f := &d.frames[curFrame]
			f.CompressedSize += uint64(length)
			if f.DataChunkOffset == 0 {
				f.DataChunkOffset = offset
			}

		case chunkACTL:
			if d.frames != nil {
				return d.setError(ErrMalformed)
			}
			var data [8]byte
			if err := d.src.ReadAt(dataOffset, data[:]); err != nil {
				return d.setError(ErrRead)
			}
			frameCount := binary.BigEndian.Uint32(data[0:4])
			playCount := binary.BigEndian.Uint32(data[4:8])
			if frameCount == 0 {
				return d.setError(ErrMalformed)
			}
			d.frames = make([]FrameDescriptor, frameCount)
			d.playCount = playCount
			curFrame = frameIndexNone

		case chunkFCTL:
			if d.frames == nil {
				return d.setError(ErrUnsupported)
			}
			var data [26]byte
			if err := d.src.ReadAt(dataOffset, data[:]); err != nil {
				return d.setError(ErrRead)
			}
			statedIndex := binary.BigEndian.Uint32(data[0:4])
			var expected uint32
			if curFrame == frameIndexNone {
				expected = 0
			} else {
				expected = curFrame + 1
			}
			if statedIndex != expected {
				return d.setError(ErrMalformed)
			}
			if statedIndex >= uint32(len(d.frames)) {
				return d.setError(ErrMalformed)
			}
			curFrame = statedIndex

			f := &d.frames[curFrame]
			f.Width = binary.BigEndian.Uint32(data[4:8])
			f.Height = binary.BigEndian.Uint32(data[8:12])
			f.OffsetX = binary.BigEndian.Uint32(data[12:16])
			f.OffsetY = binary.BigEndian.Uint32(data[16:20])
			f.DelayNum = binary.BigEndian.Uint16(data[20:22])
			f.DelayDen = binary.BigEndian.Uint16(data[22:24])
			f.Dispose = DisposeOp(data[24])
			f.Blend = BlendOp(data[25])
			f.CompressedSize = 0

			if f.Width == 0 || f.Height == 0 {
				return d.setError(ErrMalformed)
			}
			if uint64(f.OffsetX)+uint64(f.Width) > uint64(d.width) {
				return d.setError(ErrMalformed)
			}
			if uint64(f.OffsetY)+uint64(f.Height) > uint64(d.height) {
				return d.setError(ErrMalformed)
			}
			if f.Dispose > lastDisposeOp {
				return d.setError(ErrUnsupported)
			}
			if f.Blend > lastBlendOp {
				return d.setError(ErrUnsupported)
			}

		case chunkOFFS:
			var data [8]byte
			if err := d.src.ReadAt(dataOffset, data[:]); err != nil {
				return d.setError(ErrRead)
			}
			d.xOffset = int32(binary.BigEndian.Uint32(data[0:4]))
			d.yOffset = int32(binary.BigEndian.Uint32(data[4:8]))

		case chunkPLTE:
			if length%3 != 0 {
				return d.setError(ErrMalformed)
			}
			buf := make([]byte, length)
			if err := d.src.ReadAt(dataOffset, buf); err != nil {
				return d.setError(ErrRead)
			}
			d.palette = buf
			d.paletteEntries = int(length / 3)

		case chunkTRNS:
			buf := make([]byte, length)
			if err := d.src.ReadAt(dataOffset, buf); err != nil {
				return d.setError(ErrRead)
			}
			d.alpha = buf
			d.alphaEntries = int(length)

		case chunkTEXT:
			if len(d.text) < maxTextEntries {
				buf := make([]byte, length)
				if err := d.src.ReadAt(dataOffset, buf); err != nil {
					return d.setError(ErrRead)
				}
				entry, err := newTextEntry(buf)
				if err != nil {
					return d.setError(ErrMalformed)
				}
				d.text = append(d.text, entry)
			}

		case chunkIEND:
			offset = d.src.Size()
			continue

		default:
			if isCriticalType(typ) {
				d.log.Warn().Str("chunk", typ).Msg("unknown critical chunk")
				return d.setError(ErrUnsupported)
			}
			d.log.Debug().Str("chunk", typ).Msg("skip ancillary chunk")
		}

		offset += uint64(length) + 12
	}

	return nil
}

const maxTextEntries = 10

// setupSingleImageFrame synthesizes the single frame descriptor for a
// still (non-animated) image, created on first IDAT when no acTL has
// established a frame table.
func (d *Decoder) setupSingleImageFrame() {
	d.frames = []FrameDescriptor{{
		Width:   d.width,
		Height:  d.height,
		Dispose: DisposeNone,
		Blend:   BlendSource,
	}}
}

// assembleFrame re-walks the data chunks contributing to frames[idx],
// starting at its recorded DataChunkOffset, and concatenates their payloads
// into a single compressed blob.
func (d *Decoder) assembleFrame(idx int) ([]byte, error) {
	frame := d.frames[idx]
	out := make([]byte, 0, frame.CompressedSize)
	var fdatSeq uint32

	offset := frame.DataChunkOffset
	for offset < d.src.Size() {
		var hdr [8]byte
		if err := d.src.ReadAt(offset, hdr[:]); err != nil {
			return nil, d.setError(ErrRead)
		}
		length := decodeChunkLength(hdr[:])
		typ := decodeChunkType(hdr[:])
		dataOffset := offset + chunkHeaderSize

		switch typ {
		case chunkIDAT:
			start := len(out)
			out = append(out, make([]byte, length)...)
			if err := d.src.ReadAt(dataOffset, out[start:]); err != nil {
				return nil, d.setError(ErrRead)
			}

		case chunkFDAT:
			var seqBuf [4]byte
			if err := d.src.ReadAt(dataOffset, seqBuf[:]); err != nil {
				return nil, d.setError(ErrRead)
			}
			seq := binary.BigEndian.Uint32(seqBuf[:])
			if seq != fdatSeq {
				return nil, d.setError(ErrMalformed)
			}
			fdatSeq++

			payloadLen := length - 4
			start := len(out)
			out = append(out, make([]byte, payloadLen)...)
			if err := d.src.ReadAt(dataOffset+4, out[start:]); err != nil {
				return nil, d.setError(ErrRead)
			}

		case chunkIEND, chunkFCTL:
			return out, nil

		}

		offset += uint64(length) + 12
	}

	return out, nil
}
