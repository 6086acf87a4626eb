package upng

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// pngBuilder assembles a byte-valid PNG/APNG stream for tests: the
// signature plus a caller-supplied sequence of chunks, one per call to
// chunk. Every chunk gets a correct trailing CRC-32 so CRC-validation
// tests exercise the real check, not a skipped one.
type pngBuilder struct {
	buf bytes.Buffer
}

func newPNGBuilder() *pngBuilder {
	b := &pngBuilder{}
	b.buf.Write(pngSignature[:])
	return b
}

func (b *pngBuilder) chunk(typ string, data []byte) *pngBuilder {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	b.buf.Write(lenBuf[:])
	b.buf.WriteString(typ)
	b.buf.Write(data)

	h := crc32.NewIEEE()
	h.Write([]byte(typ))
	h.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], h.Sum32())
	b.buf.Write(crcBuf[:])
	return b
}

func (b *pngBuilder) bytes() []byte { return b.buf.Bytes() }

func ihdrData(width, height uint32, depth uint8, colorType ColorType, interlace byte) []byte {
	var d [13]byte
	binary.BigEndian.PutUint32(d[0:4], width)
	binary.BigEndian.PutUint32(d[4:8], height)
	d[8] = depth
	d[9] = byte(colorType)
	d[10] = 0 // compression method
	d[11] = 0 // filter method
	d[12] = interlace
	return d[:]
}

// zlibCompress wraps raw bytes the way a PNG encoder's IDAT payload would,
// so Inflater round-trips it back out in Decode.
func zlibCompress(raw []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(raw)
	w.Close()
	return buf.Bytes()
}

// filterNoneScanlines prepends a filter-type-0 byte to each row of width
// bytewidth*width-in-bytes, producing the raw (pre-deflate) IDAT stream for
// an unfiltered image.
func filterNoneScanlines(rows [][]byte) []byte {
	var out bytes.Buffer
	for _, row := range rows {
		out.WriteByte(filterNone)
		out.Write(row)
	}
	return out.Bytes()
}

func acTLData(frameCount, playCount uint32) []byte {
	var d [8]byte
	binary.BigEndian.PutUint32(d[0:4], frameCount)
	binary.BigEndian.PutUint32(d[4:8], playCount)
	return d[:]
}

func fcTLData(seq, width, height, offsetX, offsetY uint32, delayNum, delayDen uint16, dispose DisposeOp, blend BlendOp) []byte {
	var d [26]byte
	binary.BigEndian.PutUint32(d[0:4], seq)
	binary.BigEndian.PutUint32(d[4:8], width)
	binary.BigEndian.PutUint32(d[8:12], height)
	binary.BigEndian.PutUint32(d[12:16], offsetX)
	binary.BigEndian.PutUint32(d[16:20], offsetY)
	binary.BigEndian.PutUint16(d[20:22], delayNum)
	binary.BigEndian.PutUint16(d[22:24], delayDen)
	d[24] = byte(dispose)
	d[25] = byte(blend)
	return d[:]
}

func fdATData(seq uint32, payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out[0:4], seq)
	copy(out[4:], payload)
	return out
}
