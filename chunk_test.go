package upng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCriticalType(t *testing.T) {
	require.True(t, isCriticalType(chunkIHDR))
	require.True(t, isCriticalType(chunkIDAT))
	require.False(t, isCriticalType(chunkTEXT))
	require.False(t, isCriticalType("tRNS"))
}

func TestChunkHeaderOffsets(t *testing.T) {
	h := chunkHeader{offset: 100, length: 20, typ: chunkIDAT}
	require.Equal(t, uint64(108), h.dataOffset())
	require.Equal(t, uint64(132), h.nextOffset())
}

func TestDecodeChunkLengthAndType(t *testing.T) {
	hdr := []byte{0, 0, 0, 42, 'I', 'D', 'A', 'T'}
	require.Equal(t, uint32(42), decodeChunkLength(hdr))
	require.Equal(t, chunkIDAT, decodeChunkType(hdr))
}

func TestFdATSequenceMismatchRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorLuminance, 0))
	builder.chunk(chunkACTL, acTLData(2, 0))
	builder.chunk(chunkFCTL, fcTLData(0, 1, 1, 0, 0, 1, 10, DisposeNone, BlendSource))
	builder.chunk(chunkIDAT, zlibCompress(filterNoneScanlines([][]byte{{1}})))
	builder.chunk(chunkFCTL, fcTLData(1, 1, 1, 0, 0, 1, 10, DisposeNone, BlendSource))
	// fdAT carries sequence 5, but the assembler expects to see 0 first.
	builder.chunk(chunkFDAT, fdATData(5, zlibCompress(filterNoneScanlines([][]byte{{2}}))))
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	require.NoError(t, d.ParseHeader())
	require.NoError(t, d.SelectFrame(1))
	err := d.Decode()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}

func TestFcTLOutOfOrderSequenceRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorLuminance, 0))
	builder.chunk(chunkACTL, acTLData(2, 0))
	// First fcTL must be sequence 0; this one claims 1.
	builder.chunk(chunkFCTL, fcTLData(1, 1, 1, 0, 0, 1, 10, DisposeNone, BlendSource))
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	err := d.ParseHeader()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}

func TestFcTLGeometryOutOfBoundsRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(2, 2, 8, ColorLuminance, 0))
	builder.chunk(chunkACTL, acTLData(1, 0))
	// frame offset+size exceeds the 2x2 canvas.
	builder.chunk(chunkFCTL, fcTLData(0, 2, 2, 1, 1, 1, 10, DisposeNone, BlendSource))
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	err := d.ParseHeader()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}

func TestPLTEBadLengthRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorIndexed, 0))
	builder.chunk(chunkPLTE, []byte{1, 2}) // not a multiple of 3
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	err := d.ParseHeader()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}

func TestOFFsChunkSignedOffsets(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorRGBA, 0))
	var data [8]byte
	// -1 as a big-endian 32-bit two's complement value.
	data[0], data[1], data[2], data[3] = 0xFF, 0xFF, 0xFF, 0xFF
	data[4], data[5], data[6], data[7] = 0, 0, 0, 5
	builder.chunk(chunkOFFS, data[:])
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	require.NoError(t, d.ParseHeader())
	require.Equal(t, int32(-1), d.XOffset())
	require.Equal(t, int32(5), d.YOffset())
}

func TestTextChunkCapAtMaxEntries(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorRGBA, 0))
	for i := 0; i < maxTextEntries+3; i++ {
		builder.chunk(chunkTEXT, []byte("k\x00v"))
	}
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	require.NoError(t, d.ParseHeader())
	require.Equal(t, maxTextEntries, d.TextCount())
}

func TestTextChunkMissingSeparatorRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorRGBA, 0))
	builder.chunk(chunkTEXT, []byte("no-separator-here"))
	builder.chunk(chunkIEND, nil)

	d := NewDecoder(NewMemorySource(builder.bytes()))
	err := d.ParseHeader()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}

func TestChunkLengthOverflowRejected(t *testing.T) {
	builder := newPNGBuilder()
	builder.chunk(chunkIHDR, ihdrData(1, 1, 8, ColorRGBA, 0))
	// Fabricate an IDAT header claiming a length at the 2^31 rejection
	// threshold, far larger than the remaining source.
	builder.buf.Write([]byte{0x80, 0x00, 0x00, 0x00})
	builder.buf.WriteString(chunkIDAT)
	builder.buf.Write([]byte{0, 0, 0, 0})

	d := NewDecoder(NewMemorySource(builder.bytes()))
	err := d.ParseHeader()
	require.Error(t, err)
	require.Equal(t, ErrMalformed, d.Error())
}
