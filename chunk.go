package upng

import "encoding/binary"

// chunkHeaderSize is the fixed prefix of every chunk: 4-byte length plus
// 4-byte type. The trailing 4-byte CRC is read separately, only when CRC
// validation is enabled.
const chunkHeaderSize = 8

// Chunk type codes recognized by the scanner, as 4-byte ASCII per the PNG
// and APNG specs.
const (
	chunkIHDR = "IHDR"
	chunkIDAT = "IDAT"
	chunkPLTE = "PLTE"
	chunkTRNS = "tRNS"
	chunkTEXT = "tEXt"
	chunkOFFS = "oFFs"
	chunkACTL = "acTL"
	chunkFCTL = "fcTL"
	chunkFDAT = "fdAT"
	chunkIEND = "IEND"
)

// chunkHeader is the decoded {length, type} prefix of a chunk at some
// offset in the source.
type chunkHeader struct {
	offset uint64
	length uint32
	typ    string
}

// dataOffset is the offset of this chunk's data field within the source.
func (c chunkHeader) dataOffset() uint64 {
	return c.offset + chunkHeaderSize
}

// nextOffset is the offset of the next chunk header, past this chunk's
// data and CRC.
func (c chunkHeader) nextOffset() uint64 {
	return c.offset + uint64(c.length) + 12
}

// isCriticalType reports whether a chunk type is critical, i.e. bit 5
// (0x20) of its first byte is clear ("must be understood or the file is
// rejected").
func isCriticalType(typ string) bool {
	if len(typ) == 0 {
		return true
	}
	return typ[0]&0x20 == 0
}

func decodeChunkLength(hdr []byte) uint32 {
	return binary.BigEndian.Uint32(hdr[0:4])
}

func decodeChunkType(hdr []byte) string {
	return string(hdr[4:8])
}
