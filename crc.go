package upng

import "github.com/snksoft/crc"

// verifyChunkCRC reads a chunk's type+data+crc and validates the trailing
// CRC-32 against github.com/snksoft/crc's IEEE table. Off by default,
// enabled via WithCRCValidation.
func (d *Decoder) verifyChunkCRC(hdr chunkHeader) error {
	buf := make([]byte, 4+hdr.length+4)
	if err := d.src.ReadAt(hdr.offset+4, buf); err != nil {
		return d.setError(ErrRead)
	}
	typeAndData := buf[:4+hdr.length]
	stored := buf[4+hdr.length:]
	want := uint32(stored[0])<<24 | uint32(stored[1])<<16 | uint32(stored[2])<<8 | uint32(stored[3])
	got := crc.CalculateCRC(crc.CRC32, typeAndData)
	if uint32(got) != want {
		return d.setError(ErrMalformed)
	}
	return nil
}
