package upng

import "github.com/pkg/errors"

// Filter type codes, as per the PNG spec.
const (
	filterNone    = 0
	filterSub     = 1
	filterUp      = 2
	filterAverage = 3
	filterPaeth   = 4
)

// errBadFilterType and errZeroBitsPerPixel are internal to the filter pass;
// Decode translates either into the sticky ErrMalformed state at its own
// call site, so these carry no kind of their own.
var (
	errBadFilterType    = errors.New("upng: unrecognized scanline filter type")
	errZeroBitsPerPixel = errors.New("upng: zero bits per pixel")
)

// paeth is the Paeth predictor used by filter type 4: it returns whichever
// of a, b, c is nearest to p = a + b - c, ties broken in order a, b, c.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unfilterScanline reverses a single PNG scanline's filter in place.
// scanline holds the raw filtered row bytes (no leading filter-type byte);
// precon is the previously reconstructed row, or nil for the first row.
// recon and scanline may alias; precon must be disjoint from recon.
func unfilterScanline(recon, scanline, precon []byte, bytewidth int, filterType byte) error {
	n := len(scanline)
	switch filterType {
	case filterNone:
		copy(recon, scanline)

	case filterSub:
		for i := 0; i < n; i++ {
			var left byte
			if i >= bytewidth {
				left = recon[i-bytewidth]
			}
			recon[i] = scanline[i] + left
		}

	case filterUp:
		for i := 0; i < n; i++ {
			var up byte
			if precon != nil {
				up = precon[i]
			}
			recon[i] = scanline[i] + up
		}

	case filterAverage:
		for i := 0; i < n; i++ {
			var left int
			if i >= bytewidth {
				left = int(recon[i-bytewidth])
			}
			var up int
			if precon != nil {
				up = int(precon[i])
			}
			recon[i] = scanline[i] + byte((left+up)/2)
		}

	case filterPaeth:
		for i := 0; i < n; i++ {
			var left, up, upLeft byte
			if i >= bytewidth {
				left = recon[i-bytewidth]
			}
			if precon != nil {
				up = precon[i]
				if i >= bytewidth {
					upLeft = precon[i-bytewidth]
				}
			}
			recon[i] = scanline[i] + paeth(left, up, upLeft)
		}

	default:
		return errBadFilterType
	}
	return nil
}

// unfilter reverses the per-scanline filter over the full inflated stream,
// which is (stride+1)*height bytes: a leading filter-type byte followed by
// stride bytes of filtered pixel data, per row. out must be sized
// stride*height; in may alias out's backing storage.
func unfilter(out, in []byte, width, height uint32, bpp int) error {
	if bpp == 0 {
		return errZeroBitsPerPixel
	}
	stride := int((uint64(width)*uint64(bpp) + 7) / 8)
	bytewidth := (bpp + 7) / 8
	if bytewidth < 1 {
		bytewidth = 1
	}

	var prevRow []byte
	inOff := 0
	outOff := 0
	for y := uint32(0); y < height; y++ {
		filterType := in[inOff]
		scanline := in[inOff+1 : inOff+1+stride]
		recon := out[outOff : outOff+stride]
		if err := unfilterScanline(recon, scanline, prevRow, bytewidth, filterType); err != nil {
			return err
		}
		prevRow = recon
		inOff += 1 + stride
		outOff += stride
	}
	return nil
}

// removePaddingBits compacts olinebits usable bits per row out of a
// ilinebits-wide stored row, for sub-byte pixel depths whose row bit width
// is not a multiple of 8. It is a pure bit-blit, operating row by row.
func removePaddingBits(out, in []byte, ilinebits, olinebits uint64, height uint32) {
	if ilinebits == olinebits {
		return
	}
	diff := ilinebits - olinebits
	var obp, ibp uint64
	for y := uint32(0); y < height; y++ {
		for x := uint64(0); x < olinebits; x++ {
			bit := (in[ibp>>3] >> (7 - (ibp & 7))) & 1
			ibp++
			if bit == 0 {
				out[obp>>3] &^= 1 << (7 - (obp & 7))
			} else {
				out[obp>>3] |= 1 << (7 - (obp & 7))
			}
			obp++
		}
		ibp += diff
	}
}

// postProcessScanlines unfilters the inflated stream for frame. Output rows
// keep their end-of-row padding bits: for sub-byte depths whose row bit
// width is not byte-aligned, removePaddingBits is called with equal input
// and output widths, so each row stays padded to a whole byte.
func postProcessScanlines(buf []byte, bpp int, frame FrameDescriptor) error {
	w, h := frame.Width, frame.Height
	rowBits := uint64(w) * uint64(bpp)
	alignedRowBits := ((rowBits + 7) / 8) * 8

	if err := unfilter(buf, buf, w, h, bpp); err != nil {
		return err
	}
	if bpp < 8 && rowBits != alignedRowBits {
		removePaddingBits(buf, buf, alignedRowBits, alignedRowBits, h)
	}
	return nil
}
