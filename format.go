package upng

// ColorType is the PNG color type byte, as per the PNG spec.
type ColorType uint8

const (
	ColorLuminance      ColorType = 0
	ColorRGB            ColorType = 2
	ColorIndexed        ColorType = 3
	ColorLuminanceAlpha ColorType = 4
	ColorRGBA           ColorType = 6
)

// PixelFormat is the decoder's derived output format tag: a total function
// of (ColorType, bit depth) with 16 valid enumerants; any other combination
// is EUNFORMAT.
type PixelFormat int

const (
	FormatBadFormat PixelFormat = iota
	FormatLuminance1
	FormatLuminance2
	FormatLuminance4
	FormatLuminance8
	FormatLuminanceAlpha1
	FormatLuminanceAlpha2
	FormatLuminanceAlpha4
	FormatLuminanceAlpha8
	FormatIndexed1
	FormatIndexed2
	FormatIndexed4
	FormatIndexed8
	FormatRGB8
	FormatRGB16
	FormatRGBA8
	FormatRGBA16
)

func (f PixelFormat) String() string {
	switch f {
	case FormatLuminance1:
		return "LUMINANCE1"
	case FormatLuminance2:
		return "LUMINANCE2"
	case FormatLuminance4:
		return "LUMINANCE4"
	case FormatLuminance8:
		return "LUMINANCE8"
	case FormatLuminanceAlpha1:
		return "LUMINANCE_ALPHA1"
	case FormatLuminanceAlpha2:
		return "LUMINANCE_ALPHA2"
	case FormatLuminanceAlpha4:
		return "LUMINANCE_ALPHA4"
	case FormatLuminanceAlpha8:
		return "LUMINANCE_ALPHA8"
	case FormatIndexed1:
		return "INDEXED1"
	case FormatIndexed2:
		return "INDEXED2"
	case FormatIndexed4:
		return "INDEXED4"
	case FormatIndexed8:
		return "INDEXED8"
	case FormatRGB8:
		return "RGB8"
	case FormatRGB16:
		return "RGB16"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA16:
		return "RGBA16"
	default:
		return "BADFORMAT"
	}
}

// determineFormat is the total function from (color type, bit depth) to a
// pixel format tag. Any combination not covered here yields FormatBadFormat.
func determineFormat(colorType ColorType, depth uint8) PixelFormat {
	switch colorType {
	case ColorIndexed:
		switch depth {
		case 1:
			return FormatIndexed1
		case 2:
			return FormatIndexed2
		case 4:
			return FormatIndexed4
		case 8:
			return FormatIndexed8
		}
	case ColorLuminance:
		switch depth {
		case 1:
			return FormatLuminance1
		case 2:
			return FormatLuminance2
		case 4:
			return FormatLuminance4
		case 8:
			return FormatLuminance8
		}
	case ColorRGB:
		switch depth {
		case 8:
			return FormatRGB8
		case 16:
			return FormatRGB16
		}
	case ColorLuminanceAlpha:
		switch depth {
		case 1:
			return FormatLuminanceAlpha1
		case 2:
			return FormatLuminanceAlpha2
		case 4:
			return FormatLuminanceAlpha4
		case 8:
			return FormatLuminanceAlpha8
		}
	case ColorRGBA:
		switch depth {
		case 8:
			return FormatRGBA8
		case 16:
			return FormatRGBA16
		}
	}
	return FormatBadFormat
}

// componentsForColorType returns the channel count per color type: 1 for
// luminance and indexed, 3 for RGB, 2 for luminance+alpha, 4 for RGBA, 0 for
// anything else.
func componentsForColorType(ct ColorType) int {
	switch ct {
	case ColorIndexed, ColorLuminance:
		return 1
	case ColorRGB:
		return 3
	case ColorLuminanceAlpha:
		return 2
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}
