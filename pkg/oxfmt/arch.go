package oxfmt

import (
	"math"
	"math/bits"
)

// Arch selects the byte width of size values (sequence counts) in a buffer.
type Arch uint8

const (
	Arch32 Arch = 0 // sizes are 4 bytes
	Arch64 Arch = 1 // sizes are 8 bytes
)

// NativeArch returns the tag matching the running platform's pointer width.
func NativeArch() (Arch, error) {
	return archForWidth(bits.UintSize)
}

func archForWidth(width int) (Arch, error) {
	switch width {
	case 32:
		return Arch32, nil
	case 64:
		return Arch64, nil
	default:
		return 0, errorf(ErrInvalidArchitectureTag, "unsupported pointer width %d", width)
	}
}

// SizeWidth returns how many bytes a size value occupies under a.
func (a Arch) SizeWidth() (int, error) {
	switch a {
	case Arch32:
		return 4, nil
	case Arch64:
		return 8, nil
	default:
		return 0, errorf(ErrInvalidArchitectureTag, "tag %d", uint8(a))
	}
}

func (a Arch) String() string {
	switch a {
	case Arch32:
		return "32-bit"
	case Arch64:
		return "64-bit"
	default:
		return "invalid"
	}
}

// appendSize writes n in the width selected by a.
func appendSize(buf []byte, a Arch, n int) ([]byte, error) {
	width, err := a.SizeWidth()
	if err != nil {
		return buf, err
	}
	if width == 4 {
		if uint64(n) > math.MaxUint32 {
			return buf, errorf(ErrSizeOverflow, "count %d does not fit a 32-bit size", n)
		}
		return appendUint(buf, uint64(n), 4), nil
	}
	return appendUint(buf, uint64(n), 8), nil
}

// sizeToInt narrows a decoded size to the native count type.
func sizeToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, errorf(ErrSizeOverflow, "size %d exceeds native range", v)
	}
	return int(v), nil
}
