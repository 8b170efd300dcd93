package smc

import (
	"fmt"

	"codeberg.org/tessen/smcmon/internal/errors"
)

// Key is a four-character SMC sensor key. Keys are case-sensitive ASCII and
// travel on the wire packed big-endian into a 32-bit integer.
type Key [4]byte

// Well-known sensor keys.
var (
	KeyCPUTemp     = Key{'T', 'C', '0', 'P'} // CPU proximity temperature
	KeyGPUTemp     = Key{'T', 'G', '0', 'P'} // GPU proximity temperature
	KeyAmbientTemp = Key{'T', 'A', '0', 'P'} // Ambient temperature
	KeyBatteryTemp = Key{'T', 'B', '0', 'T'} // Battery temperature
	KeyHeatsinkTemp = Key{'T', 'h', '0', 'H'} // Heatsink temperature
	KeyFanCount    = Key{'F', 'N', 'u', 'm'} // Number of fans
	KeyCPUPower    = Key{'P', 'C', 'P', 'C'} // CPU package power
	KeyCPUThrottle = Key{'P', 'C', 'T', 'C'} // CPU thermal throttling flag
)

// KeyFromString builds a Key from a four-character ASCII string.
func KeyFromString(s string) (Key, error) {
	errFactory := errors.New()

	if len(s) != 4 {
		return Key{}, errFactory.WithData(ErrInvalidKey, s)
	}
	for i := 0; i < 4; i++ {
		if s[i] > 0x7f {
			return Key{}, errFactory.WithData(ErrInvalidKey, s)
		}
	}

	return Key{s[0], s[1], s[2], s[3]}, nil
}

// FanSpeedKey returns the actual-speed key for fan index (F0Ac, F1Ac, ...).
func FanSpeedKey(index int) Key {
	return fanKey(index, 'A', 'c')
}

// FanMinKey returns the minimum-speed key for fan index (F0Mn, ...).
func FanMinKey(index int) Key {
	return fanKey(index, 'M', 'n')
}

// FanMaxKey returns the maximum-speed key for fan index (F0Mx, ...).
func FanMaxKey(index int) Key {
	return fanKey(index, 'M', 'x')
}

func fanKey(index int, a, b byte) Key {
	// Fan indexes above 9 do not exist on any supported machine; the key
	// space only has a single digit for them anyway.
	digit := byte('0' + index%10)
	return Key{'F', digit, a, b}
}

// Pack encodes the key into its 32-bit big-endian wire representation.
func (k Key) Pack() uint32 {
	return uint32(k[0])<<24 | uint32(k[1])<<16 | uint32(k[2])<<8 | uint32(k[3])
}

// UnpackKey decodes a packed 32-bit key back into its byte form.
func UnpackKey(v uint32) Key {
	return Key{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (k Key) String() string {
	return string(k[:])
}

// GoString helps debug output distinguish keys from plain strings.
func (k Key) GoString() string {
	return fmt.Sprintf("smc.Key(%q)", string(k[:]))
}
