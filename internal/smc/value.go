package smc

// MaxValueSize is the largest payload the SMC returns for a single key.
const MaxValueSize = 32

// TypeTag is the four-character type descriptor attached to every SMC value.
type TypeTag [4]byte

// Type tags understood by the decoder.
var (
	TypeFloat  = TypeTag{'f', 'l', 't', ' '}
	TypeUint8  = TypeTag{'u', 'i', '8', ' '}
	TypeUint16 = TypeTag{'u', 'i', '1', '6'}
	TypeUint32 = TypeTag{'u', 'i', '3', '2'}
	TypeInt16  = TypeTag{'s', 'i', '1', '6'}
	TypeSP78   = TypeTag{'s', 'p', '7', '8'} // Q8.8 signed fixed point
)

func (t TypeTag) String() string {
	return string(t[:])
}

// Value is the raw payload of one SMC key read: the reported size, the type
// tag that selects the decode rule, an attribute byte, and up to 32 raw
// bytes. Values are produced by the transport and consumed by Decode; tests
// are the only other place they are constructed.
type Value struct {
	Size       uint32
	Type       TypeTag
	Attributes uint8
	Raw        [MaxValueSize]byte
}

// KeyInfo is the metadata half of a value, queried before the byte read so
// the transport knows how many bytes to ask for.
type KeyInfo struct {
	Size       uint32
	Type       TypeTag
	Attributes uint8
}
