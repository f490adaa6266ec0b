package proximity

// NibbleRef locates a 4-bit field within the payload.
type NibbleRef struct {
	Off   int
	Shift uint
}

func (n NibbleRef) read(b []byte) byte { return (b[n.Off] >> n.Shift) & 0x0F }

// BitRef locates a single flag bit within the payload.
type BitRef struct {
	Off  int
	Mask byte
}

func (f BitRef) read(b []byte) bool { return b[f.Off]&f.Mask != 0 }

// ChargingBits maps components to bit masks inside the charging nibble.
type ChargingBits struct {
	Left  byte
	Right byte
	Case  byte
}

// A Layout pins down where each field sits in the 27-byte payload. Two
// layouts are in the wild: the current broadcast with a two-byte model
// code, and the older one the first decoders were written against.
//
// Orientation: the flag bit tells whether the physical battery slots
// read as logical left/right or reversed, because the firmware reports
// by slot and the buds can be seated either way. BudA reads as "left"
// when the payload is not swapped. SwapWhenSet records the bit's
// polarity, and the polarity is easy to get backwards: on the wire the
// bit asserts "left bud is primary", i.e. NOT swapped, so both shipped
// layouts swap when the bit is CLEAR (SwapWhenSet false). Every public
// decoder of this broadcast reads it that way. Do not invert it without
// captured frames proving the firmware changed.
type Layout struct {
	Name string

	ModelOff int
	ModelLen int

	Orientation BitRef
	SwapWhenSet bool

	BudA NibbleRef
	BudB NibbleRef
	Case NibbleRef

	Charging NibbleRef
	Bits     ChargingBits
}

// LayoutPrimary is the current proximity-pairing frame: 0x07 message
// type, length byte, then model (2 bytes), status, pod batteries packed
// in one byte, and charging flags sharing a byte with the case level.
var LayoutPrimary = Layout{
	Name:        "primary",
	ModelOff:    3,
	ModelLen:    2,
	Orientation: BitRef{Off: 5, Mask: 0x20},
	SwapWhenSet: false,
	BudA:        NibbleRef{Off: 6, Shift: 4},
	BudB:        NibbleRef{Off: 6, Shift: 0},
	Case:        NibbleRef{Off: 7, Shift: 0},
	Charging:    NibbleRef{Off: 7, Shift: 4},
	Bits:        ChargingBits{Left: 0x01, Right: 0x02, Case: 0x04},
}

// LayoutLegacy is the older frame shape: single-byte model code, pod
// batteries in the low nibbles of two separate bytes, charging flags in
// their own byte.
var LayoutLegacy = Layout{
	Name:        "legacy",
	ModelOff:    7,
	ModelLen:    1,
	Orientation: BitRef{Off: 10, Mask: 0x02},
	SwapWhenSet: false,
	BudA:        NibbleRef{Off: 12, Shift: 0},
	BudB:        NibbleRef{Off: 13, Shift: 0},
	Case:        NibbleRef{Off: 15, Shift: 0},
	Charging:    NibbleRef{Off: 14, Shift: 0},
	Bits:        ChargingBits{Left: 0x01, Right: 0x02, Case: 0x04},
}
