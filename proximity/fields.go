package proximity

// RawFields is the undigested content of one proximity payload. Left and
// right are already normalized for the orientation flag.
type RawFields struct {
	Layout string
	Model  []byte

	Swapped bool

	LeftRaw  byte
	RightRaw byte
	CaseRaw  byte

	LeftCharging  bool
	RightCharging bool
	CaseCharging  bool
}

// Decode extracts the raw fields of a validated packet under the given
// layout. It is total: every 27-byte payload decodes, reserved bit
// patterns surface later as unknown battery levels rather than errors.
func Decode(p *Packet, l Layout) RawFields {
	b := p.Data()
	f := RawFields{
		Layout:  l.Name,
		Model:   append([]byte(nil), b[l.ModelOff:l.ModelOff+l.ModelLen]...),
		Swapped: l.Orientation.read(b) == l.SwapWhenSet,
	}

	left, right := l.BudA.read(b), l.BudB.read(b)
	if f.Swapped {
		left, right = right, left
	}
	f.LeftRaw, f.RightRaw = left, right
	f.CaseRaw = l.Case.read(b)

	// Charging bits are positional, not slot-relative.
	ch := l.Charging.read(b)
	f.LeftCharging = ch&l.Bits.Left != 0
	f.RightCharging = ch&l.Bits.Right != 0
	f.CaseCharging = ch&l.Bits.Case != 0
	return f
}
