// Package proximity recognizes and decodes the Apple proximity-pairing
// broadcast that AirPods and Beats devices advertise over BLE. The
// decoder is a pure function over the 27-byte vendor payload; byte
// offsets and bit positions come from community reverse engineering and
// are kept in Layout values so a corrected table slots in without
// structural change.
package proximity

import "github.com/t4t5/podpower"

const (
	// AppleCompanyID is Apple's assigned manufacturer code.
	AppleCompanyID = 0x004C

	// PayloadLength is the exact vendor payload size of the
	// proximity-pairing broadcast. Any other length is a different
	// accessory or a corrupted frame, never an error.
	PayloadLength = 27
)

// A Packet is a report known to carry a proximity-pairing payload.
// Filter is its only constructor.
type Packet struct {
	report podpower.Report
}

// Filter rejects reports that are not an Apple vendor payload of the
// expected length. It has no side effects.
func Filter(r podpower.Report) (*Packet, bool) {
	if r.CompanyID != AppleCompanyID || len(r.Data) != PayloadLength {
		return nil, false
	}
	return &Packet{report: r}, true
}

// Data returns the 27-byte vendor payload.
func (p *Packet) Data() []byte { return p.report.Data }

// Report returns the observation the packet was filtered from.
func (p *Packet) Report() podpower.Report { return p.report }
