// Package adv parses and crafts raw LE advertising data, just enough of
// the EIR structure for a passive observer: flags, local name, and the
// manufacturer-specific field with its company ID split out.
package adv

import "encoding/binary"

// Packet is an utility to craft or parse advertising packets.
// Refer to Supplement to Bluetooth Core Specification | CSSv6, Part A.
type Packet []byte

// Field returns the field data (excluding the initial length and typ byte).
// It returns nil, if the specified field is not found.
func (p Packet) Field(typ byte) []byte {
	b := p
	for len(b) > 0 {
		if len(b) < 2 {
			return nil
		}
		l, t := b[0], b[1]
		if len(b) < int(1+l) {
			return nil
		}
		if t == typ {
			return b[2 : 2+l-1]
		}
		b = b[1+l:]
	}
	return nil
}

// Flags ...
func (p Packet) Flags() (byte, bool) {
	b := p.Field(Flags)
	if len(b) < 1 {
		return 0, false
	}
	return b[0], true
}

// LocalName ...
func (p Packet) LocalName() string {
	if b := p.Field(ShortName); b != nil {
		return string(b)
	}
	return string(p.Field(CompleteName))
}

// Manufacturer returns the company ID and vendor payload of the
// manufacturer-specific field, or ok == false if the packet carries none.
// The company ID is transmitted little-endian in the first two bytes.
func (p Packet) Manufacturer() (id uint16, data []byte, ok bool) {
	b := p.Field(ManufacturerData)
	if len(b) < 2 {
		return 0, nil, false
	}
	return binary.LittleEndian.Uint16(b), b[2:], true
}

// AppendField appends a BLE advertising packet field.
func (p Packet) AppendField(typ byte, b []byte) Packet {
	p = append(p, byte(len(b)+1))
	p = append(p, typ)
	return append(p, b...)
}

// AppendFlags appends a flag field to the packet.
func (p Packet) AppendFlags(f byte) Packet {
	return p.AppendField(Flags, []byte{f})
}

// AppendCompleteName appends a name field to the packet.
func (p Packet) AppendCompleteName(n string) Packet {
	return p.AppendField(CompleteName, []byte(n))
}

// AppendManufacturerData appends a manufacturer data field to the packet.
func (p Packet) AppendManufacturerData(id uint16, b []byte) Packet {
	d := append([]byte{uint8(id), uint8(id >> 8)}, b...)
	return p.AppendField(ManufacturerData, d)
}

// Len ...
func (p Packet) Len() int {
	return len(p)
}
