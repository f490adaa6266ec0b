package podpower

import (
	"encoding/json"
	"fmt"
)

// BatteryLevel is a battery percentage, or BatteryUnknown when the
// broadcast carries no usable reading. Levels come only from the 4-bit
// nibble decode in package proximity, so known values are always one of
// {5, 15, ..., 95, 100}.
type BatteryLevel int

// BatteryUnknown marks a reserved or absent battery reading.
const BatteryUnknown BatteryLevel = -1

// Known reports whether the level carries an actual percentage.
func (l BatteryLevel) Known() bool { return l >= 0 }

func (l BatteryLevel) String() string {
	if !l.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%d%%", int(l))
}

// MarshalJSON renders unknown levels as null, known levels as numbers.
func (l BatteryLevel) MarshalJSON() ([]byte, error) {
	if !l.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(int(l))
}

// FormFactor ...
type FormFactor string

// FormFactor ...
const (
	FormInEar   FormFactor = "in-ear"
	FormOverEar FormFactor = "over-ear"
)

// A ModelDescriptor names a product for a raw model code. The table in
// package proximity is many-to-one: several codes may share a descriptor.
type ModelDescriptor struct {
	Code []byte
	Name string
	Form FormFactor
}

// A Component is one battery-carrying part of the device.
type Component struct {
	Name     string       `json:"name"`
	Battery  BatteryLevel `json:"battery"`
	Charging bool         `json:"charging"`
}

// DeviceStatus is the result of a successful scan. Component order is
// fixed per form factor: in-ear is [left, right, case], over-ear is
// [headphones]. It is immutable once assembled.
type DeviceStatus struct {
	Model      string      `json:"model"`
	Form       FormFactor  `json:"form_factor"`
	Components []Component `json:"components"`
}

// Overall returns the headline battery figure: the lower of left/right
// for in-ear devices (skipping unknown sides), the single component for
// over-ear.
func (s *DeviceStatus) Overall() BatteryLevel {
	overall := BatteryUnknown
	for _, c := range s.Components {
		if c.Name == "case" {
			continue
		}
		if !c.Battery.Known() {
			continue
		}
		if !overall.Known() || c.Battery < overall {
			overall = c.Battery
		}
	}
	return overall
}
