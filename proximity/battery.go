package proximity

import "github.com/t4t5/podpower"

// Level converts a raw battery nibble to a percentage:
//
//	0..9  -> raw*10 + 5
//	10    -> 100
//	11..15 -> unknown (reserved encodings)
//
// The rule is total over all 4-bit inputs.
func Level(raw byte) podpower.BatteryLevel {
	switch {
	case raw == 10:
		return 100
	case raw <= 9:
		return podpower.BatteryLevel(int(raw)*10 + 5)
	default:
		return podpower.BatteryUnknown
	}
}
