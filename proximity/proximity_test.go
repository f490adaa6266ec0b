package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t4t5/podpower"
)

// primaryPayload builds a 27-byte proximity payload in the primary
// layout. budA is the high nibble of the battery byte (reads as left
// when not swapped), swapped toggles the orientation bit accordingly.
func primaryPayload(model [2]byte, swapped bool, budA, budB, caseRaw, charging byte) []byte {
	b := make([]byte, PayloadLength)
	b[0] = 0x07
	b[1] = 0x19
	b[2] = 0x01
	b[3], b[4] = model[0], model[1]
	if !swapped {
		b[5] |= 0x20
	}
	b[6] = budA<<4 | budB&0x0F
	b[7] = charging<<4 | caseRaw&0x0F
	return b
}

// legacyPayload builds a payload in the legacy layout, with a primary
// model field that resolves nowhere so the fallback gets exercised.
func legacyPayload(model byte, swapped bool, left, right, caseRaw, charging byte) []byte {
	b := make([]byte, PayloadLength)
	b[3], b[4] = 0xFF, 0xFF
	b[7] = model
	if !swapped {
		b[10] |= 0x02
	}
	b[12] = left & 0x0F
	b[13] = right & 0x0F
	b[14] = charging
	b[15] = caseRaw & 0x0F
	return b
}

func appleReport(data []byte) podpower.Report {
	return podpower.Report{CompanyID: AppleCompanyID, Data: data}
}

func TestFilter(t *testing.T) {
	valid := primaryPayload([2]byte{0x0E, 0x20}, false, 10, 9, 4, 0)

	_, ok := Filter(appleReport(valid))
	assert.True(t, ok)

	// Wrong manufacturer, regardless of content.
	_, ok = Filter(podpower.Report{CompanyID: 0x0006, Data: valid})
	assert.False(t, ok)

	// Length is a strict equality check, not a minimum.
	for _, n := range []int{0, 26, 28, 31} {
		_, ok = Filter(appleReport(make([]byte, n)))
		assert.False(t, ok, "length %d", n)
	}
}

func TestBatteryLevelRule(t *testing.T) {
	cases := []struct {
		raw  byte
		want podpower.BatteryLevel
	}{
		{0, 5}, {1, 15}, {2, 25}, {3, 35}, {4, 45},
		{5, 55}, {6, 65}, {7, 75}, {8, 85}, {9, 95},
		{10, 100},
		{11, podpower.BatteryUnknown},
		{12, podpower.BatteryUnknown},
		{13, podpower.BatteryUnknown},
		{14, podpower.BatteryUnknown},
		{15, podpower.BatteryUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Level(c.raw), "raw %d", c.raw)
	}
}

func TestDecodeOrientationSwap(t *testing.T) {
	straight := primaryPayload([2]byte{0x0E, 0x20}, false, 10, 9, 4, 0x05)
	flipped := primaryPayload([2]byte{0x0E, 0x20}, true, 10, 9, 4, 0x05)

	p, ok := Filter(appleReport(straight))
	assert.True(t, ok)
	f := Decode(p, LayoutPrimary)
	assert.False(t, f.Swapped)
	assert.Equal(t, byte(10), f.LeftRaw)
	assert.Equal(t, byte(9), f.RightRaw)

	p, ok = Filter(appleReport(flipped))
	assert.True(t, ok)
	g := Decode(p, LayoutPrimary)
	assert.True(t, g.Swapped)
	assert.Equal(t, byte(9), g.LeftRaw)
	assert.Equal(t, byte(10), g.RightRaw)

	// Case and charging fields are positional and unaffected.
	assert.Equal(t, f.CaseRaw, g.CaseRaw)
	assert.Equal(t, f.LeftCharging, g.LeftCharging)
	assert.Equal(t, f.RightCharging, g.RightCharging)
	assert.Equal(t, f.CaseCharging, g.CaseCharging)
}

func TestDecodeChargingBits(t *testing.T) {
	p, ok := Filter(appleReport(primaryPayload([2]byte{0x0E, 0x20}, false, 5, 5, 5, 0x07)))
	assert.True(t, ok)
	f := Decode(p, LayoutPrimary)
	assert.True(t, f.LeftCharging)
	assert.True(t, f.RightCharging)
	assert.True(t, f.CaseCharging)

	p, ok = Filter(appleReport(primaryPayload([2]byte{0x0E, 0x20}, false, 5, 5, 5, 0x04)))
	assert.True(t, ok)
	f = Decode(p, LayoutPrimary)
	assert.False(t, f.LeftCharging)
	assert.False(t, f.RightCharging)
	assert.True(t, f.CaseCharging)
}

func TestDecodeIsTotal(t *testing.T) {
	// Arbitrary bit patterns must decode without panicking, under both
	// layouts.
	b := make([]byte, PayloadLength)
	for i := range b {
		b[i] = 0xFF
	}
	p, ok := Filter(appleReport(b))
	assert.True(t, ok)
	for _, l := range []Layout{LayoutPrimary, LayoutLegacy} {
		f := Decode(p, l)
		assert.Equal(t, podpower.BatteryUnknown, Level(f.LeftRaw))
	}
}

func TestResolveManyToOne(t *testing.T) {
	a, err := Resolve([]byte{0x14, 0x20})
	assert.NoError(t, err)
	b, err := Resolve([]byte{0x24, 0x20})
	assert.NoError(t, err)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.Form, b.Form)

	max1, err := Resolve([]byte{0x0A, 0x20})
	assert.NoError(t, err)
	max2, err := Resolve([]byte{0x1F, 0x20})
	assert.NoError(t, err)
	assert.Equal(t, max1.Name, max2.Name)
	assert.Equal(t, podpower.FormOverEar, max1.Form)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve([]byte{0xDE, 0xAD})
	assert.ErrorIs(t, err, podpower.ErrUnknownModel)
}
