package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t4t5/podpower"
)

func TestInspectAirPodsPro(t *testing.T) {
	ins := NewInspector()
	s, err := ins.Inspect(appleReport(primaryPayload([2]byte{0x0E, 0x20}, false, 10, 9, 4, 0)))
	assert.NoError(t, err)
	assert.Equal(t, "AirPods Pro", s.Model)
	assert.Equal(t, podpower.FormInEar, s.Form)
	assert.Equal(t, []podpower.Component{
		{Name: "left", Battery: 100},
		{Name: "right", Battery: 95},
		{Name: "case", Battery: 45},
	}, s.Components)
	assert.Equal(t, podpower.BatteryLevel(95), s.Overall())
}

func TestInspectSwapped(t *testing.T) {
	ins := NewInspector()
	s, err := ins.Inspect(appleReport(primaryPayload([2]byte{0x0E, 0x20}, true, 10, 9, 4, 0)))
	assert.NoError(t, err)
	assert.Equal(t, []podpower.Component{
		{Name: "left", Battery: 95},
		{Name: "right", Battery: 100},
		{Name: "case", Battery: 45},
	}, s.Components)
}

func TestInspectOverEar(t *testing.T) {
	ins := NewInspector()
	s, err := ins.Inspect(appleReport(primaryPayload([2]byte{0x0A, 0x20}, false, 8, 15, 15, 0x01)))
	assert.NoError(t, err)
	assert.Equal(t, "AirPods Max", s.Model)
	assert.Equal(t, podpower.FormOverEar, s.Form)
	assert.Equal(t, []podpower.Component{
		{Name: "headphones", Battery: 85, Charging: true},
	}, s.Components)
	assert.Equal(t, podpower.BatteryLevel(85), s.Overall())
}

func TestInspectLegacyFallback(t *testing.T) {
	ins := NewInspector()
	s, err := ins.Inspect(appleReport(legacyPayload(0x0E, false, 10, 9, 4, 0)))
	assert.NoError(t, err)
	assert.Equal(t, "AirPods Pro", s.Model)
	assert.Equal(t, []podpower.Component{
		{Name: "left", Battery: 100},
		{Name: "right", Battery: 95},
		{Name: "case", Battery: 45},
	}, s.Components)
}

func TestInspectLegacyOnly(t *testing.T) {
	ins := NewInspector(LayoutLegacy)
	s, err := ins.Inspect(appleReport(legacyPayload(0x0A, false, 7, 0, 0, 0)))
	assert.NoError(t, err)
	assert.Equal(t, "AirPods Max", s.Model)
}

func TestInspectDiscards(t *testing.T) {
	ins := NewInspector()

	// Not Apple at all.
	_, err := ins.Inspect(podpower.Report{CompanyID: 0x0075, Data: make([]byte, PayloadLength)})
	assert.Equal(t, ErrNotProximity, err)

	// Apple shape, model unknown under every layout.
	b := primaryPayload([2]byte{0xAB, 0xCD}, false, 5, 5, 5, 0)
	b[7] = 0xEE
	_, err = ins.Inspect(appleReport(b))
	assert.ErrorIs(t, err, podpower.ErrUnknownModel)
}
