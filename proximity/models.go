package proximity

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/t4t5/podpower"
)

// The model table is many-to-one: hardware revisions of one product
// generation broadcast different codes (e.g. the lightning and USB-C
// AirPods Pro 2). Single-byte keys are the legacy layout's codes.
var models = []podpower.ModelDescriptor{
	{Code: []byte{0x02, 0x20}, Name: "AirPods 1", Form: podpower.FormInEar},
	{Code: []byte{0x0F, 0x20}, Name: "AirPods 2", Form: podpower.FormInEar},
	{Code: []byte{0x13, 0x20}, Name: "AirPods 3", Form: podpower.FormInEar},
	{Code: []byte{0x0E, 0x20}, Name: "AirPods Pro", Form: podpower.FormInEar},
	{Code: []byte{0x14, 0x20}, Name: "AirPods Pro 2", Form: podpower.FormInEar},
	{Code: []byte{0x24, 0x20}, Name: "AirPods Pro 2", Form: podpower.FormInEar},
	{Code: []byte{0x0A, 0x20}, Name: "AirPods Max", Form: podpower.FormOverEar},
	{Code: []byte{0x1F, 0x20}, Name: "AirPods Max", Form: podpower.FormOverEar},
	{Code: []byte{0x0B, 0x20}, Name: "Powerbeats Pro", Form: podpower.FormInEar},
	{Code: []byte{0x03, 0x20}, Name: "Powerbeats 3", Form: podpower.FormInEar},
	{Code: []byte{0x06, 0x20}, Name: "Beats Solo 3", Form: podpower.FormOverEar},
	{Code: []byte{0x09, 0x20}, Name: "Beats Studio 3", Form: podpower.FormOverEar},
	{Code: []byte{0x10, 0x20}, Name: "Beats Flex", Form: podpower.FormInEar},

	{Code: []byte{0x02}, Name: "AirPods 1", Form: podpower.FormInEar},
	{Code: []byte{0x0F}, Name: "AirPods 2", Form: podpower.FormInEar},
	{Code: []byte{0x03}, Name: "AirPods 3", Form: podpower.FormInEar},
	{Code: []byte{0x0E}, Name: "AirPods Pro", Form: podpower.FormInEar},
	{Code: []byte{0x0A}, Name: "AirPods Max", Form: podpower.FormOverEar},
}

var modelIndex = func() map[string]podpower.ModelDescriptor {
	m := make(map[string]podpower.ModelDescriptor, len(models))
	for _, d := range models {
		m[hex.EncodeToString(d.Code)] = d
	}
	return m
}()

// Resolve looks the raw model code up in the static table. Unknown codes
// fail with podpower.ErrUnknownModel; callers treat that as background
// noise from some other Apple accessory and keep scanning.
func Resolve(code []byte) (podpower.ModelDescriptor, error) {
	d, ok := modelIndex[hex.EncodeToString(code)]
	if !ok {
		return podpower.ModelDescriptor{}, errors.Wrapf(podpower.ErrUnknownModel, "code %X", code)
	}
	return d, nil
}
