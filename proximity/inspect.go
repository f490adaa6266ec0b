package proximity

import (
	"errors"

	"github.com/t4t5/podpower"
)

// ErrNotProximity is returned by Inspect for reports that are not a
// proximity-pairing broadcast at all. It is expected traffic, not a
// fault.
var ErrNotProximity = errors.New("not a proximity-pairing broadcast")

// An Inspector runs a report through filter, field decode, and model
// resolution, and assembles the device status. Layouts are tried in
// order; a later layout is only consulted when the model code read under
// an earlier one does not resolve.
type Inspector struct {
	layouts []Layout
}

// NewInspector returns an inspector over the given layouts. With no
// arguments it tries the primary layout first and falls back to the
// legacy one.
func NewInspector(layouts ...Layout) *Inspector {
	if len(layouts) == 0 {
		layouts = []Layout{LayoutPrimary, LayoutLegacy}
	}
	return &Inspector{layouts: layouts}
}

// Inspect returns the decoded status of a recognized device, or
// ErrNotProximity / podpower.ErrUnknownModel for reports to discard.
func (ins *Inspector) Inspect(r podpower.Report) (*podpower.DeviceStatus, error) {
	p, ok := Filter(r)
	if !ok {
		return nil, ErrNotProximity
	}
	var err error
	for _, l := range ins.layouts {
		f := Decode(p, l)
		var desc podpower.ModelDescriptor
		if desc, err = Resolve(f.Model); err != nil {
			continue
		}
		return assemble(f, desc), nil
	}
	return nil, err
}

// assemble builds the caller-facing status. In-ear order is fixed as
// left, right, case. Over-ear devices report their level in the
// primary-slot nibble; the case nibble carries nothing for them.
func assemble(f RawFields, desc podpower.ModelDescriptor) *podpower.DeviceStatus {
	s := &podpower.DeviceStatus{Model: desc.Name, Form: desc.Form}
	if desc.Form == podpower.FormOverEar {
		s.Components = []podpower.Component{
			{Name: "headphones", Battery: Level(f.LeftRaw), Charging: f.LeftCharging},
		}
		return s
	}
	s.Components = []podpower.Component{
		{Name: "left", Battery: Level(f.LeftRaw), Charging: f.LeftCharging},
		{Name: "right", Battery: Level(f.RightRaw), Charging: f.RightCharging},
		{Name: "case", Battery: Level(f.CaseRaw), Charging: f.CaseCharging},
	}
	return s
}
