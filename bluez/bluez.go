// Package bluez implements the podpower Radio over the BlueZ D-Bus API,
// buffering advertisement sightings so the scan loop can drain them at
// its own poll cadence.
package bluez

import (
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"

	"github.com/t4t5/podpower"
)

var logger = log.New("bluez")

const (
	bluezService   = "org.bluez"
	defaultAdapter = "/org/bluez/hci0"

	adapterIface = "org.bluez.Adapter1"
	deviceIface  = "org.bluez.Device1"

	signalInterfacesAdded   = "org.freedesktop.DBus.ObjectManager.InterfacesAdded"
	signalPropertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"

	errInProgress = "org.bluez.Error.InProgress"
	errNotReady   = "org.bluez.Error.NotReady"
)

var (
	matchPropertiesChanged = []dbus.MatchOption{
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, deviceIface),
	}
	matchInterfacesAdded = []dbus.MatchOption{
		dbus.WithMatchInterface("org.freedesktop.DBus.ObjectManager"),
		dbus.WithMatchMember("InterfacesAdded"),
	}
)

// Radio is a BLE adapter reached through BlueZ.
type Radio struct {
	conn    *dbus.Conn
	adapter dbus.BusObject
}

// New connects to the system bus and binds the given adapter path, or
// hci0 when path is empty.
func New(path string) (*Radio, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errors.Wrap(podpower.ErrAdapterUnavailable, err.Error())
	}
	if path == "" {
		path = defaultAdapter
	}
	return &Radio{conn: conn, adapter: conn.Object(bluezService, dbus.ObjectPath(path))}, nil
}

// Close releases the bus connection.
func (r *Radio) Close() error { return r.conn.Close() }

// StartScan begins LE discovery. A discovery already running on the
// adapter surfaces as podpower.ErrScanAlreadyActive, a powered-off or
// missing adapter as podpower.ErrAdapterUnavailable.
func (r *Radio) StartScan() (podpower.ScanHandle, error) {
	filter := map[string]interface{}{"Transport": "le", "DuplicateData": true}
	if err := r.adapter.Call(adapterIface+".SetDiscoveryFilter", 0, filter).Err; err != nil {
		return nil, mapError(err, "can't set discovery filter")
	}
	if err := r.adapter.Call(adapterIface+".StartDiscovery", 0).Err; err != nil {
		return nil, mapError(err, "can't start discovery")
	}

	h := &handle{radio: r, sig: make(chan *dbus.Signal, 16), done: make(chan struct{})}
	if err := r.conn.AddMatchSignal(matchPropertiesChanged...); err != nil {
		r.adapter.Call(adapterIface+".StopDiscovery", 0)
		return nil, errors.Wrap(err, "can't add match signal")
	}
	if err := r.conn.AddMatchSignal(matchInterfacesAdded...); err != nil {
		r.conn.RemoveMatchSignal(matchPropertiesChanged...)
		r.adapter.Call(adapterIface+".StopDiscovery", 0)
		return nil, errors.Wrap(err, "can't add match signal")
	}
	r.conn.Signal(h.sig)
	go h.pump()
	return h, nil
}

func mapError(err error, msg string) error {
	if dbusErr, ok := err.(dbus.Error); ok {
		switch dbusErr.Name {
		case errInProgress:
			return errors.Wrap(podpower.ErrScanAlreadyActive, msg)
		case errNotReady:
			return errors.Wrap(podpower.ErrAdapterUnavailable, msg)
		}
	}
	return errors.Wrap(err, msg)
}

// handle is one discovery session. The pump goroutine converts D-Bus
// signals into reports; Poll drains them.
type handle struct {
	radio *Radio
	sig   chan *dbus.Signal
	done  chan struct{}

	mu    sync.Mutex
	queue []podpower.Report

	stopOnce sync.Once
	stopErr  error
}

func (h *handle) pump() {
	for {
		select {
		case <-h.done:
			return
		case sig, ok := <-h.sig:
			if !ok {
				return
			}
			h.handleSignal(sig)
		}
	}
}

func (h *handle) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case signalInterfacesAdded:
		if len(sig.Body) < 2 {
			return
		}
		ifaces, ok := sig.Body[1].(map[string]map[string]dbus.Variant)
		if !ok {
			return
		}
		props, ok := ifaces[deviceIface]
		if !ok {
			return
		}
		h.enqueue(sig.Path, props["ManufacturerData"])
	case signalPropertiesChanged:
		if len(sig.Body) < 2 {
			return
		}
		if iface, ok := sig.Body[0].(string); !ok || iface != deviceIface {
			return
		}
		changes, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}
		h.enqueue(sig.Path, changes["ManufacturerData"])
	}
}

func (h *handle) enqueue(path dbus.ObjectPath, v dbus.Variant) {
	md, ok := v.Value().(map[uint16]dbus.Variant)
	if !ok {
		return
	}
	now := time.Now()
	for id, payload := range md {
		data, ok := payload.Value().([]byte)
		if !ok {
			continue
		}
		h.mu.Lock()
		h.queue = append(h.queue, podpower.Report{
			Addr:       pathAddr(path),
			CompanyID:  id,
			Data:       append([]byte(nil), data...),
			ObservedAt: now,
		})
		h.mu.Unlock()
	}
}

// Poll returns the reports buffered since the previous call.
func (h *handle) Poll() ([]podpower.Report, error) {
	select {
	case <-h.done:
		return nil, errors.New("scan handle is stopped")
	default:
	}
	h.mu.Lock()
	out := h.queue
	h.queue = nil
	h.mu.Unlock()
	return out, nil
}

// Stop ends discovery and detaches from the bus. Idempotent.
func (h *handle) Stop() error {
	h.stopOnce.Do(func() {
		close(h.done)
		conn := h.radio.conn
		if err := conn.RemoveMatchSignal(matchPropertiesChanged...); err != nil {
			logger.Warn("can't remove match signal", "err", err)
		}
		if err := conn.RemoveMatchSignal(matchInterfacesAdded...); err != nil {
			logger.Warn("can't remove match signal", "err", err)
		}
		conn.RemoveSignal(h.sig)
		h.stopErr = h.radio.adapter.Call(adapterIface+".StopDiscovery", 0).Err
	})
	return h.stopErr
}

// pathAddr derives the device MAC from its BlueZ object path, e.g.
// /org/bluez/hci0/dev_A0_B1_C2_D3_E4_F5.
type pathAddr dbus.ObjectPath

func (p pathAddr) String() string {
	s := string(p)
	i := strings.LastIndex(s, "/dev_")
	if i < 0 {
		return s
	}
	return strings.ReplaceAll(s[i+len("/dev_"):], "_", ":")
}
