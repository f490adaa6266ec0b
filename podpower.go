// Package podpower reads battery and charging state for Apple wireless
// earbuds and headphones from their BLE advertising broadcasts, without
// establishing a connection.
//
// The root package holds the data model and the Radio boundary. Packet
// recognition and decoding live in package proximity, the bounded scan
// loop in package scan, and the BlueZ-backed Radio in package bluez.
package podpower

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/context"
)

// Addr represents the advertising device's address.
type Addr interface {
	String() string
}

// A Report is one advertisement observation delivered by a Radio.
// Reports are ephemeral; a Radio may reuse nothing of a report after
// handing it out.
type Report struct {
	Addr       Addr
	CompanyID  uint16
	Data       []byte
	ObservedAt time.Time
}

// WithSigHandler returns a copy of ctx that is canceled on SIGINT or
// SIGTERM, so an in-flight scan releases the adapter before the process
// exits.
func WithSigHandler(ctx context.Context, cancel func()) context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-ctx.Done():
		case <-sigs:
			cancel()
		}
		signal.Stop(sigs)
	}()
	return ctx
}
