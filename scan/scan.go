// Package scan drives a bounded, cancel-safe discovery session against a
// Radio, feeding every observed report through the proximity pipeline
// and stopping at the first recognized device.
package scan

import (
	"sync"
	"time"

	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/t4t5/podpower"
	"github.com/t4t5/podpower/proximity"
)

var logger = log.New("scan")

// Defaults for a session config.
const (
	DefaultMaxDuration  = 3 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// ErrTimedOut is the terminal outcome of a session that observed no
// matching device within its window. It is distinct from a scan failure.
var ErrTimedOut = errors.New("no matching device observed before the deadline")

// State ...
type State string

// State ...
const (
	Idle     State = "Idle"
	Scanning State = "Scanning"
	Found    State = "Found"
	TimedOut State = "TimedOut"
	Failed   State = "Failed"
)

// Config bounds one session. Zero fields take the defaults.
type Config struct {
	MaxDuration  time.Duration
	PollInterval time.Duration
}

func (c Config) withDefaults() (Config, error) {
	if c.MaxDuration == 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxDuration < 0 || c.PollInterval < 0 {
		return c, errors.New("durations must be positive")
	}
	return c, nil
}

// A Session is one scan invocation: Idle until Run, then Scanning, then
// terminally Found, TimedOut, or Failed. A session is owned by its
// caller, never reused, and never re-acquires the adapter after any
// terminal state; overlapping scans are rejected here and again at the
// adapter.
type Session struct {
	radio podpower.Radio
	ins   *proximity.Inspector
	cfg   Config

	mu    sync.Mutex
	state State
}

// New returns an idle session. A nil inspector gets the default
// primary-then-legacy layout policy.
func New(radio podpower.Radio, ins *proximity.Inspector, cfg Config) (*Session, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if ins == nil {
		ins = proximity.NewInspector()
	}
	return &Session{radio: radio, ins: ins, cfg: cfg, state: Idle}, nil
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Run executes the session to completion: the first recognized device,
// ErrTimedOut, or a collaborator fault. The scan handle is released on
// every exit path exactly once. Cancellation is cooperative through ctx.
func (s *Session) Run(ctx context.Context) (*podpower.DeviceStatus, error) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, errors.Errorf("session is %s, not Idle", s.state)
	}
	s.state = Scanning
	s.mu.Unlock()

	h, err := s.radio.StartScan()
	if err != nil {
		s.setState(Failed)
		return nil, errors.Wrap(err, "can't start scan")
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := h.Stop(); err != nil {
				logger.Warn("can't stop scan", "err", err)
			}
		})
	}
	defer release()

	start := time.Now()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		reports, err := h.Poll()
		if err != nil {
			s.setState(Failed)
			return nil, errors.Wrap(err, "can't poll scan")
		}
		for _, r := range reports {
			st, err := s.ins.Inspect(r)
			if err != nil {
				if errors.Cause(err) == podpower.ErrUnknownModel {
					logger.Debug("unrecognized apple accessory", "addr", r.Addr, "err", err)
				}
				continue
			}
			s.setState(Found)
			release()
			return st, nil
		}

		// Both terminal conditions are checked inside the same
		// iteration; a match found above wins over the deadline.
		if time.Since(start) >= s.cfg.MaxDuration {
			s.setState(TimedOut)
			release()
			return nil, ErrTimedOut
		}

		select {
		case <-ctx.Done():
			s.setState(Failed)
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
