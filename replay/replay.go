// Package replay provides a Radio that replays captured advertising
// packets from a file, for decoding work without a radio in reach. Each
// non-comment line is an address followed by the hex-encoded raw
// advertising data:
//
//	A0:B1:C2:D3:E4:F5 07ff4c000719010e2055aa0456...
package replay

import (
	"bufio"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/t4t5/podpower"
	"github.com/t4t5/podpower/adv"
)

// Radio replays one capture file per scan.
type Radio struct {
	path string
}

// New ...
func New(path string) *Radio {
	return &Radio{path: path}
}

// StartScan reads the capture and serves it as a single batch of
// reports. Lines without a manufacturer-specific field are skipped, the
// same way a live scan never sees them pass the filter.
func (r *Radio) StartScan() (podpower.ScanHandle, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open capture")
	}
	defer f.Close()

	var reports []podpower.Report
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Errorf("malformed capture line %q", line)
		}
		raw, err := hex.DecodeString(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed hex in line %q", line)
		}
		id, data, ok := adv.Packet(raw).Manufacturer()
		if !ok {
			continue
		}
		reports = append(reports, podpower.Report{
			Addr:       addr(fields[0]),
			CompanyID:  id,
			Data:       data,
			ObservedAt: time.Now(),
		})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "can't read capture")
	}
	return &handle{reports: reports}, nil
}

type handle struct {
	reports   []podpower.Report
	delivered bool
}

func (h *handle) Poll() ([]podpower.Report, error) {
	if h.delivered {
		return nil, nil
	}
	h.delivered = true
	return h.reports, nil
}

func (h *handle) Stop() error { return nil }

type addr string

func (a addr) String() string { return string(a) }
