package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/net/context"

	"github.com/t4t5/podpower"
	"github.com/t4t5/podpower/bluez"
	"github.com/t4t5/podpower/proximity"
	"github.com/t4t5/podpower/replay"
	"github.com/t4t5/podpower/scan"
)

func main() {
	app := cli.NewApp()

	app.Name = "podpower"
	app.Usage = "Read AirPods battery levels from their BLE broadcasts"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.DurationFlag{Name: "duration, d", Value: scan.DefaultMaxDuration, Usage: "maximum scan duration"},
		cli.DurationFlag{Name: "interval, i", Value: scan.DefaultPollInterval, Usage: "poll interval"},
		cli.StringFlag{Name: "adapter, a", Usage: "bluez adapter path (default hci0)"},
		cli.StringFlag{Name: "replay, r", Usage: "decode a capture file instead of scanning"},
		cli.BoolFlag{Name: "legacy", Usage: "decode with the legacy packet layout only"},
		cli.BoolFlag{Name: "json, j", Usage: "print the result as JSON"},
	}
	app.Action = run

	app.Run(os.Args)
}

func run(c *cli.Context) error {
	radio, err := newRadio(c)
	if err != nil {
		return fail(c, err)
	}

	var ins *proximity.Inspector
	if c.Bool("legacy") {
		ins = proximity.NewInspector(proximity.LayoutLegacy)
	}

	sess, err := scan.New(radio, ins, scan.Config{
		MaxDuration:  c.Duration("duration"),
		PollInterval: c.Duration("interval"),
	})
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	status, err := sess.Run(podpower.WithSigHandler(ctx, cancel))
	switch errors.Cause(err) {
	case nil:
	case scan.ErrTimedOut:
		return fail(c, errors.New("no AirPods found"))
	default:
		return fail(c, err)
	}

	if c.Bool("json") {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fail(c, err)
		}
		fmt.Println(string(out))
		return nil
	}
	printStatus(status)
	return nil
}

func newRadio(c *cli.Context) (podpower.Radio, error) {
	if path := c.String("replay"); path != "" {
		return replay.New(path), nil
	}
	r, err := bluez.New(c.String("adapter"))
	return r, errors.Wrap(err, "can't open adapter")
}

func printStatus(s *podpower.DeviceStatus) {
	fmt.Printf("%s (%s)\n", s.Model, s.Form)
	for _, comp := range s.Components {
		fmt.Printf("%s: %s", title(comp.Name), comp.Battery)
		if comp.Charging {
			fmt.Printf(" (charging)")
		}
		fmt.Printf("\n")
	}
	if overall := s.Overall(); overall.Known() {
		fmt.Printf("Overall: %s\n", overall)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// fail reports the error in the selected output format and maps every
// non-success outcome to exit code 1.
func fail(c *cli.Context, err error) error {
	if c.Bool("json") {
		out, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Println(string(out))
		return cli.NewExitError("", 1)
	}
	return cli.NewExitError(err.Error(), 1)
}
