// mixerctl is an interactive shell for inspecting and driving a mixer.
// It runs against a simulated sound card, which makes it useful for
// exploring element grouping, capability bits and event delivery without
// hardware.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openmixer/mixer-go/cmd/mixerctl/interactive"
	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/memctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
	"github.com/openmixer/mixer-go/pkg/scenario"
	"github.com/openmixer/mixer-go/pkg/trace"
	"github.com/openmixer/mixer-go/pkg/version"

	_ "github.com/openmixer/mixer-go/pkg/simple"
)

func main() {
	backend := flag.String("backend", "simple", "mixer backend to open")
	profilePath := flag.String("profile", "", "scenario profile to load (YAML)")
	tracePath := flag.String("trace", "", "write trace events to file (CBOR)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mixerctl %s\n", version.Current)
		return
	}

	if err := run(*backend, *profilePath, *tracePath); err != nil {
		fmt.Fprintf(os.Stderr, "mixerctl: %v\n", err)
		os.Exit(1)
	}
}

func run(backend, profilePath, tracePath string) error {
	var tracer trace.Logger = trace.NoopLogger{}
	if tracePath != "" {
		fl, err := trace.NewFileLogger(tracePath)
		if err != nil {
			return err
		}
		defer fl.Close()
		tracer = fl
	}

	transport := demoCard()
	m, err := mixer.Open(backend, &mixer.Config{
		Name:       "demo",
		Transports: []ctl.Transport{transport},
		Tracer:     tracer,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	var profile *scenario.Profile
	if profilePath != "" {
		profile, err = scenario.LoadFile(profilePath)
		if err != nil {
			return err
		}
	}

	sh, err := interactive.New(m, transport, profile)
	if err != nil {
		return err
	}
	return sh.Run()
}

// demoCard builds a simulated card with the control mix of a typical
// onboard codec.
func demoCard() *memctl.Transport {
	intCtl := func(channels int, max int64, dbMin, dbMax int64) ctl.ElemInfo {
		return ctl.ElemInfo{
			Type: ctl.TypeInteger, Count: channels,
			Min: 0, Max: max, DBMin: dbMin, DBMax: dbMax,
		}
	}
	boolCtl := func(channels int) ctl.ElemInfo {
		return ctl.ElemInfo{Type: ctl.TypeBoolean, Count: channels, Min: 0, Max: 1}
	}

	return memctl.New(
		memctl.Control{
			Name: "Master Playback Volume",
			Info: intCtl(2, 87, -6500, 0), Value: ctl.Value{60, 60},
		},
		memctl.Control{
			Name: "Master Playback Switch",
			Info: boolCtl(1), Value: ctl.Value{1},
		},
		memctl.Control{
			Name: "PCM Playback Volume",
			Info: intCtl(2, 255, -5100, 0), Value: ctl.Value{200, 200},
		},
		memctl.Control{
			Name: "Capture Volume",
			Info: intCtl(2, 31, -1700, 3000), Value: ctl.Value{16, 16},
		},
		memctl.Control{
			Name: "Capture Switch",
			Info: boolCtl(2), Value: ctl.Value{1, 1},
		},
		memctl.Control{
			Name: "Mic Boost Volume",
			Info: intCtl(1, 3, 0, 3600), Value: ctl.Value{0},
		},
		memctl.Control{
			Name: "Input Source",
			Info: ctl.ElemInfo{
				Type: ctl.TypeEnumerated, Count: 1,
				Items: []string{"Mic", "Line", "Aux"},
			},
			Value: ctl.Value{0},
		},
	)
}
