// Package main provides a headless verification tool for the globe transition.
//
// It drives the sequencer with a manual clock and prints the viewpoint at a
// fixed frame interval, so phase boundaries and easing can be checked
// without opening a window.
//
// Usage:
//
//	go run cmd/verify_globe_transition/main.go [flags]
//
// Flags:
//
//	--lat <deg>          Target latitude (default: 48.85, Paris)
//	--lon <deg>          Target longitude (default: 2.35)
//	--config <path>      Globe config file (default: data/globe.yaml)
//	--frame <ms>         Frame interval in milliseconds (default: 250)
//	--second-start <ms>  Call Start again at this time to exercise the re-entry policy (default: off)
//	--policy <name>      Re-entry policy: ignore, queue or restart (default: from config)
//	--verbose            Enable verbose logging
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
	"github.com/decker502/globe/pkg/entities"
	"github.com/decker502/globe/pkg/systems"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
)

var (
	latFlag         = flag.Float64("lat", 48.85, "Target latitude in degrees")
	lonFlag         = flag.Float64("lon", 2.35, "Target longitude in degrees")
	configFlag      = flag.String("config", config.GlobeConfigPath, "Globe config file")
	frameFlag       = flag.Float64("frame", 250, "Frame interval in milliseconds")
	secondStartFlag = flag.Float64("second-start", -1, "Call Start again at this time (ms), negative to disable")
	policyFlag      = flag.String("policy", "", "Re-entry policy: ignore, queue or restart")
	verboseFlag     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	target := types.Location{Latitude: *latFlag, Longitude: *lonFlag}
	if err := target.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid target: %v\n", err)
		os.Exit(2)
	}
	if *frameFlag <= 0 {
		fmt.Fprintln(os.Stderr, "frame interval must be > 0")
		os.Exit(2)
	}

	cfg, err := config.LoadGlobeConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	em := ecs.NewEntityManager()
	globe := entities.NewGlobeEntity(em)
	clock := utils.NewManualClock(0)
	sequencer := systems.NewGlobeSequencerSystem(em, globe, cfg, clock)
	sequencer.SetSignedIn(true)
	if *policyFlag != "" {
		policy, err := types.ParseReentryPolicy(*policyFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		sequencer.SetPolicy(policy)
	}

	completions := 0
	sequencer.SetOnComplete(func() {
		completions++
		fmt.Printf("%9.0f  onComplete #%d\n", clock.NowMillis(), completions)
	})

	req := types.TransitionRequest{Target: target, Label: target.String()}
	if !sequencer.Start(req) {
		fmt.Fprintln(os.Stderr, "sequencer refused to start")
		os.Exit(1)
	}

	want := target.Radians()
	fmt.Printf("target %s -> rotation [%.4f %.4f 0] rad, policy %s\n", target, want[0], want[1], sequencer.Policy())
	fmt.Printf("%9s  %-8s %7s %9s %9s %s\n", "t(ms)", "phase", "scale", "rot.x", "rot.y", "overlay")

	// 最多模拟两次完整过渡
	limit := 2*cfg.Sequencer.TotalMillis() + *frameFlag
	secondStarted := false
	for t := 0.0; t <= limit; t += *frameFlag {
		clock.Set(t)
		if *secondStartFlag >= 0 && !secondStarted && t >= *secondStartFlag {
			secondStarted = true
			accepted := sequencer.Start(req)
			fmt.Printf("%9.0f  second Start accepted=%v pending=%d\n", t, accepted, sequencer.Pending())
		}
		sequencer.Tick(t)

		vp := sequencer.Viewpoint()
		fmt.Printf("%9.0f  %-8s %7.3f %9.4f %9.4f %v\n",
			t, sequencer.Phase(), vp.Scale, vp.Rotation[0], vp.Rotation[1], sequencer.ShowTargetOverlay())

		if !sequencer.IsRunning() && sequencer.Pending() == 0 && t > 0 {
			break
		}
	}

	vp := sequencer.Viewpoint()
	if completions == 0 || vp.Scale != cfg.Sequencer.ScaleBaseline || math.Abs(vp.Rotation[0])+math.Abs(vp.Rotation[1]) != 0 {
		fmt.Println("FAIL: sequencer did not return to baseline")
		os.Exit(1)
	}
	fmt.Printf("OK: %d completion(s), viewpoint back at baseline\n", completions)
}
