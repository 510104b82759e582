package main

import (
	"flag"
	"log"

	"github.com/decker502/globe/pkg/app"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag      = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag       = flag.String("config", "", "Globe config file (default: embedded data/globe.yaml)")
	destinationsFlag = flag.String("destinations", "", "Destination catalog, watched for changes when on disk (default: embedded data/destinations.yaml)")
	tourFlag         = flag.String("tour", "data/tours/round_the_world.tengo", "Tour script choosing the next destination")
	policyFlag       = flag.String("policy", "", "Re-entry policy while a transition runs: ignore, queue or restart")
	signedInFlag     = flag.Bool("signed-in", false, "Start signed in (disables idle spin)")
	debugFlag        = flag.Bool("debug", false, "Show FPS and process stats")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	cfg := app.Config{
		Verbose:          *verboseFlag,
		ConfigPath:       *configFlag,
		DestinationsPath: *destinationsFlag,
		TourPath:         *tourFlag,
		Policy:           *policyFlag,
		Debug:            *debugFlag,
	}
	// 只有显式传入 -signed-in 时才覆盖用户设置
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "signed-in" {
			cfg.SignedIn = signedInFlag
		}
	})

	globeApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Globe")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(globeApp)
	globeApp.Shutdown()
	if err != nil {
		log.Fatal(err)
	}
}
