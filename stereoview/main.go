package main

import (
	"io/fs"
	"os"

	"git.terah.dev/imterah/gostereo/libdisplayconfig"
	"git.terah.dev/imterah/gostereo/libframe"
	"git.terah.dev/imterah/gostereo/libheadcam"
	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/librayhost"
	"git.terah.dev/imterah/gostereo/libstereo"
	"git.terah.dev/imterah/gostereo/libtracker"
	"git.terah.dev/imterah/gostereo/libwarp"
	"git.terah.dev/imterah/gostereo/shaders"
	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fallbackWindowWidth  = 1280
	fallbackWindowHeight = 800
)

func main() {
	log.Info("StereoView - based on GoStereo")

	logLevel := os.Getenv("STEREOVIEW_LOG_LEVEL")

	if logLevel != "" {
		switch logLevel {
		case "debug":
			log.SetLevel(log.DebugLevel)

		case "info":
			log.SetLevel(log.InfoLevel)

		case "warn":
			log.SetLevel(log.WarnLevel)

		case "error":
			log.SetLevel(log.ErrorLevel)

		case "fatal":
			log.SetLevel(log.FatalLevel)
		}
	}

	setupLoggers()

	config := DefaultConfig()

	if len(os.Args) > 2 {
		log.Fatalf("Illegal arguments! Usage: stereoview [configuration_file]")
	}

	if len(os.Args) == 2 {
		var err error
		config, err = LoadConfig(os.Args[1])

		if err != nil {
			log.Fatalf("Failed to load configuration: %s", err.Error())
		}
	}

	log.Debug("Attempting to discover HMD...")
	provider, err := libhmd.New(config.HMD)

	if err != nil {
		log.Fatalf("Failed to set up HMD: %s", err.Error())
	}

	defer provider.Close()

	if provider.HasPanel() {
		log.Infof("Found HMD panel: %dx%d", provider.DisplayWidthPixels(), provider.DisplayHeightPixels())
	} else {
		log.Warn("No HMD panel found, using the fallback profile")
	}

	window := config.Window

	if window.Width <= 0 || window.Height <= 0 {
		window.Width = provider.DisplayWidthPixels()
		window.Height = provider.DisplayHeightPixels()
	}

	if window.Width <= 0 || window.Height <= 0 {
		window.Width = fallbackWindowWidth
		window.Height = fallbackWindowHeight
	}

	var sources fs.FS = shaders.FS

	if config.Display.ShaderDir != "" {
		sources = os.DirFS(config.Display.ShaderDir)
	}

	host, err := librayhost.Open(window, sources)

	if err != nil {
		log.Fatalf("Failed to open window: %s", err.Error())
	}

	defer host.Close()

	pipeline := libstereo.NewPipeline(host)
	pipeline.SetIntrinsics(provider)
	pipeline.SetWarpMode(config.Display.WarpMode)
	pipeline.SetSceneResolution(config.Display.SceneResolution[0], config.Display.SceneResolution[1])
	pipeline.SetLookupResolution(config.Display.LookupResolution[0], config.Display.LookupResolution[1])

	defer pipeline.Destroy()

	graph := host.Graph()

	// Stereo cameras follow the window camera, which the head driver turns.
	if err := graph.Attach(pipeline.CameraRoot(), host.CameraGroup()); err != nil {
		log.Fatalf("Failed to attach stereo cameras: %s", err.Error())
	}

	graph.Get(host.CameraGroup()).Pos = cameraStart

	pace, err := buildWorld(host)

	if err != nil {
		log.Fatalf("Failed to build world: %s", err.Error())
	}

	if err := buildHUD(host); err != nil {
		log.Fatalf("Failed to build HUD: %s", err.Error())
	}

	if config.Display.CreateOnStart {
		toggleDisplay(pipeline)
	}

	driver := libheadcam.NewDriver(graph, host.CameraGroup(), provider, host)

	scheduler := libframe.NewScheduler()
	scheduler.Add("interval manager", libframe.Task(graph, pace))

	scheduler.Add("camera update", func(dt float32) libframe.Status {
		driver.Update()
		return libframe.Continue
	})

	scheduler.Add("render", func(dt float32) libframe.Status {
		switch {
		case rl.IsKeyPressed(rl.KeyEscape):
			log.Info("Quitting.")
			return libframe.Exit

		case rl.IsKeyPressed(rl.KeyF):
			rl.ToggleFullscreen()

		case rl.IsKeyPressed(rl.KeyR):
			toggleDisplay(pipeline)

		case rl.IsKeyPressed(rl.KeyC):
			log.Info("Recentring head tracker")
			provider.ResetOrientation()
		}

		host.Frame()

		if host.ShouldClose() {
			log.Info("Quitting.")
			return libframe.Exit
		}

		return libframe.Continue
	})

	for scheduler.Step(rl.GetFrameTime()) {
	}
}

// toggleDisplay creates the HMD display the first time, and flips it on and off after that.
func toggleDisplay(pipeline *libstereo.Pipeline) {
	if !pipeline.IsCreated() {
		if err := pipeline.Create(true); err != nil {
			log.Errorf("Failed to create display: %s", err.Error())
		} else {
			width, height := pipeline.LookupResolution()
			log.Debugf("Warp lookup resolution is %dx%d", width, height)
		}
	} else {
		pipeline.SetEnabled(!pipeline.IsEnabled())
	}

	log.Infof("Display created? %s", yesNo(pipeline.IsCreated()))
	log.Infof("Display enabled? %s", yesNo(pipeline.IsEnabled()))
}

func yesNo(value bool) string {
	if value {
		return "Y"
	}

	return "N"
}

func setupLoggers() {
	logger := log.Default()

	libdisplayconfig.SetupLogger(logger.WithPrefix("libdisplayconfig"))
	libtracker.SetupLogger(logger.WithPrefix("libtracker"))
	libhmd.SetupLogger(logger.WithPrefix("libhmd"))
	libstereo.SetupLogger(logger.WithPrefix("libstereo"))
	libheadcam.SetupLogger(logger.WithPrefix("libheadcam"))
	libframe.SetupLogger(logger.WithPrefix("libframe"))
	librayhost.SetupLogger(logger.WithPrefix("librayhost"))
	libwarp.SetupLogger(logger.WithPrefix("libwarp"))
}
