package main

import (
	"flag"
	"os"

	"git.terah.dev/imterah/gostereo/libdisplayconfig"
	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libstereo"
	"git.terah.dev/imterah/gostereo/libwarp"
	"github.com/charmbracelet/log"
)

var logger = log.WithPrefix("hmdwarp")

func main() {
	inPath := flag.String("in", "", "side-by-side input image (PNG/JPEG/GIF/WEBP)")
	outPath := flag.String("out", "warped.png", "output PNG path")
	configPath := flag.String("config", "", "stereoview configuration file to read the hmd section from")
	profile := flag.String("profile", "", "optics profile, overrides the configuration")
	modeName := flag.String("mode", libstereo.WarpShader.String(), "warp mode: stereo|shader|shader-chroma")
	width := flag.Int("width", 0, "output width in pixels, defaults to display.lookup_resolution")
	height := flag.Int("height", 0, "output height in pixels, defaults to display.lookup_resolution")

	flag.Parse()

	logLevel := os.Getenv("HMDWARP_LOG_LEVEL")

	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)

		if err != nil {
			logger.Fatalf("Invalid log level: %s", err.Error())
		}

		log.SetLevel(level)
		logger.SetLevel(level)
	}

	libdisplayconfig.SetupLogger(logger.WithPrefix("libdisplayconfig"))
	libhmd.SetupLogger(logger.WithPrefix("libhmd"))
	libwarp.SetupLogger(logger.WithPrefix("libwarp"))

	if *inPath == "" {
		logger.Fatalf("Illegal arguments! Usage: hmdwarp -in <image> [-out warped.png] ...")
	}

	mode, err := libstereo.ParseWarpMode(*modeName)

	if err != nil {
		logger.Fatalf("Failed to parse warp mode: %s", err.Error())
	}

	config, err := loadWarpConfig(*configPath)

	if err != nil {
		logger.Fatalf("Failed to load configuration: %s", err.Error())
	}

	cfg := config.HMD
	outWidth, outHeight := config.lookupSize(*width, *height)

	if *profile != "" {
		cfg.Profile = *profile
		cfg.FallbackProfile = *profile
	}

	// Only the optics are needed here.
	cfg.DisableSensor = true

	provider, err := libhmd.New(cfg)

	if err != nil {
		logger.Fatalf("Failed to set up HMD: %s", err.Error())
	}

	defer provider.Close()

	src, err := decodeImage(*inPath)

	if err != nil {
		logger.Fatalf("Failed to read input: %s", err.Error())
	}

	logger.Infof("Warping %s to %dx%d (%s)", *inPath, outWidth, outHeight, mode)

	warped, err := warpImage(src, provider, mode, outWidth, outHeight)

	if err != nil {
		logger.Fatalf("Failed to warp image: %s", err.Error())
	}

	f, err := os.OpenFile(*outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)

	if err != nil {
		logger.Fatalf("Failed to create output: %s", err.Error())
	}

	if err := encodeImage(f, warped); err != nil {
		f.Close()
		logger.Fatalf("Failed to encode output: %s", err.Error())
	}

	if err := f.Close(); err != nil {
		logger.Fatalf("Failed to write output: %s", err.Error())
	}

	logger.Infof("Wrote %s", *outPath)
}
