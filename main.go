package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"mapdecor/internal/cache"
	"mapdecor/internal/config"
	"mapdecor/internal/crs"
	"mapdecor/internal/debug"
	"mapdecor/internal/geo"
	"mapdecor/internal/geodesy"
	"mapdecor/internal/ui"
)

func main() {
	config.Flags(pflag.CommandLine)
	pflag.Parse()

	// Show help if requested
	if help, _ := pflag.CommandLine.GetBool("help"); help {
		fmt.Println("mapdecor - Terminal map viewer with scale bar, north arrow and inset map")
		fmt.Println("\nUsage: mapdecor [options]")
		fmt.Println("\nOptions:")
		pflag.PrintDefaults()
		fmt.Println("\nKeys: arrows pan, +/- zoom, i inset mode, Tab panels, q/Esc quit")
		os.Exit(0)
	}

	configPath, _ := pflag.CommandLine.GetString("config")
	cfg, err := config.Load(configPath, pflag.CommandLine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up debug logging if requested
	if cfg.Debug.File != "" {
		logFile, err := os.Create(cfg.Debug.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			debug.SetOutput(logFile)
			debug.Log("mapdecor debug log started")
			debug.Dump("config", cfg)
			fmt.Printf("Debug logging enabled: %s\n", cfg.Debug.File)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize cache manager
	fmt.Println("Initializing map data cache...")
	cacheManager, err := cache.NewManager(cfg.Cache.Dir, time.Duration(cfg.Cache.Timeout)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize cache: %v\n", err)
		os.Exit(1)
	}
	cacheManager.Progress = os.Stdout

	// Ensure Natural Earth data is available
	fmt.Println("Checking Natural Earth data...")
	if err := cacheManager.EnsureData(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to download map data: %v\n", err)
		os.Exit(1)
	}

	// Load shapefiles
	fmt.Println("Loading geographic features...")
	features := geo.NewShapefileLoader(cacheManager.GetCacheDir()).LoadAll()
	fmt.Printf("Loaded %d coastlines, %d borders, %d cities\n",
		len(features[geo.FeatureCoastline]),
		len(features[geo.FeatureCountryBorder])+len(features[geo.FeatureStateBorder]),
		len(features[geo.FeatureCity]))

	provider := crs.NewProvider(geodesy.Ellipsoid())

	fmt.Printf("Starting mapdecor (%s, radius: %.0f km, aspect: %.1f)...\n", cfg.Map.CRS, cfg.Map.Radius, cfg.Map.Aspect)
	app, err := ui.NewApp(nil, cfg, provider, features)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create application: %v\n", err)
		os.Exit(1)
	}

	// Run with panic recovery to ensure terminal is always restored
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
			}
		}()

		if err := app.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("\nGoodbye!")
}
