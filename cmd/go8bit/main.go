// Package main implements the go8bit NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"go8bit/internal/app"
	"go8bit/internal/graphics"
	"go8bit/internal/version"
)

func main() {
	// Parse command line flags
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *version {
		printVersion()
		os.Exit(0)
	}

	// Set up graceful shutdown
	setupGracefulShutdown()

	fmt.Println("go8bit - Go NES Emulator starting")

	// Determine config file path
	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	// Create application
	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Force headless backend only when explicitly requested with -nogui
	if *nogui {
		config := application.GetConfig()
		config.Video.Backend = "headless"
		fmt.Println("Headless mode requested")
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("Application cleanup error: %v", err)
		}
	}()

	// Apply debug settings
	if *debug {
		config := application.GetConfig()
		config.UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
		fmt.Println("Debug mode enabled")
	}

	// Load ROM if specified
	if *romFile != "" {
		fmt.Printf("Loading ROM: %s\n", *romFile)
		if err := application.LoadROM(*romFile); err != nil {
			log.Fatalf("Failed to load ROM: %v", err)
		}
		fmt.Println("ROM loaded successfully")

		// Re-apply debug settings after ROM load (PPU might be recreated)
		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *nogui {
		// Run in headless mode (for testing or automation)
		fmt.Println("Running in headless mode...")
		if *romFile == "" {
			log.Fatal("ROM file required for headless mode")
		}
		runHeadlessMode(application)
	} else {
		// Run full GUI application
		fmt.Println("Starting GUI mode...")
		if err := runGUIMode(application); err != nil {
			log.Fatalf("GUI mode failed: %v", err)
		}
	}

	fmt.Println("Emulator shutting down...")
}

// runGUIMode runs the full GUI application
func runGUIMode(application *app.Application) error {
	fmt.Println("Initializing GUI application...")

	// Display startup information
	config := application.GetConfig()
	windowWidth, windowHeight := config.GetWindowResolution()
	fmt.Printf("   Window: %dx%d (Scale: %dx)\n", windowWidth, windowHeight, config.Window.Scale)
	fmt.Printf("   Audio: %s (%d Hz, %.0f%% volume)\n",
		enabledString(config.Audio.Enabled),
		config.Audio.SampleRate,
		config.Audio.Volume*100)
	fmt.Printf("   Video: %s, %s, VSync: %s\n",
		config.Video.Filter,
		config.Video.AspectRatio,
		enabledString(config.Video.VSync))

	// Start the application
	fmt.Println("Starting main application loop...")
	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %v", err)
	}

	// Display shutdown statistics
	fmt.Printf("Session statistics:\n")
	fmt.Printf("   Frames rendered: %d\n", application.GetFrameCount())
	fmt.Printf("   Session time: %v\n", application.GetUptime())
	fmt.Printf("   Average FPS: %.1f\n", application.GetFPS())

	return nil
}

// runHeadlessMode runs the emulator without GUI, dumping a few PPM
// screenshots so headless CI runs can be inspected visually.
func runHeadlessMode(application *app.Application) {
	fmt.Println("Running emulator in headless mode...")
	fmt.Println("Running 120 frames (~2 seconds) and dumping frame buffers")

	bus := application.GetBus()
	if bus == nil {
		fmt.Println("bus is not initialized")
		return
	}

	const targetFrames = 120
	const cpuCyclesPerFrame = 29780
	checkpoints := map[int]bool{30: true, 60: true, 119: true}

	var captured [][256 * 240]uint32
	var capturedAt []int

	for frame := 0; frame < targetFrames; frame++ {
		for cycles := 0; cycles < cpuCyclesPerFrame; cycles++ {
			bus.Step()
		}

		if checkpoints[frame] {
			captured = append(captured, bus.PPU.GetFrameBuffer())
			capturedAt = append(capturedAt, frame+1)
		}

		if frame%30 == 29 {
			fmt.Printf("%d/%d frames complete\n", frame+1, targetFrames)
		}
	}

	// Saving and analyzing each checkpoint is independent disk/CPU work,
	// so fan it out instead of serializing it after the emulation loop.
	var g errgroup.Group
	for i := range captured {
		frameBuffer, frameNum := captured[i], capturedAt[i]
		g.Go(func() error {
			filename := fmt.Sprintf("frame_%03d.ppm", frameNum)
			if err := graphics.WriteFrameBufferPPM(frameBuffer, filename); err != nil {
				fmt.Printf("failed to write %s: %v\n", filename, err)
			} else {
				fmt.Printf("%s written\n", filename)
			}
			analyzeFrameBuffer(frameBuffer, frameNum)
			return nil
		})
	}
	g.Wait()

	fmt.Println("Headless mode complete")
	fmt.Println("Generated files:")
	fmt.Println("   - frame_031.ppm")
	fmt.Println("   - frame_061.ppm")
	fmt.Println("   - frame_120.ppm")
}

// analyzeFrameBuffer prints a quick color-distribution summary of a frame,
// useful for spotting a blank or corrupted frame buffer in headless runs.
func analyzeFrameBuffer(frameBuffer [256 * 240]uint32, frame int) {
	colorCounts := make(map[uint32]int)
	for _, pixel := range frameBuffer {
		colorCounts[pixel]++
	}

	nonBlackPixels := 0
	for color, count := range colorCounts {
		if color != 0x000000 {
			nonBlackPixels += count
		}
	}

	fmt.Printf("   frame %d: %d distinct colors, %d non-black pixels (%.1f%%)\n",
		frame, len(colorCounts), nonBlackPixels,
		float64(nonBlackPixels)/float64(256*240)*100)

	if len(colorCounts) > 1 {
		fmt.Printf("   top colors: ")
		count := 0
		for color, pixels := range colorCounts {
			if count >= 3 {
				break
			}
			percentage := float64(pixels) / float64(256*240) * 100
			fmt.Printf("0x%06X(%.1f%%) ", color, percentage)
			count++
		}
		fmt.Println()
	}
}

// setupGracefulShutdown sets up signal handling for graceful shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nInterrupt received, shutting down gracefully...")
		os.Exit(0)
	}()
}

// enabledString returns "enabled" or "disabled" based on boolean value
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printVersion() {
	version.PrintBuildInfo()
}

func printUsage() {
	fmt.Println("go8bit - Go NES Emulator")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  A NES (Nintendo Entertainment System) emulator written in Go.")
	fmt.Println("  Features cycle-accurate CPU/PPU/APU emulation, save states,")
	fmt.Println("  and a graphical frontend.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  go8bit [options]                    # Start GUI mode without ROM")
	fmt.Println("  go8bit -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  go8bit -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  go8bit                              # Start GUI, load ROM from menu")
	fmt.Println("  go8bit -rom game.nes                # Start with ROM loaded")
	fmt.Println("  go8bit -rom game.nes -debug         # Start with debug info enabled")
	fmt.Println("  go8bit -config custom.json          # Use custom configuration")
	fmt.Println("  go8bit -nogui -rom test.nes         # Run headless for testing")
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1:")
	fmt.Println("    Arrow Keys / WASD - D-Pad")
	fmt.Println("    J / Z             - A Button")
	fmt.Println("    K / X             - B Button")
	fmt.Println("    Enter             - Start")
	fmt.Println("    Space             - Select")
	fmt.Println()
	fmt.Println("  Special Keys:")
	fmt.Println("    Escape (2x)       - Quit (double-tap within 3 seconds)")
	fmt.Println("    F1-F10            - Save States")
	fmt.Println("    Shift+F1-F10      - Load States")
	fmt.Println("    F11               - Toggle Fullscreen")
	fmt.Println("    F12               - Screenshot")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("  Config file: ./config/go8bit.json")
	fmt.Println("  ROMs:        ./roms/")
	fmt.Println("  Save States: ./states/")
	fmt.Println("  Screenshots: ./screenshots/")
	fmt.Println()
	fmt.Println("SUPPORTED FORMATS:")
	fmt.Println("  - iNES (.nes)")
	fmt.Println("  - NES 2.0")
	fmt.Printf("  - Mappers: %s\n", version.MapperList())
	fmt.Println()
	fmt.Println("For more information, visit the project documentation.")
}
