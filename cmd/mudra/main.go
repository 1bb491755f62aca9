package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/editor"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var version = "dev"

func init() {
	// OpenCV windows and the tray need the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		logLevel    = flag.String("log-level", "", "Log level: error, warn, info, debug (overrides config)")
		headless    = flag.Bool("headless", false, "Run without the preview window")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("mudra", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *headless {
		cfg.Display.Headless = true
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger := logging.New(level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("mudra: %v", err)
	}
}

// run wires every component from cfg and blocks until the frame loop ends.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := actuator.NewExecRunner(cfg.Actuators.CommandTimeout)

	volume, err := actuator.NewVolume(ctx, runner)
	if err != nil {
		return fmt.Errorf("volume control unavailable: %w", err)
	}

	brightness, err := actuator.NewBrightness(runner)
	if err != nil {
		logger.Warn("brightness control unavailable; gestures will still be shown", "error", err)
	}

	windows, err := actuator.NewWindowController(runner)
	if err != nil {
		return fmt.Errorf("window control unavailable: %w", err)
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		Python:          cfg.Detector.Python,
		Script:          cfg.Detector.Script,
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinDetectionConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConfidence,
	})
	if err != nil {
		return fmt.Errorf("hand detector unavailable: %w", err)
	}
	defer det.Close()

	session := editor.NewSession(editor.Config{
		Executable:   cfg.Editor.Executable,
		WindowTitle:  cfg.Editor.WindowTitle,
		LaunchSettle: cfg.Editor.LaunchSettle,
		FindAttempts: cfg.Editor.FindAttempts,
		FindDelay:    cfg.Editor.FindDelay,
		Logger:       logger,
	}, windows)

	var st *store.Store
	if cfg.Journal.Path != "" {
		st, err = store.New(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer st.Close()
	}

	var hub *server.Hub
	if cfg.Monitor.Addr != "" {
		hub = server.NewHub()
		srv := server.New(server.Config{
			Hub:       hub,
			Store:     st,
			StaticDir: cfg.Monitor.StaticDir,
			Logger:    logger,
		})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Monitor.Addr); err != nil {
				logger.Error("monitor server stopped", "error", err)
			}
		}()
	}

	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = tray.New()
	}

	var display overlay.Display
	if cfg.ShowPreview() {
		display = overlay.NewWindowDisplay(cfg.Display.Title)
	} else {
		if tr != nil && !cfg.Display.Headless {
			logger.Warn("preview window is off while the tray is enabled; use the monitor stream to watch frames")
		}
		display = overlay.NewHeadlessDisplay()
	}
	defer display.Close()

	appCfg := app.Config{
		Camera: capture.NewCamera(capture.Config{
			Device: cfg.Camera.Device,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Camera.FPS,
		}),
		Detector:   det,
		Volume:     volume,
		Brightness: brightness,
		Editor:     session,
		Display:    display,
		Hub:        hub,
		Store:      st,
		Logger:     logger,
	}
	if tr != nil {
		appCfg.OnCommand = func(cmd gesture.Command, state gesture.EditorState) {
			tr.SetLastCommand(cmd.String())
			tr.SetEditorState(state.Launched, state.Open)
		}
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}

	if tr == nil {
		return a.Run(ctx)
	}

	tr.OnToggle(func(active bool) { a.SetPaused(!active) })
	tr.OnQuit(cancel)

	// The loop starts only once the tray is up, so its Quit never races Run.
	var started atomic.Bool
	errCh := make(chan error, 1)
	tr.OnReady(func() {
		started.Store(true)
		go func() {
			errCh <- a.Run(ctx)
			tr.Quit()
		}()
	})

	tr.Run()
	cancel()

	if !started.Load() {
		return errors.New("system tray exited before it was ready")
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
