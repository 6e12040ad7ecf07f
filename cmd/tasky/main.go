// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Traves-Theberge/Tasky/internal/config"
	"github.com/Traves-Theberge/Tasky/internal/eventbus"
	"github.com/Traves-Theberge/Tasky/internal/logging"
	"github.com/Traves-Theberge/Tasky/internal/notify"
	"github.com/Traves-Theberge/Tasky/internal/scheduler"
	"github.com/Traves-Theberge/Tasky/internal/server"
	"github.com/Traves-Theberge/Tasky/internal/storage"
)

var (
	// buildVersion is set at build time via -ldflags "-X main.buildVersion=<version>"
	buildVersion = "dev"
	workDir      = flag.String("work-dir", "", "Working directory (default: ~/.tasky)")
	configPath   = flag.String("config", "", "Path to a YAML configuration file")
	address      = flag.String("address", "", "The address to bind the server to")
	port         = flag.Int("port", 0, "The port to bind the server to")
	transport    = flag.String("transport", "", "Transport mode: sse or stdio")
	logLevel     = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	timezone     = flag.String("timezone", "", "IANA timezone for trigger evaluation (default: system local)")
	soundFile    = flag.String("sound-file", "", "Audio file played when a reminder fires")
	showVersion  = flag.Bool("version", false, "Show version information and exit")
)

func main() {
	flag.Parse()

	cfg := loadConfig()

	if buildVersion != "" {
		cfg.Server.Version = buildVersion
	}

	if *showVersion {
		log.Printf("%s version %s", cfg.Server.Name, cfg.Server.Version)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := createApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	waitForSignal(cancel, app)
}

// loadConfig layers defaults, config file, environment and flags, in that order
func loadConfig() *config.Config {
	cfg := config.DefaultConfig()

	if *configPath != "" {
		if err := config.LoadFile(*configPath, cfg); err != nil {
			log.Fatalf("Failed to load config file %s: %v", *configPath, err)
		}
	}

	config.FromEnv(cfg)

	applyCommandLineFlagsToConfig(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// applyCommandLineFlagsToConfig applies command line flags to the configuration
func applyCommandLineFlagsToConfig(cfg *config.Config) {
	// Determine work directory (default to ~/.tasky)
	wd := *workDir
	if wd == "" {
		home := os.Getenv("HOME")
		if home == "" {
			// Fallback to current directory if HOME is unset
			home, _ = os.Getwd()
		}
		wd = filepath.Join(home, ".tasky")
	}
	_ = os.MkdirAll(wd, 0o755)

	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *transport != "" {
		cfg.Server.TransportMode = *transport
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *timezone != "" {
		cfg.Scheduler.Timezone = *timezone
	}
	if *soundFile != "" {
		cfg.Sound.SoundFile = *soundFile
	}
	// Logs and storage always live in work-dir. Stdout carries JSON-RPC
	// frames in stdio mode, so file logging is not optional.
	cfg.Logging.FilePath = filepath.Join(wd, "tasky.log")
	cfg.Storage.Path = filepath.Join(wd, "tasky.json")
}

// Application represents the running application
type Application struct {
	scheduler scheduler.Scheduler
	server    *server.MCPServer
	logger    *logging.Logger
}

// createApp wires storage, delivery and scheduling together
func createApp(cfg *config.Config) (*Application, error) {
	store, err := storage.NewJSONStore(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	state := notify.NewState(nil)
	sound := notify.NewSoundPlayer(cfg.Sound, nil)
	dispatcher := notify.NewDispatcher(state, nil, nil, nil, sound, bus, nil)

	sched := scheduler.New(&cfg.Scheduler, dispatcher, state, bus)
	sched.SetStore(store)

	mcpServer, err := server.NewMCPServer(cfg, sched, store)
	if err != nil {
		return nil, err
	}

	app := &Application{
		scheduler: sched,
		server:    mcpServer,
		logger:    logging.GetDefaultLogger(),
	}

	return app, nil
}

// Start starts the application
func (a *Application) Start(ctx context.Context) error {
	a.scheduler.Start(ctx)
	a.logger.Infof("Reminder scheduler started")

	if err := a.server.Start(ctx); err != nil {
		return err
	}
	a.logger.Infof("MCP server started")

	return nil
}

// Stop stops the application
func (a *Application) Stop() error {
	if err := a.scheduler.Stop(); err != nil {
		return err
	}
	a.logger.Infof("Reminder scheduler stopped")

	if err := a.server.Stop(); err != nil {
		a.logger.Errorf("Error stopping MCP server: %v", err)
		return err
	}
	a.logger.Infof("MCP server stopped")

	return nil
}

// waitForSignal waits for termination signals and performs cleanup
func waitForSignal(cancel context.CancelFunc, app *Application) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	<-signalCh
	app.logger.Infof("Received termination signal, shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan struct{})
	go func() {
		if err := app.Stop(); err != nil {
			app.logger.Errorf("Error during shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		app.logger.Infof("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		app.logger.Warnf("Shutdown timed out")
	}
}
