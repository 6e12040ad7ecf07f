// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"path/filepath"
	"testing"

	"github.com/Traves-Theberge/Tasky/internal/config"
)

// TestApplyCommandLineFlagsToConfig tests the application of command line flags to the configuration
func TestApplyCommandLineFlagsToConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	tmp := t.TempDir()
	testAddress := "192.168.1.1"
	testPort := 9090
	testTransport := "stdio"
	testLogLevel := "debug"
	testTimezone := "Europe/Berlin"
	testSoundFile := "/sounds/chime.wav"

	workDir = &tmp
	address = &testAddress
	port = &testPort
	transport = &testTransport
	logLevel = &testLogLevel
	timezone = &testTimezone
	soundFile = &testSoundFile

	applyCommandLineFlagsToConfig(cfg)

	if cfg.Server.Address != testAddress {
		t.Errorf("expected address %s, got %s", testAddress, cfg.Server.Address)
	}
	if cfg.Server.Port != testPort {
		t.Errorf("expected port %d, got %d", testPort, cfg.Server.Port)
	}
	if cfg.Server.TransportMode != testTransport {
		t.Errorf("expected transport mode %s, got %s", testTransport, cfg.Server.TransportMode)
	}
	if cfg.Logging.Level != testLogLevel {
		t.Errorf("expected log level %s, got %s", testLogLevel, cfg.Logging.Level)
	}
	if cfg.Scheduler.Timezone != testTimezone {
		t.Errorf("expected timezone %s, got %s", testTimezone, cfg.Scheduler.Timezone)
	}
	if cfg.Sound.SoundFile != testSoundFile {
		t.Errorf("expected sound file %s, got %s", testSoundFile, cfg.Sound.SoundFile)
	}
	expectedLog := filepath.Join(tmp, "tasky.log")
	if cfg.Logging.FilePath != expectedLog {
		t.Errorf("expected log file %s, got %s", expectedLog, cfg.Logging.FilePath)
	}
	expectedStore := filepath.Join(tmp, "tasky.json")
	if cfg.Storage.Path != expectedStore {
		t.Errorf("expected storage path %s, got %s", expectedStore, cfg.Storage.Path)
	}
}

// TestCreateApp verifies the full wiring comes up against a temp work dir
func TestCreateApp(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Server.TransportMode = "stdio"
	cfg.Storage.Path = filepath.Join(tmp, "tasky.json")
	cfg.Logging.FilePath = filepath.Join(tmp, "tasky.log")

	app, err := createApp(cfg)
	if err != nil {
		t.Fatalf("createApp returned error: %v", err)
	}
	if app.scheduler == nil || app.server == nil {
		t.Fatal("createApp left a component unwired")
	}
	if err := app.scheduler.Stop(); err != nil {
		t.Fatalf("scheduler stop: %v", err)
	}
}
