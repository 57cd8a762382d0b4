// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jessevdk/go-flags"

	"github.com/bitnamesd/sidechain/chaincfg"
)

const (
	defaultConfigFilename = "bitnamesd.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "bitnamesd.log"
	defaultLogLevel       = "info"
)

var (
	defaultHomeDir    = appDataDir("bitnamesd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the daemon's command-line and config-file options.
// Following go-flags convention, each field's struct tag doubles as its
// long flag name and help text.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store the unspent-output database"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`

	MainNet bool `long:"mainnet" description:"Use the main BitNames network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`

	chainParams *chaincfg.Params
}

// loadConfig parses command-line flags (optionally layered over a config
// file, following go-flags' IniParser convention) and resolves the
// selected chain's parameters.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
	}

	preParser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if cfg.MainNet && cfg.RegTest {
		return nil, nil, fmt.Errorf("--mainnet and --regtest are mutually exclusive")
	}

	cfg.chainParams = &chaincfg.MainNetParams
	if cfg.RegTest {
		cfg.chainParams = &chaincfg.RegressionNetParams
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.chainParams.Name)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.chainParams.Name)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &cfg, remainingArgs, nil
}

// cleanAndExpandPath expands a leading ~ to the user's home directory
// and cleans the result.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// appDataDir returns the default per-OS application data directory for
// name, honoring the common XDG/APPDATA conventions.
func appDataDir(name string, roaming bool) string {
	if name == "" || name == "." {
		return "."
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, name)
		}
		return filepath.Join(home, name)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", name)
	default:
		return filepath.Join(home, "."+name)
	}
}
