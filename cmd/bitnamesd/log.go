// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/bitnamesd/sidechain/blockchain"
)

// subsystemLoggers maps each subsystem tag to its logger. UTXO is handed
// to the blockchain package (view stack and validation share it) and
// also logs database opening in main; CHNP logs the selected chain and
// its genesis hash in main; VLDT is registered but nothing writes to it.
var subsystemLoggers = map[string]btclog.Logger{
	"UTXO": btclog.Disabled,
	"VLDT": btclog.Disabled,
	"CHNP": btclog.Disabled,
}

var backendLog = btclog.NewBackend(logWriter{})

// logWriter forwards log output from the btclog backend to both stdout
// and the rotating log file once initLogRotator has been called.
type logWriter struct{}

var logRotator *rotator.Rotator

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// initLogRotator opens a rotating log file under logDir, following the
// teacher's convention of a single shared Rotator backing every
// subsystem logger: 10 MiB threshold (10*1024 KB), no compression, 3
// rolled files kept.
func initLogRotator(logDir string) error {
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	r, err := rotator.New(filepath.Join(logDir, defaultLogFilename), 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r
	return nil
}

// setLogLevels applies levelStr to every registered subsystem and wires
// each package's UseLogger to the resulting logger.
func setLogLevels(levelStr string) {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		level = btclog.LevelInfo
	}

	for tag := range subsystemLoggers {
		logger := backendLog.Logger(tag)
		logger.SetLevel(level)
		subsystemLoggers[tag] = logger
	}

	blockchain.UseLogger(subsystemLoggers["UTXO"])
}
