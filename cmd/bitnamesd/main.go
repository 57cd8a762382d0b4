// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command bitnamesd hosts the BitNames sidechain consensus core: it
// selects a chain parameter set, opens the LevelDB-backed UTXO view,
// and wires logging. It does not implement P2P networking, mempool
// policy, or mining — those are the block-level validator's concern.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitnamesd/sidechain/blockchain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.LogDir); err != nil {
		return fmt.Errorf("failed to init log rotator: %w", err)
	}
	setLogLevels(cfg.DebugLevel)

	subsystemLoggers["CHNP"].Infof("chain: %s (net %08x)", cfg.chainParams.Name, uint32(cfg.chainParams.Net))
	subsystemLoggers["CHNP"].Infof("genesis hash: %s", cfg.chainParams.GenesisHash)

	dbPath := filepath.Join(cfg.DataDir, "utxo.db")
	view, err := blockchain.OpenLevelDBView(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open utxo database at %s: %w", dbPath, err)
	}
	defer view.Close()

	subsystemLoggers["UTXO"].Infof("utxo database opened at %s", dbPath)

	return nil
}
