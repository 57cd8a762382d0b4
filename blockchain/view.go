// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// Cursor enumerates every entry held by a View, used for bulk export or
// statistics gathering. Implementations that cannot enumerate return a
// nil Cursor.
type Cursor interface {
	// Valid reports whether the cursor currently points at an entry.
	Valid() bool

	// Next advances the cursor.
	Next()

	// Key returns the outpoint the cursor currently points at.
	Key() wire.OutPoint

	// Value returns the coin the cursor currently points at.
	Value() Coin
}

// View is the read/write capability set every layer of the UTXO stack
// implements: a backing store, a disk-backed leaf, or an in-memory cache.
// Implementations MUST treat "outpoint absent" as identical to "outpoint
// present but coin spent" for the purposes of Has.
type View interface {
	// Get returns the coin for op, and whether it was found at all
	// (found=false covers both "absent" and "spent").
	Get(op wire.OutPoint) (coin Coin, found bool)

	// Has reports whether op resolves to an unspent coin.
	Has(op wire.OutPoint) bool

	// BestBlock returns the hash of the block this view was last
	// updated to reflect.
	BestBlock() chainhash.Hash

	// HeadBlocks returns the tip hash(es) backing this view: normally a
	// single entry, or two during a reorg in flight.
	HeadBlocks() []chainhash.Hash

	// BatchWrite merges entries into this view as of block best. See
	// CacheView.BatchWrite for the exact merge semantics.
	BatchWrite(entries map[wire.OutPoint]*Entry, best chainhash.Hash) error

	// Cursor returns an enumerator over this view's own entries, or nil
	// if the view cannot enumerate.
	Cursor() Cursor

	// EstimateSize returns an approximate byte size of the view's
	// footprint (in memory for a cache, on disk for a disk-backed leaf).
	EstimateSize() int
}
