// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// Coin is a single unspent output plus the metadata the consensus core
// needs to validate spends: the block height it was mined at, whether it
// originated from a coinbase, and its BitName asset tagging.
type Coin struct {
	// Out is the underlying output. A spent coin has a zero-value Out.
	Out wire.TxOut

	// Height is the height of the block that created this output.
	Height uint32

	// IsCoinBase is true when the creating transaction was a coinbase.
	IsCoinBase bool

	// IsReservation marks an output created by a v=10 reservation
	// (NameHash == 0).
	IsReservation bool

	// IsRegistrationOrHolder marks an output that currently represents
	// ownership of a registered name: created by a v=10 registration, a
	// v=11 update, or a v=12 ICANN batch registration.
	IsRegistrationOrHolder bool

	// AssetID is the 256-bit identity of the BitName this coin carries,
	// or the zero hash for ordinary coins.
	AssetID chainhash.Hash

	// Commitment is the hash-preimage commitment bound into a reservation
	// or carried forward by a registration/update, or the zero hash.
	Commitment chainhash.Hash

	// Spent marks a coin that has been cleared by SpendCoin; its Out is
	// the zero value and must not be consulted.
	Spent bool
}

// NewCoin constructs a Coin from a transaction output and its creation
// context.
func NewCoin(out wire.TxOut, height uint32, isCoinBase, isReservation, isRegistrationOrHolder bool, assetID, commitment chainhash.Hash) Coin {
	return Coin{
		Out:                    out,
		Height:                 height,
		IsCoinBase:             isCoinBase,
		IsReservation:          isReservation,
		IsRegistrationOrHolder: isRegistrationOrHolder,
		AssetID:                assetID,
		Commitment:             commitment,
	}
}

// HasAsset reports whether this coin carries a non-zero asset id.
func (c *Coin) HasAsset() bool {
	return !c.AssetID.IsNull()
}

// CarriesName reports whether this coin represents a reservation or a
// registered-name holder. Invariant: HasAsset() implies CarriesName().
func (c *Coin) CarriesName() bool {
	return c.IsReservation || c.IsRegistrationOrHolder
}

// IsSpent reports whether the coin has been cleared.
func (c *Coin) IsSpent() bool {
	return c.Spent
}

// Clear zeroes the coin's output and name tagging and marks it spent,
// leaving a tombstone behind so the spend can propagate through the view
// stack without losing the fact that the outpoint once existed.
func (c *Coin) Clear() {
	*c = Coin{Spent: true}
}

// DynamicMemoryUsage estimates the heap footprint of the coin, dominated
// by its output script. Used by CacheView for its incremental memory
// accounting.
func (c *Coin) DynamicMemoryUsage() int {
	const coinFixedOverhead = 96
	return coinFixedOverhead + len(c.Out.PkScript)
}
