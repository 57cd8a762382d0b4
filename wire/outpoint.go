// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the BitNames sidechain transaction wire format:
// the variant-tagged, bit-exact (de)serialization of transactions that
// carry ordinary spends alongside name-asset reservation, registration,
// update and ICANN batch-registration payloads.
package wire

import (
	"fmt"
	"math"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// MaxOutPointIndex is the index used in the null outpoint that marks a
// coinbase input.
const MaxOutPointIndex = math.MaxUint32

// MaxOutputsPerBlock bounds the linear scan AccessByTxid performs when
// looking for the first unspent output of a transaction.
const MaxOutputsPerBlock = 1_000_000

// OutPoint defines a BitNames data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new BitNames transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// IsNull returns true if the outpoint is the sentinel coinbase marker:
// a zero hash and index == MaxOutPointIndex.
func (o OutPoint) IsNull() bool {
	return o.Index == MaxOutPointIndex && o.Hash.IsNull()
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = fmt.Appendf(buf, "%d", o.Index)
	return string(buf)
}
