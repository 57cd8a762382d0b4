// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/bitnamesd/sidechain/wire"
)

// BIP68 sequence field layout: a top disable bit, a type bit selecting
// time- vs height-based locks, and a 16-bit granularity-scaled value.
const (
	SequenceLockTimeDisableFlag = 1 << 31
	SequenceLockTimeTypeFlag    = 1 << 22
	SequenceLockTimeGranularity = 9 // 512-second units
	SequenceLockTimeMask        = 0x0000ffff

	// SequenceLockTimeVersion is the minimum transaction version BIP68
	// relative lock-times apply to.
	SequenceLockTimeVersion = 2
)

// SequenceLock is the componentwise transaction-level relative lock-time:
// the transaction may not be included in a block until both the block
// height and the median-time-past of its predecessor exceed these
// thresholds.
type SequenceLock struct {
	MinHeight int32
	MinTime   int64
}

// InputContext supplies the per-input context EvaluateSequenceLocks needs
// that a coin alone does not carry: the height the coin's output was
// created at, and the median-time-past of the block preceding that
// creation (used as the origin for 512-second granularity locks).
type InputContext struct {
	Height         int32
	MedianTimePast time.Time
}

// CalcSequenceLock computes the componentwise maximum lock implied by
// tx's inputs at the given heights/median-times, honoring BIP68's
// per-input disable bit and applying only when tx.Version >=
// SequenceLockTimeVersion.
func CalcSequenceLock(tx *wire.Transaction, inputs []InputContext) SequenceLock {
	lock := SequenceLock{MinHeight: -1, MinTime: -1}

	if tx.Version() < SequenceLockTimeVersion {
		return lock
	}

	for i, in := range tx.TxIn() {
		if in.Sequence&SequenceLockTimeDisableFlag != 0 {
			continue
		}

		ctx := inputs[i]
		if in.Sequence&SequenceLockTimeTypeFlag != 0 {
			seconds := int64(in.Sequence&SequenceLockTimeMask) << SequenceLockTimeGranularity
			candidate := ctx.MedianTimePast.Unix() + seconds - 1
			if candidate > lock.MinTime {
				lock.MinTime = candidate
			}
		} else {
			candidate := ctx.Height + int32(in.Sequence&SequenceLockTimeMask) - 1
			if candidate > lock.MinHeight {
				lock.MinHeight = candidate
			}
		}
	}

	return lock
}

// EvaluateSequenceLocks reports whether lock permits inclusion in a block
// at blockHeight whose preceding block has median-time-past
// prevMedianTimePast.
func EvaluateSequenceLocks(lock SequenceLock, blockHeight int32, prevMedianTimePast time.Time) bool {
	return lock.MinHeight < blockHeight && lock.MinTime < prevMedianTimePast.Unix()
}
