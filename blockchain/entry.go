// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// EntryFlags tag a cache Entry with its relationship to the immediate
// parent view.
type EntryFlags uint8

const (
	// EntryDirty marks an entry that has been mutated relative to the
	// parent: it must be written back on flush/batch-write.
	EntryDirty EntryFlags = 1 << iota

	// EntryFresh marks an entry whose coin does not exist in the parent
	// store at all (as opposed to existing-but-spent). It licenses
	// dropping the entry entirely, rather than writing a tombstone, when
	// it is later spent before ever being flushed.
	EntryFresh
)

// Entry is one cache slot: a coin plus its FRESH/DIRTY relationship to
// the backing view.
type Entry struct {
	Coin  Coin
	Flags EntryFlags
}

func (e *Entry) isDirty() bool { return e.Flags&EntryDirty != 0 }
func (e *Entry) isFresh() bool { return e.Flags&EntryFresh != 0 }
