// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// memView is a trivial in-memory View used only to ground CacheView and
// BackedView tests: it stores entries exactly as BatchWrite hands them
// over, with no FRESH/DIRTY bookkeeping of its own.
type memView struct {
	coins map[wire.OutPoint]Coin
	best  chainhash.Hash
}

func newMemView() *memView {
	return &memView{coins: make(map[wire.OutPoint]Coin)}
}

func (m *memView) Get(op wire.OutPoint) (Coin, bool) {
	c, ok := m.coins[op]
	if !ok || c.Spent {
		return Coin{}, false
	}
	return c, true
}

func (m *memView) Has(op wire.OutPoint) bool {
	_, ok := m.Get(op)
	return ok
}

func (m *memView) BestBlock() chainhash.Hash    { return m.best }
func (m *memView) HeadBlocks() []chainhash.Hash { return []chainhash.Hash{m.best} }
func (m *memView) EstimateSize() int            { return len(m.coins) * 128 }

func (m *memView) BatchWrite(entries map[wire.OutPoint]*Entry, best chainhash.Hash) error {
	for op, e := range entries {
		if !e.isDirty() {
			continue
		}
		if e.isFresh() && e.Coin.Spent {
			delete(m.coins, op)
			continue
		}
		m.coins[op] = e.Coin
	}
	m.best = best
	return nil
}

func (m *memView) Cursor() Cursor {
	ops := make([]wire.OutPoint, 0, len(m.coins))
	for op := range m.coins {
		ops = append(ops, op)
	}
	return &memCursor{m: m, ops: ops}
}

type memCursor struct {
	m   *memView
	ops []wire.OutPoint
	idx int
}

func (c *memCursor) Valid() bool        { return c.idx < len(c.ops) }
func (c *memCursor) Next()              { c.idx++ }
func (c *memCursor) Key() wire.OutPoint { return c.ops[c.idx] }
func (c *memCursor) Value() Coin        { return c.m.coins[c.ops[c.idx]] }

func sampleCoin(value int64) Coin {
	return NewCoin(wire.TxOut{Value: value, PkScript: []byte{0x51}}, 10, false, false, false, chainhash.Hash{}, chainhash.Hash{})
}

func TestCacheViewGetMissFromBackend(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	_, found := cache.Get(op)
	assert.False(t, found)
	assert.False(t, cache.Has(op))
}

func TestCacheViewAddThenGet(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	coin := sampleCoin(100)
	cache.AddCoin(op, coin, true)

	got, found := cache.Get(op)
	require.True(t, found)
	assert.Equal(t, coin, got)
}

func TestCacheViewAddCoinDropsUnspendable(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	unspendable := NewCoin(wire.TxOut{Value: 0, PkScript: []byte{0x6a, 0x01, 0x02}}, 10, false, false, false, chainhash.Hash{}, chainhash.Hash{})
	cache.AddCoin(op, unspendable, true)

	_, found := cache.Get(op)
	assert.False(t, found)
}

func TestCacheViewSpendThenGetMiss(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	cache.AddCoin(op, sampleCoin(50), true)

	var spent Coin
	ok := cache.SpendCoin(op, &spent)
	require.True(t, ok)
	assert.Equal(t, int64(50), spent.Out.Value)

	_, found := cache.Get(op)
	assert.False(t, found)
}

func TestCacheViewFreshEntrySpentBeforeFlushLeavesNoTrace(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	cache.AddCoin(op, sampleCoin(50), false) // FRESH, since backend never saw it
	cache.SpendCoin(op, nil)

	require.NoError(t, cache.Flush())

	_, found := backend.Get(op)
	assert.False(t, found, "a coin created and spent within the same cache generation must never reach the backend")
}

func TestCacheViewSpendExistingBackendCoinLeavesTombstone(t *testing.T) {
	backend := newMemView()
	op := wire.OutPoint{Index: 0}
	backend.coins[op] = sampleCoin(50)

	cache := NewCacheView(backend)
	ok := cache.SpendCoin(op, nil)
	require.True(t, ok)
	require.NoError(t, cache.Flush())

	_, found := backend.Get(op)
	assert.False(t, found)
	// The tombstone itself (not a deletion) is what travels to the backend.
	raw, stillKeyed := backend.coins[op]
	require.True(t, stillKeyed)
	assert.True(t, raw.Spent)
}

func TestCacheViewBatchWriteFreshOverUnspentParentPanics(t *testing.T) {
	backend := newMemView()
	parent := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	parent.AddCoin(op, sampleCoin(1), true)

	child := map[wire.OutPoint]*Entry{
		op: {Coin: sampleCoin(2), Flags: EntryDirty | EntryFresh},
	}

	assert.Panics(t, func() {
		_ = parent.BatchWrite(child, chainhash.Hash{})
	})
}

func TestCacheViewBatchWriteChildSpentOverFreshParentErasesEntry(t *testing.T) {
	backend := newMemView()
	parent := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	parent.AddCoin(op, sampleCoin(1), false) // FRESH in parent

	spentCoin := sampleCoin(1)
	spentCoin.Clear()
	child := map[wire.OutPoint]*Entry{
		op: {Coin: spentCoin, Flags: EntryDirty},
	}

	require.NoError(t, parent.BatchWrite(child, chainhash.Hash{}))
	_, found := parent.Get(op)
	assert.False(t, found)
}

func TestCacheViewBatchWriteNonDirtyEntrySkipped(t *testing.T) {
	backend := newMemView()
	parent := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	child := map[wire.OutPoint]*Entry{
		op: {Coin: sampleCoin(1), Flags: 0},
	}

	require.NoError(t, parent.BatchWrite(child, chainhash.Hash{}))
	_, found := parent.Get(op)
	assert.False(t, found)
}

func TestCacheViewFlushPropagatesToBackend(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	coin := sampleCoin(77)
	cache.AddCoin(op, coin, true)

	require.NoError(t, cache.Flush())

	got, found := backend.Get(op)
	require.True(t, found)
	assert.Equal(t, coin, got)
}

func TestCacheViewEstimateSizeGrowsAndShrinks(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	empty := cache.EstimateSize()

	op := wire.OutPoint{Index: 0}
	cache.AddCoin(op, sampleCoin(1), true)
	withOne := cache.EstimateSize()
	assert.Greater(t, withOne, empty)

	cache.SpendCoin(op, nil)
	afterSpend := cache.EstimateSize()
	assert.Less(t, afterSpend, withOne)
}

func TestCacheViewUncacheDropsCleanEntryOnly(t *testing.T) {
	backend := newMemView()
	op := wire.OutPoint{Index: 0}
	backend.coins[op] = sampleCoin(1)

	cache := NewCacheView(backend)
	_, _ = cache.Get(op) // pulls a clean entry into the cache
	cache.Uncache(op)

	// Still resolvable via the backend after uncache.
	_, found := cache.Get(op)
	assert.True(t, found)
}

func TestCacheViewCursorEnumeratesCachedEntries(t *testing.T) {
	backend := newMemView()
	cache := NewCacheView(backend)

	op1 := wire.OutPoint{Index: 0}
	op2 := wire.OutPoint{Index: 1}
	cache.AddCoin(op1, sampleCoin(1), true)
	cache.AddCoin(op2, sampleCoin(2), true)

	seen := map[wire.OutPoint]bool{}
	for c := cache.Cursor(); c.Valid(); c.Next() {
		seen[c.Key()] = true
	}
	assert.True(t, seen[op1])
	assert.True(t, seen[op2])
}

// TestCacheViewFlushMatchesModelAfterRandomOps checks that for any
// sequence of add/spend operations against a small fixed set of
// outpoints, flushing a CacheView to its backend leaves the backend in
// exactly the state Has/Get report for each outpoint on the cache
// itself just before the flush — the FRESH/DIRTY bookkeeping must never
// change what a caller observes, only how cheaply it gets written.
func TestCacheViewFlushMatchesModelAfterRandomOps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		backend := newMemView()
		cache := NewCacheView(backend)

		outpoints := make([]wire.OutPoint, 4)
		for i := range outpoints {
			outpoints[i] = wire.OutPoint{Index: uint32(i)}
		}

		numOps := rapid.IntRange(0, 20).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			op := rapid.SampledFrom(outpoints).Draw(rt, "op")
			if rapid.Bool().Draw(rt, "isAdd") {
				value := rapid.Int64Range(1, 1000).Draw(rt, "value")
				cache.AddCoin(op, sampleCoin(value), true)
			} else {
				cache.SpendCoin(op, nil)
			}
		}

		wantFound := make(map[wire.OutPoint]bool, len(outpoints))
		wantCoin := make(map[wire.OutPoint]Coin, len(outpoints))
		for _, op := range outpoints {
			c, found := cache.Get(op)
			wantFound[op] = found
			wantCoin[op] = c
		}

		if err := cache.Flush(); err != nil {
			rt.Fatalf("Flush: %v", err)
		}

		for _, op := range outpoints {
			gotCoin, gotFound := backend.Get(op)
			if !wantFound[op] {
				if gotFound {
					rt.Fatalf("outpoint %v should be absent from the backend after flush", op)
				}
				continue
			}
			if !gotFound {
				rt.Fatalf("outpoint %v should be present in the backend after flush", op)
			}
			if !reflect.DeepEqual(gotCoin, wantCoin[op]) {
				rt.Fatalf("outpoint %v: backend coin diverged from cached coin:\nbackend: %scached: %s",
					op, spew.Sdump(gotCoin), spew.Sdump(wantCoin[op]))
			}
		}
	})
}

func TestBackedViewDelegatesToBackend(t *testing.T) {
	backend := newMemView()
	op := wire.OutPoint{Index: 0}
	backend.coins[op] = sampleCoin(9)
	backend.best = chainhash.HashH([]byte("tip"))

	bv := NewBackedView(backend)
	got, found := bv.Get(op)
	require.True(t, found)
	assert.Equal(t, int64(9), got.Out.Value)
	assert.True(t, bv.Has(op))
	assert.Equal(t, backend.best, bv.BestBlock())
}
