// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

func openTestLevelDBView(t *testing.T) *LevelDBView {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "utxo.db")
	view, err := OpenLevelDBView(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = view.Close() })
	return view
}

func TestLevelDBViewPutAndGet(t *testing.T) {
	view := openTestLevelDBView(t)

	op := wire.OutPoint{Index: 0}
	coin := sampleCoin(42)
	tip := chainhash.HashH([]byte("tip"))

	require.NoError(t, view.BatchWrite(map[wire.OutPoint]*Entry{op: {Coin: coin}}, tip))

	got, found := view.Get(op)
	require.True(t, found)
	assert.Equal(t, coin, got)
	assert.Equal(t, tip, view.BestBlock())
}

func TestLevelDBViewDeleteOnSpent(t *testing.T) {
	view := openTestLevelDBView(t)

	op := wire.OutPoint{Index: 0}
	coin := sampleCoin(42)
	require.NoError(t, view.BatchWrite(map[wire.OutPoint]*Entry{op: {Coin: coin}}, chainhash.Hash{}))

	spent := coin
	spent.Clear()
	require.NoError(t, view.BatchWrite(map[wire.OutPoint]*Entry{op: {Coin: spent}}, chainhash.Hash{}))

	_, found := view.Get(op)
	assert.False(t, found)
}

func TestLevelDBViewCursorEnumeratesAll(t *testing.T) {
	view := openTestLevelDBView(t)

	entries := map[wire.OutPoint]*Entry{
		{Index: 0}: {Coin: sampleCoin(1)},
		{Index: 1}: {Coin: sampleCoin(2)},
	}
	require.NoError(t, view.BatchWrite(entries, chainhash.Hash{}))

	count := 0
	for c := view.Cursor(); c.Valid(); c.Next() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestLevelDBViewHeadBlocksEmptyWhenNoTip(t *testing.T) {
	view := openTestLevelDBView(t)
	assert.Nil(t, view.HeadBlocks())
}

func TestLevelDBViewCacheViewRoundTrip(t *testing.T) {
	backend := openTestLevelDBView(t)
	cache := NewCacheView(backend)

	op := wire.OutPoint{Index: 0}
	coin := sampleCoin(99)
	cache.AddCoin(op, coin, true)
	require.NoError(t, cache.Flush())

	got, found := backend.Get(op)
	require.True(t, found)
	assert.Equal(t, coin, got)
}
