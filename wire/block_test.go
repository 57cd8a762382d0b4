// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockHashDeterministic(t *testing.T) {
	h := BlockHeader{
		Version:    2,
		Timestamp:  time.Unix(1_700_000_000, 0),
		Bits:       0x1d00ffff,
		Nonce:      42,
	}

	a := h.BlockHash()
	b := h.BlockHash()
	assert.Equal(t, a, b)
}

func TestBlockHashSensitiveToNonce(t *testing.T) {
	h1 := BlockHeader{Timestamp: time.Unix(1, 0), Bits: 1, Nonce: 1}
	h2 := h1
	h2.Nonce = 2

	assert.NotEqual(t, h1.BlockHash(), h2.BlockHash())
}

func TestBlockSerializeIncludesTransactions(t *testing.T) {
	m := NewMutableTransaction()
	m.TxIn = []*TxIn{{PreviousOutPoint: OutPoint{Index: MaxOutPointIndex}}}
	m.TxOut = []*TxOut{{Value: 0, PkScript: []byte{0x6a}}}
	tx, err := NewTransaction(m)
	require.NoError(t, err)

	block := &Block{
		Header:       BlockHeader{Timestamp: time.Unix(1, 0)},
		Transactions: []*Transaction{tx},
	}

	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))
	assert.Greater(t, buf.Len(), 0)
}
