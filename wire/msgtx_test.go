// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

func sampleOutPoint(b byte) OutPoint {
	var h chainhash.Hash
	h[0] = b
	return OutPoint{Hash: h, Index: uint32(b)}
}

func TestRoundTripLegacyTransaction(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.ReplayBytes = 0x01
	mtx.AddTxIn(&TxIn{PreviousOutPoint: sampleOutPoint(1), SignatureScript: []byte{0xde, 0xad}, Sequence: 0xffffffff})
	mtx.AddTxOut(&TxOut{Value: 5000, PkScript: []byte{0x51}})
	mtx.LockTime = 42

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.Equal(t, tx.TxHash(), got.TxHash())
	assert.Equal(t, tx.Version(), got.Version())
	assert.Equal(t, tx.LockTime(), got.LockTime())
	assert.Equal(t, tx.TxOut()[0].Value, got.TxOut()[0].Value)
}

func TestRoundTripWitnessTransaction(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.AddTxIn(&TxIn{
		PreviousOutPoint: sampleOutPoint(2),
		SignatureScript:  nil,
		Sequence:         0xffffffff,
		Witness:          [][]byte{{0x01, 0x02}, {0x03}},
	})
	mtx.AddTxOut(&TxOut{Value: 100, PkScript: []byte{0x00}})
	mtx.Memo = []byte("memo")

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	require.Len(t, got.TxIn(), 1)
	assert.Equal(t, [][]byte{{0x01, 0x02}, {0x03}}, got.TxIn()[0].Witness)
	assert.Equal(t, []byte("memo"), got.Memo())

	// The cached txid excludes witness/memo, so it must match a
	// no-witness reserialization even though the witness-bearing
	// encodings differ.
	var noWitBuf bytes.Buffer
	require.NoError(t, got.SerializeNoWitness(&noWitBuf))
	assert.Equal(t, tx.TxHash(), chainhash.DoubleHashH(noWitBuf.Bytes()))
}

func TestRoundTripCreateNameReservation(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.Version = TxVersionCreateName
	mtx.AddTxIn(&TxIn{PreviousOutPoint: sampleOutPoint(3), Sequence: 0xffffffff})
	mtx.AddTxOut(&TxOut{Value: 0, PkScript: []byte{0x6a}})
	mtx.Commitment = chainhash.HashH([]byte("commit"))
	mtx.In4 = 0x01020304

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.True(t, got.IsReservation())
	assert.False(t, got.IsRegistration())
	assert.Equal(t, mtx.Commitment, got.Commitment())
	assert.Equal(t, mtx.In4, got.In4())
}

func TestRoundTripCreateNameRegistrationWithIcann(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.Version = TxVersionCreateName
	mtx.AddTxIn(&TxIn{PreviousOutPoint: sampleOutPoint(4), Sequence: 0xffffffff})
	mtx.AddTxOut(&TxOut{Value: 1, PkScript: []byte{0x6a}})
	mtx.NameHash = chainhash.HashH([]byte("example.com"))
	mtx.Sok = chainhash.HashH([]byte("salt"))
	mtx.IsIcann = true
	mtx.IcannSig[0] = 0xAA

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.True(t, got.IsRegistration())
	assert.True(t, got.IsIcann())
	assert.Equal(t, mtx.IcannSig, got.IcannSig())
}

func TestRoundTripUpdateName(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.Version = TxVersionUpdateName
	mtx.AddTxIn(&TxIn{PreviousOutPoint: sampleOutPoint(5), Sequence: 0xffffffff})
	mtx.AddTxOut(&TxOut{Value: 1, PkScript: []byte{0x6a}})
	mtx.HasIn4 = true
	mtx.In4 = 0xc0a80001

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.True(t, got.IsUpdate())
	assert.True(t, got.HasIn4())
	assert.False(t, got.HasCommitment())
	assert.Equal(t, mtx.In4, got.In4())
}

func TestRoundTripIcannBatch(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.Version = TxVersionIcannBatch
	mtx.AddTxIn(&TxIn{PreviousOutPoint: sampleOutPoint(6), Sequence: 0xffffffff})
	mtx.AddTxOut(&TxOut{Value: 1, PkScript: []byte{0x6a}})
	mtx.AddTxOut(&TxOut{Value: 1, PkScript: []byte{0x6b}})
	mtx.IcannRegistrations = []string{"example.com", "example.org"}

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.True(t, got.IsIcannBatch())
	assert.Equal(t, mtx.IcannRegistrations, got.IcannRegistrations())
}

func TestDeserializeRejectsUnknownFlagBits(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.AddTxOut(&TxOut{Value: 1, PkScript: []byte{0x6a}})
	tx, err := NewTransaction(mtx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeInt32(&buf, tx.Version()))
	buf.Write([]byte{tx.Mutable().ReplayBytes})
	require.NoError(t, writeVarInt(&buf, 0))
	buf.Write([]byte{0x03}) // witness bit set plus an unknown bit

	_, err = Deserialize(&buf)
	assert.Error(t, err)
}

func TestIsCoinBase(t *testing.T) {
	mtx := NewMutableTransaction()
	mtx.AddTxIn(&TxIn{PreviousOutPoint: OutPoint{Index: MaxOutPointIndex}, SignatureScript: []byte{0x00, 0x00}})
	mtx.AddTxOut(&TxOut{Value: 0, PkScript: []byte{0x6a}})

	tx, err := NewTransaction(mtx)
	require.NoError(t, err)
	assert.True(t, tx.IsCoinBase())
}

// TestRoundTripProperty exercises every transaction version against
// random inputs and outputs, checking that serialize/deserialize is a
// lossless round trip and that the cached txid is stable across it.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mtx := NewMutableTransaction()
		mtx.Version = rapid.SampledFrom([]int32{TxVersionLegacy, TxVersionCreateName, TxVersionUpdateName, TxVersionIcannBatch}).Draw(rt, "version")

		numIn := rapid.IntRange(1, 3).Draw(rt, "numIn")
		for i := 0; i < numIn; i++ {
			mtx.AddTxIn(&TxIn{
				PreviousOutPoint: sampleOutPoint(byte(i + 1)),
				SignatureScript:  rapid.SliceOfN(rapid.Byte(), 0, 8).Draw(rt, "sigScript"),
				Sequence:         rapid.Uint32().Draw(rt, "sequence"),
			})
		}

		numOut := rapid.IntRange(1, 3).Draw(rt, "numOut")
		for i := 0; i < numOut; i++ {
			mtx.AddTxOut(&TxOut{
				Value:    rapid.Int64Range(0, 1_000_000).Draw(rt, "value"),
				PkScript: rapid.SliceOfN(rapid.Byte(), 0, 8).Draw(rt, "pkScript"),
			})
		}
		mtx.LockTime = rapid.Uint32().Draw(rt, "lockTime")

		if mtx.Version == TxVersionIcannBatch {
			n := rapid.IntRange(0, len(mtx.TxOut)).Draw(rt, "numRegs")
			regs := make([]string, n)
			for i := range regs {
				regs[i] = rapid.StringMatching(`[a-z]{3,10}\.com`).Draw(rt, "reg")
			}
			mtx.IcannRegistrations = regs
		}

		tx, err := NewTransaction(mtx)
		if err != nil {
			rt.Fatalf("NewTransaction: %v", err)
		}

		var buf bytes.Buffer
		if err := tx.Serialize(&buf); err != nil {
			rt.Fatalf("Serialize: %v", err)
		}

		got, err := Deserialize(&buf)
		if err != nil {
			rt.Fatalf("Deserialize: %v", err)
		}

		if got.TxHash() != tx.TxHash() {
			rt.Fatalf("txid mismatch after round trip")
		}
	})
}
