// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

func baseLegacyTx() *wire.MutableTransaction {
	m := wire.NewMutableTransaction()
	m.TxIn = []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0}}}
	m.TxOut = []*wire.TxOut{{Value: 100, PkScript: []byte{0x51}}}
	return m
}

func TestCheckTransactionRejectsEmptyInputs(t *testing.T) {
	m := baseLegacyTx()
	m.TxIn = nil
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vin-empty", st.RejectCode)
}

func TestCheckTransactionRejectsEmptyOutputs(t *testing.T) {
	m := baseLegacyTx()
	m.TxOut = nil
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vout-empty", st.RejectCode)
}

func TestCheckTransactionAcceptsOrdinaryTransaction(t *testing.T) {
	tx := buildTx(t, baseLegacyTx())
	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	assert.True(t, st.IsValid())
}

func TestCheckTransactionRejectsDuplicateInputs(t *testing.T) {
	m := baseLegacyTx()
	m.TxIn = append(m.TxIn, &wire.TxIn{PreviousOutPoint: m.TxIn[0].PreviousOutPoint})
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-inputs-duplicate", st.RejectCode)
}

func TestCheckTransactionRejectsNullPrevoutOnNonCoinbase(t *testing.T) {
	m := baseLegacyTx()
	m.TxIn = []*wire.TxIn{
		{PreviousOutPoint: wire.OutPoint{Index: 0}},
		{PreviousOutPoint: wire.OutPoint{Index: wire.MaxOutPointIndex}},
	}
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-prevout-null", st.RejectCode)
}

func TestCheckTransactionRejectsNegativeOutputValue(t *testing.T) {
	m := baseLegacyTx()
	m.TxOut[0].Value = -1
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vout-negative", st.RejectCode)
}

func TestCheckTransactionRejectsOutOfRangeOutputValue(t *testing.T) {
	m := baseLegacyTx()
	m.TxOut[0].Value = int64(wire.MaxMoney) + 1
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vout-toolarge", st.RejectCode)
}

func TestCheckTransactionUpdateRejectsNoFieldsSet(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionUpdateName
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-update-bitname-no-updates", st.RejectCode)
}

func TestCheckTransactionUpdateAcceptsCommitmentOnly(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionUpdateName
	m.TxOut[0].Value = 1 // name-carrying output: 0 or 1 only
	m.HasCommitment = true
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	assert.True(t, st.IsValid())
}

func TestCheckTransactionIcannBatchRejectsDuplicateNames(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionIcannBatch
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}, {Value: 0, PkScript: []byte{0x52}}}
	m.IcannRegistrations = []string{"alpha.com", "alpha.com"}
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-register-icann-bad-registrations", st.RejectCode)
}

func TestCheckTransactionIcannBatchRejectsNonICANNName(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionIcannBatch
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}}
	m.IcannRegistrations = []string{"not-a-real-tld.bogus"}
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-register-icann-invalid-name", st.RejectCode)
}

func TestCheckTransactionIcannBatchRejectsTooFewOutputs(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionIcannBatch
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}}
	m.IcannRegistrations = []string{"alpha.com", "beta.com"}
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-register-icann-bitname-vout-size", st.RejectCode)
}

func TestCheckTransactionSingleICANNSignature(t *testing.T) {
	priv := regtestIcannPrivKey(t)

	m := baseLegacyTx()
	m.Version = wire.TxVersionCreateName
	m.NameHash = chainhash.HashH([]byte("alpha.com"))
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}}
	m.IsIcann = true

	out0Hash := wire.HashTxOut(m.TxOut[0])
	hw := chainhash.NewHashWriter()
	_, _ = hw.Write(m.NameHash.CloneBytes())
	_, _ = hw.Write(out0Hash[:])
	digest := hw.Finalize()

	m.IcannSig = signCompact(t, priv, digest)
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	assert.True(t, st.IsValid())
}

func TestCheckTransactionSingleICANNSignatureRejectsWrongSig(t *testing.T) {
	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	m := baseLegacyTx()
	m.Version = wire.TxVersionCreateName
	m.NameHash = chainhash.HashH([]byte("alpha.com"))
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}}
	m.IsIcann = true

	out0Hash := wire.HashTxOut(m.TxOut[0])
	hw := chainhash.NewHashWriter()
	_, _ = hw.Write(m.NameHash.CloneBytes())
	_, _ = hw.Write(out0Hash[:])
	digest := hw.Finalize()

	m.IcannSig = signCompact(t, other, digest)
	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-icann-sig", st.RejectCode)
}

// A v=10 reservation (NameHash == 0) carrying the wire-serialized IsIcann
// bit is not a registration and must not be forced through the
// single-signature authorization path, even with no IcannSig set.
func TestCheckTransactionReservationWithIcannFlagSkipsSignatureCheck(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionCreateName
	m.TxOut = []*wire.TxOut{{Value: 0, PkScript: []byte{0x51}}}
	m.IsIcann = true

	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	assert.True(t, st.IsValid())
}

func TestCheckTransactionRejectsNameOutputValueAboveOne(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionCreateName
	m.NameHash = chainhash.HashH([]byte("alpha.com"))
	m.TxOut = []*wire.TxOut{{Value: 2, PkScript: []byte{0x51}}}

	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vout-toolarge", st.RejectCode)
}

func TestCheckTransactionRejectsNameOutputNegativeValue(t *testing.T) {
	m := baseLegacyTx()
	m.Version = wire.TxVersionCreateName
	m.NameHash = chainhash.HashH([]byte("alpha.com"))
	m.TxOut = []*wire.TxOut{{Value: -1, PkScript: []byte{0x51}}}

	tx := buildTx(t, m)

	st := CheckTransaction(tx, nil, &chaincfg.RegressionNetParams)
	require.False(t, st.IsValid())
	assert.Equal(t, "bad-txns-vout-negative", st.RejectCode)
}
