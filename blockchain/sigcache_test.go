// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// regtestIcannPrivKey re-derives the private key RegressionNetParams'
// IcannRegistrationKeyHash is bound to, so tests can produce signatures
// that actually verify against it.
func regtestIcannPrivKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	seed := sha256.Sum256([]byte("bitnames-icann-regtest"))
	priv, _ := btcec.PrivKeyFromBytes(seed[:])
	return priv
}

func signCompact(t *testing.T, priv *btcec.PrivateKey, msg chainhash.Hash) [65]byte {
	t.Helper()
	sig := ecdsa.SignCompact(priv, msg[:], true)
	var out [65]byte
	copy(out[:], sig)
	return out
}

func TestVerifyICANNSignatureValid(t *testing.T) {
	priv := regtestIcannPrivKey(t)
	msg := chainhash.HashH([]byte("alpha.com"))
	sig := signCompact(t, priv, msg)

	ok, err := VerifyICANNSignature(msg, sig, nil, &chaincfg.RegressionNetParams)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyICANNSignatureWrongMessageFails(t *testing.T) {
	priv := regtestIcannPrivKey(t)
	msg := chainhash.HashH([]byte("alpha.com"))
	sig := signCompact(t, priv, msg)

	other := chainhash.HashH([]byte("beta.com"))
	ok, err := VerifyICANNSignature(other, sig, nil, &chaincfg.RegressionNetParams)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyICANNSignatureWrongKeyFails(t *testing.T) {
	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	msg := chainhash.HashH([]byte("alpha.com"))
	sig := signCompact(t, other, msg)

	ok, verr := VerifyICANNSignature(msg, sig, nil, &chaincfg.RegressionNetParams)
	require.NoError(t, verr)
	assert.False(t, ok)
}

func TestVerifyICANNSignatureRejectsWhenKeyHashUnset(t *testing.T) {
	priv := regtestIcannPrivKey(t)
	msg := chainhash.HashH([]byte("alpha.com"))
	sig := signCompact(t, priv, msg)

	_, err := VerifyICANNSignature(msg, sig, nil, &chaincfg.MainNetParams)
	assert.Error(t, err)
}

func TestSigCacheMemoizesValidSignature(t *testing.T) {
	priv := regtestIcannPrivKey(t)
	msg := chainhash.HashH([]byte("alpha.com"))
	sig := signCompact(t, priv, msg)

	cache := NewSigCache(10)
	ok, err := VerifyICANNSignature(msg, sig, cache, &chaincfg.RegressionNetParams)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, cache.has(msg, sig))
}
