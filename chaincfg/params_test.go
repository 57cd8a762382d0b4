// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainAndRegressionNetParamsAlreadyRegistered(t *testing.T) {
	assert.True(t, IsPubKeyHashAddrID(MainNetParams.PubKeyHashAddrID))
	assert.True(t, IsScriptHashAddrID(MainNetParams.ScriptHashAddrID))
	assert.True(t, IsBech32SegwitPrefix(MainNetParams.Bech32HRPSegwit+"1"))
}

func TestRegisterRejectsDuplicateNet(t *testing.T) {
	err := Register(&MainNetParams)
	assert.ErrorIs(t, err, ErrDuplicateNet)
}

func TestHDPrivateKeyToPublicKeyID(t *testing.T) {
	pub, err := HDPrivateKeyToPublicKeyID(MainNetParams.HDPrivateKeyID)
	require.NoError(t, err)
	assert.Equal(t, MainNetParams.HDPublicKeyID, pub)
}

func TestHDPrivateKeyToPublicKeyIDUnknown(t *testing.T) {
	_, err := HDPrivateKeyToPublicKeyID([4]byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, ErrUnknownHDKeyID)
}

func TestRegressionNetDiffersFromMainNet(t *testing.T) {
	assert.NotEqual(t, MainNetParams.Net, RegressionNetParams.Net)
	assert.NotEqual(t, MainNetParams.PowLimitBits, RegressionNetParams.PowLimitBits)
	assert.NotEqual(t, MainNetParams.CoinbaseMaturity, RegressionNetParams.CoinbaseMaturity)
}

func TestRegtestIcannKeyHashIsSet(t *testing.T) {
	assert.NotEqual(t, [20]byte{}, RegressionNetParams.IcannRegistrationKeyHash)
}

func TestMainnetIcannKeyHashIsZeroPlaceholder(t *testing.T) {
	assert.Equal(t, [20]byte{}, MainNetParams.IcannRegistrationKeyHash)
}

func TestGenesisBlockIsWiredIntoParams(t *testing.T) {
	require.NotNil(t, MainNetParams.GenesisBlock)
	assert.False(t, MainNetParams.GenesisHash.IsNull())
	assert.Equal(t, MainNetParams.GenesisHash, RegressionNetParams.GenesisHash)
}
