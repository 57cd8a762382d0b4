// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the per-network parameters a BitNames node
// needs to differentiate main net from regtest: magic bytes, address
// prefixes, genesis block and the ICANN registration authority's key
// hash.
package chaincfg

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/genesis"
	"github.com/bitnamesd/sidechain/wire"
)

// Net represents which BitNames network a message belongs to.
type Net uint32

const (
	// MainNet is the main BitNames sidechain network.
	MainNet Net = 0xb17a0001

	// RegressionNet is the regression test network.
	RegressionNet Net = 0xb17a0002
)

var (
	mainPowLimit  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1))
	regtestPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
)

// Checkpoint identifies a known-good block, used to speed up and harden
// initial sync. Checkpoint validation itself is the block-level
// validator's concern; Params only carries the data.
type Checkpoint struct {
	Height int32
	Hash   chainhash.Hash
}

// DNSSeed identifies a DNS seed used for peer discovery.
type DNSSeed struct {
	Host         string
	HasFiltering bool
}

// String returns the seed's hostname.
func (d DNSSeed) String() string { return d.Host }

// Params defines a BitNames network by the parameters that distinguish
// it from any other: magic bytes, genesis block, address encodings, and
// the ICANN batch-registration authority's key hash.
//
// Soft-fork deployment voting (BIP9) and mining/difficulty-retargeting
// policy belong to the external block-level validator and are not
// modeled here; see DESIGN.md.
type Params struct {
	Name        string
	Net         Net
	DefaultPort string
	DNSSeeds    []DNSSeed

	GenesisBlock *wire.Block
	GenesisHash  chainhash.Hash

	PowLimit     *big.Int
	PowLimitBits uint32

	// CoinbaseMaturity is the number of blocks a coinbase output must
	// age before CheckTxInputs will allow it to be spent.
	CoinbaseMaturity uint16

	TargetTimespan     time.Duration
	TargetTimePerBlock time.Duration

	Checkpoints []Checkpoint

	RelayNonStdTxs bool

	Bech32HRPSegwit string

	PubKeyHashAddrID        byte
	ScriptHashAddrID        byte
	PrivateKeyID            byte
	WitnessPubKeyHashAddrID byte
	WitnessScriptHashAddrID byte

	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte
	HDCoinType     uint32

	// IcannRegistrationKeyHash is Hash160(compressed pubkey) of the sole
	// key authorized to sign ICANN single-name and batch registrations.
	// On regtest it is derived from a fixed passphrase; on mainnet it is
	// a placeholder zero value pending real issuance (see DESIGN.md).
	IcannRegistrationKeyHash [20]byte
}

func mustGenesis() (*wire.Block, chainhash.Hash) {
	block, err := genesis.CreateGenesisBlock()
	if err != nil {
		panic("chaincfg: failed to build genesis block: " + err.Error())
	}
	return block, block.Header.BlockHash()
}

// regtestIcannKeyHash is Hash160 of the compressed secp256k1 public key
// derived from the fixed regtest passphrase "bitnames-icann-regtest"
// (private key = SHA256 of the passphrase), matching the deterministic
// authority key the original implementation's test harness signs batch
// registrations with.
var regtestIcannKeyHash = [20]byte{
	0x78, 0x1e, 0x41, 0xa2, 0x42, 0xd0, 0x16, 0x31, 0x57, 0xf2,
	0x2c, 0x78, 0x7f, 0x3a, 0x89, 0x8a, 0xc6, 0x85, 0x22, 0xfd,
}

// MainNetParams defines the parameters for the main BitNames network.
var MainNetParams = newMainNetParams()

func newMainNetParams() Params {
	block, hash := mustGenesis()
	return Params{
		Name:        "mainnet",
		Net:         MainNet,
		DefaultPort: "8434",
		DNSSeeds: []DNSSeed{
			{Host: "seed1.bitnames.network", HasFiltering: true},
			{Host: "seed2.bitnames.network", HasFiltering: true},
		},

		GenesisBlock: block,
		GenesisHash:  hash,

		PowLimit:     mainPowLimit,
		PowLimitBits: 0x1d00ffff,

		CoinbaseMaturity: 100,

		TargetTimespan:     time.Hour * 24,
		TargetTimePerBlock: time.Minute * 5,

		Checkpoints: nil,

		RelayNonStdTxs: false,

		Bech32HRPSegwit: "bn",

		PubKeyHashAddrID:        0x19,
		ScriptHashAddrID:        0x1c,
		PrivateKeyID:            0x99,
		WitnessPubKeyHashAddrID: 0x06,
		WitnessScriptHashAddrID: 0x0a,

		HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4},
		HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e},
		HDCoinType:     8434,

		// Placeholder: mainnet has not yet disclosed its registration
		// authority key. CheckTxInputs fails closed (rejects every
		// ICANN-authorized transaction) until this is set to the real
		// key hash at launch.
		IcannRegistrationKeyHash: [20]byte{},
	}
}

// RegressionNetParams defines the parameters for the regression test
// network.
var RegressionNetParams = newRegressionNetParams()

func newRegressionNetParams() Params {
	p := newMainNetParams()
	p.Name = "regtest"
	p.Net = RegressionNet
	p.DefaultPort = "18434"
	p.DNSSeeds = nil
	p.PowLimit = regtestPowLimit
	p.PowLimitBits = 0x207fffff
	p.CoinbaseMaturity = 1
	p.RelayNonStdTxs = true
	p.IcannRegistrationKeyHash = regtestIcannKeyHash
	return p
}

var (
	// ErrDuplicateNet is returned by Register when a network is already
	// registered.
	ErrDuplicateNet = errors.New("chaincfg: duplicate network")

	// ErrUnknownHDKeyID is returned by HDPrivateKeyToPublicKeyID for an
	// unregistered private extended key id.
	ErrUnknownHDKeyID = errors.New("chaincfg: unknown hd private extended key bytes")

	// ErrInvalidHDKeyID is returned for malformed HD key id bytes.
	ErrInvalidHDKeyID = errors.New("chaincfg: invalid hd extended key version bytes")
)

var (
	registeredNets       = make(map[Net]struct{})
	pubKeyHashAddrIDs    = make(map[byte]struct{})
	scriptHashAddrIDs    = make(map[byte]struct{})
	bech32SegwitPrefixes = make(map[string]struct{})
	hdPrivToPubKeyIDs    = make(map[[4]byte][4]byte)
)

// Register records params as a known network so address- and
// extended-key-decoding helpers elsewhere in the module can recognize
// it. It is an error to register the same network twice.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = struct{}{}
	scriptHashAddrIDs[params.ScriptHashAddrID] = struct{}{}

	if err := RegisterHDKeyID(params.HDPublicKeyID, params.HDPrivateKeyID); err != nil {
		return err
	}

	bech32SegwitPrefixes[params.Bech32HRPSegwit+"1"] = struct{}{}
	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("chaincfg: failed to register network: " + err.Error())
	}
}

// IsPubKeyHashAddrID reports whether id prefixes a P2PKH address on any
// registered network.
func IsPubKeyHashAddrID(id byte) bool {
	_, ok := pubKeyHashAddrIDs[id]
	return ok
}

// IsScriptHashAddrID reports whether id prefixes a P2SH address on any
// registered network.
func IsScriptHashAddrID(id byte) bool {
	_, ok := scriptHashAddrIDs[id]
	return ok
}

// IsBech32SegwitPrefix reports whether prefix (including the trailing
// "1" separator) is known on any registered network.
func IsBech32SegwitPrefix(prefix string) bool {
	_, ok := bech32SegwitPrefixes[strings.ToLower(prefix)]
	return ok
}

// RegisterHDKeyID registers a public/private hierarchical deterministic
// extended key id pair.
func RegisterHDKeyID(hdPublicKeyID, hdPrivateKeyID [4]byte) error {
	hdPrivToPubKeyIDs[hdPrivateKeyID] = hdPublicKeyID
	return nil
}

// HDPrivateKeyToPublicKeyID returns the public key id registered for the
// given private key id.
func HDPrivateKeyToPublicKeyID(id [4]byte) ([4]byte, error) {
	pub, ok := hdPrivToPubKeyIDs[id]
	if !ok {
		return [4]byte{}, ErrUnknownHDKeyID
	}
	return pub, nil
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&RegressionNetParams)
}
