// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis builds the fixed genesis block each BitNames network
// bootstraps its chain state from.
package genesis

import (
	"crypto/sha256"
	"time"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/txscript"
	"github.com/bitnamesd/sidechain/wire"
)

// ConstitutionText is the fixed charter text the genesis coinbase commits
// to. It is never interpreted by consensus; only its hash is checked.
const ConstitutionText = `
BitNames Sidechain Constitutional Principles (Immutable)

1. Single Purpose: bind human-readable names to on-chain identity, nothing more
2. No premine, no privileged registrar, pure fair launch
3. Names are earned through reservation and proof of commitment, never auctioned by the chain itself
4. ICANN-rooted names are the one privileged path, gated by a single disclosed key
5. Boring by design: stability and predictability over novelty

Launch Commitment: January 1, 2026, 00:00 UTC
No premine. No special allocations. No privileged parties beyond the disclosed ICANN registration key.
`

// CreateGenesisBlock assembles the fixed genesis block: a single
// unspendable, zero-value coinbase output whose signature script commits
// to the hash of ConstitutionText plus a timestamp proof.
func CreateGenesisBlock() (*wire.Block, error) {
	constitutionHash := sha256.Sum256([]byte(ConstitutionText))

	genesisMessage := []byte("BitNames Sidechain Genesis - Fair Launch January 1, 2026")
	genesisMessage = append(genesisMessage, constitutionHash[:]...)

	timestampProof := []byte("FT 2025-12-31: Central Banks Accelerate Gold Buying as Dollar Weaponization Concerns Mount")
	genesisMessage = append(genesisMessage, timestampProof...)

	mtx := wire.NewMutableTransaction()
	mtx.Version = wire.TxVersionLegacy
	mtx.AllowWitness = false
	mtx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.MaxOutPointIndex},
		SignatureScript:  genesisMessage,
		Sequence:         0xffffffff,
	})
	mtx.AddTxOut(&wire.TxOut{
		Value:    0,
		PkScript: []byte{txscript.OP_RETURN},
	})

	coinbase, err := wire.NewTransaction(mtx)
	if err != nil {
		return nil, err
	}

	header := wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: coinbase.TxHash(),
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Bits:       0x1d00ffff,
		Nonce:      0,
	}

	return &wire.Block{
		Header:       header,
		Transactions: []*wire.Transaction{coinbase},
	}, nil
}

// GenesisHash returns the hash of the genesis block header.
func GenesisHash() (chainhash.Hash, error) {
	block, err := CreateGenesisBlock()
	if err != nil {
		return chainhash.Hash{}, err
	}
	return block.Header.BlockHash(), nil
}

// ConstitutionHash returns the SHA256 hash of ConstitutionText.
func ConstitutionHash() [32]byte {
	return sha256.Sum256([]byte(ConstitutionText))
}

// VerifyConstitutionCommitment reports whether block's coinbase signature
// script contains the constitution hash.
func VerifyConstitutionCommitment(block *wire.Block) bool {
	if len(block.Transactions) == 0 {
		return false
	}
	coinbase := block.Transactions[0]
	if len(coinbase.TxIn()) == 0 {
		return false
	}

	script := coinbase.TxIn()[0].SignatureScript
	want := ConstitutionHash()

	for i := 0; i+len(want) <= len(script); i++ {
		if bytesEqual(script[i:i+len(want)], want[:]) {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
