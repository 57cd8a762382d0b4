// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// AddCoins lifts every output of tx into the view at the given height,
// tagging each with its BitName asset identity per the transaction's
// version. possibleOverwrite should be true for coinbase transactions and
// for any already-applied transaction being re-added under check=true;
// it is otherwise false, asserting the txid cannot already be present.
//
// updateAssetID is consulted only for v=11 update transactions, where it
// must be the asset id of the coin the transaction's last input spent
// (resolved by CheckTxInputs before the spend is applied); it is ignored
// for every other version.
func AddCoins(v *CacheView, tx *wire.Transaction, height uint32, possibleOverwrite bool, updateAssetID chainhash.Hash) {
	isCoinBase := tx.IsCoinBase()
	txid := tx.TxHash()

	switch tx.Version() {
	case wire.TxVersionCreateName:
		addCreateNameCoins(v, tx, txid, height, isCoinBase, possibleOverwrite)

	case wire.TxVersionUpdateName:
		addUpdateNameCoins(v, tx, txid, height, isCoinBase, possibleOverwrite, updateAssetID)

	case wire.TxVersionIcannBatch:
		addIcannBatchCoins(v, tx, txid, height, isCoinBase, possibleOverwrite)

	default:
		for i, out := range tx.TxOut() {
			op := wire.OutPoint{Hash: txid, Index: uint32(i)}
			v.AddCoin(op, NewCoin(*out, height, isCoinBase, false, false, chainhash.Hash{}, chainhash.Hash{}), possibleOverwrite)
		}
	}
}

// addCreateNameCoins handles v=10: a reservation (NameHash == 0) tags
// output 0 as a reservation keyed by its own txid; a registration
// (NameHash != 0) tags output 0 as a holder keyed by the name hash. All
// other outputs are ordinary.
func addCreateNameCoins(v *CacheView, tx *wire.Transaction, txid chainhash.Hash, height uint32, isCoinBase, possibleOverwrite bool) {
	isReservation := tx.NameHash().IsNull()

	for i, out := range tx.TxOut() {
		op := wire.OutPoint{Hash: txid, Index: uint32(i)}

		if i == 0 {
			var assetID chainhash.Hash
			if isReservation {
				assetID = txid
			} else {
				assetID = tx.NameHash()
			}
			coin := NewCoin(*out, height, isCoinBase, isReservation, !isReservation, assetID, tx.Commitment())
			v.AddCoin(op, coin, possibleOverwrite)
			continue
		}

		v.AddCoin(op, NewCoin(*out, height, isCoinBase, false, false, chainhash.Hash{}, chainhash.Hash{}), possibleOverwrite)
	}
}

// addUpdateNameCoins handles v=11: output 0 becomes the new holder coin,
// carrying forward the asset id of the coin the transaction's last input
// spent.
func addUpdateNameCoins(v *CacheView, tx *wire.Transaction, txid chainhash.Hash, height uint32, isCoinBase, possibleOverwrite bool, updateAssetID chainhash.Hash) {
	for i, out := range tx.TxOut() {
		op := wire.OutPoint{Hash: txid, Index: uint32(i)}
		if i == 0 {
			coin := NewCoin(*out, height, isCoinBase, false, true, updateAssetID, tx.Commitment())
			v.AddCoin(op, coin, possibleOverwrite)
			continue
		}
		v.AddCoin(op, NewCoin(*out, height, isCoinBase, false, false, chainhash.Hash{}, chainhash.Hash{}), possibleOverwrite)
	}
}

// addIcannBatchCoins handles v=12: outputs [0, len(registrations)) become
// holder coins for the corresponding plaintext name, keyed by
// SHA256d(registration). All remaining outputs are ordinary.
func addIcannBatchCoins(v *CacheView, tx *wire.Transaction, txid chainhash.Hash, height uint32, isCoinBase, possibleOverwrite bool) {
	regs := tx.IcannRegistrations()

	for i, out := range tx.TxOut() {
		op := wire.OutPoint{Hash: txid, Index: uint32(i)}

		if i < len(regs) {
			assetID := chainhash.DoubleHashH([]byte(regs[i]))
			coin := NewCoin(*out, height, isCoinBase, false, true, assetID, chainhash.Hash{})
			v.AddCoin(op, coin, possibleOverwrite)
			continue
		}

		v.AddCoin(op, NewCoin(*out, height, isCoinBase, false, false, chainhash.Hash{}, chainhash.Hash{}), possibleOverwrite)
	}
}
