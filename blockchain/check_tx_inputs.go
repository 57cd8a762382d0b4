// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// TxInputsResult carries the outputs of a successful CheckTxInputs call
// that AddCoins needs to finish applying the transaction: the fee paid,
// and — for a v=11 update — the asset id the new holder coin inherits.
type TxInputsResult struct {
	Fee           wire.Amount
	UpdateAssetID chainhash.Hash
}

// CheckTxInputs applies the input-aware consensus checks: coin
// availability, coinbase maturity, reservation-to-registration commitment
// binding, update asset continuity, ICANN batch authorization, positional
// asset constraints, and fee accounting. All coins tx spends must already
// be resolvable (unspent) in view.
func CheckTxInputs(view *CacheView, tx *wire.Transaction, spendHeight uint32, sigCache *SigCache, params *chaincfg.Params) (TxInputsResult, ValidationState) {
	coins := make([]Coin, len(tx.TxIn()))
	for i, in := range tx.TxIn() {
		coin, ok := view.Get(in.PreviousOutPoint)
		if !ok {
			return TxInputsResult{}, Invalid(100, "bad-txns-inputs-missingorspent", "inputs missing or spent")
		}
		coins[i] = coin
	}

	var result TxInputsResult

	switch tx.Version() {
	case wire.TxVersionCreateName:
		if !tx.NameHash().IsNull() {
			last := coins[len(coins)-1]
			if !last.IsReservation {
				return TxInputsResult{}, Invalid(10, "bad-txns-inputs-missing-reservation", "last input is not a reservation coin")
			}
			h := BindCommitment(tx.NameHash(), tx.Sok())
			if last.Commitment != h {
				return TxInputsResult{}, Invalid(10, "bad-txns-inputs-wrong-commitment", "reservation commitment does not match name_hash/sok")
			}
		}

	case wire.TxVersionUpdateName:
		last := coins[len(coins)-1]
		if !last.CarriesName() {
			return TxInputsResult{}, Invalid(10, "bad-txns-inputs-missing-bitname", "last input is not a bitname coin")
		}
		result.UpdateAssetID = last.AssetID

	case wire.TxVersionIcannBatch:
		if st := checkICANNBatchAuthorization(tx, coins, sigCache, params); !st.IsValid() {
			return TxInputsResult{}, st
		}
	}

	var valueIn wire.Amount
	for i, coin := range coins {
		if coin.IsCoinBase && int64(spendHeight)-int64(coin.Height) < int64(params.CoinbaseMaturity) {
			return TxInputsResult{}, Invalid(0, "bad-txns-premature-spend-of-coinbase", "tried to spend immature coinbase")
		}

		if coin.AssetID.IsNull() {
			valueIn += wire.Amount(coin.Out.Value)
		}
		if !wire.MoneyRange(wire.Amount(coin.Out.Value)) || !wire.MoneyRange(valueIn) {
			return TxInputsResult{}, Invalid(100, "bad-txns-inputvalues-outofrange", "input value out of range")
		}

		if tx.Version() == wire.TxVersionCreateName || tx.Version() == wire.TxVersionUpdateName {
			if !coin.AssetID.IsNull() && i != len(coins)-1 {
				return TxInputsResult{}, Invalid(10, "bad-txns-inputs-unexpected-assets", "asset-bearing input is not the last input")
			}
		}
	}

	var valueOut wire.Amount
	for _, out := range tx.TxOut() {
		valueOut += wire.Amount(out.Value)
	}

	if valueIn < valueOut {
		return TxInputsResult{}, Invalid(100, "bad-txns-in-belowout", "total input value is less than total output value")
	}

	fee := valueIn - valueOut
	if !wire.MoneyRange(fee) {
		return TxInputsResult{}, Invalid(100, "bad-txns-fee-outofrange", "transaction fee out of range")
	}
	result.Fee = fee

	return result, Valid()
}

// checkICANNBatchAuthorization validates the v=12 authorization path: a
// contiguous prefix of holder-coin inputs, one per registration in order,
// followed only by ordinary coins, with a signature over the committed
// outpoints/outputs/registrations recoverable to the chain's designated
// ICANN registration key.
func checkICANNBatchAuthorization(tx *wire.Transaction, coins []Coin, sigCache *SigCache, params *chaincfg.Params) ValidationState {
	regs := tx.IcannRegistrations()

	var holderOutpoints []wire.OutPoint
	bitcoinInputSeen := false
	for i, in := range tx.TxIn() {
		coin := coins[i]
		if coin.CarriesName() {
			if bitcoinInputSeen {
				return Invalid(10, "bad-txns-inputs-unexpected-bitname", "bitname input follows an ordinary input")
			}
			if i >= len(regs) {
				return Invalid(10, "bad-txns-inputs-missing-registration", "bitname input has no corresponding registration")
			}
			want := chainhash.DoubleHashH([]byte(regs[i]))
			if want != coin.AssetID {
				return Invalid(10, "bad-txns-inputs-wrong-registration", "bitname input asset id does not match its registration")
			}
			holderOutpoints = append(holderOutpoints, in.PreviousOutPoint)
		} else {
			bitcoinInputSeen = true
		}
	}

	if len(tx.TxOut()) < len(regs) {
		return Invalid(10, "bad-txns-register-icann-bitname-vout-size", "fewer outputs than registrations")
	}
	registrationOutputs := tx.TxOut()[:len(regs)]

	hw := chainhash.NewHashWriter()
	versionBytes := [4]byte{
		byte(tx.Version()), byte(tx.Version() >> 8), byte(tx.Version() >> 16), byte(tx.Version() >> 24),
	}
	_, _ = hw.Write(versionBytes[:])

	outpointsHash := wire.HashOutPoints(holderOutpoints)
	_, _ = hw.Write(outpointsHash[:])

	outputsHash := wire.HashTxOuts(registrationOutputs)
	_, _ = hw.Write(outputsHash[:])

	lockTime := tx.LockTime()
	lockTimeBytes := [4]byte{
		byte(lockTime), byte(lockTime >> 8), byte(lockTime >> 16), byte(lockTime >> 24),
	}
	_, _ = hw.Write(lockTimeBytes[:])

	registrationsHash := wire.HashStrings(regs)
	_, _ = hw.Write(registrationsHash[:])

	auth := hw.Finalize()

	ok, err := VerifyICANNSignature(auth, tx.IcannSig(), sigCache, params)
	if err != nil || !ok {
		return Invalid(100, "bad-icann-sig", "icann batch authorization signature invalid")
	}
	return Valid()
}
