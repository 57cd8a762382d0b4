// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"

	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// WitnessScaleFactor weights witness bytes against the rest of a
// transaction when computing block weight.
const WitnessScaleFactor = 4

// MaxBlockWeight bounds a block's total weight; a single transaction can
// never legally exceed it.
const MaxBlockWeight = 4_000_000

// CheckTransaction applies the context-free structural, size, value-range
// and name-format checks a transaction must pass before its inputs are
// ever consulted against a view.
func CheckTransaction(tx *wire.Transaction, sigCache *SigCache, params *chaincfg.Params) ValidationState {
	if len(tx.TxIn()) == 0 {
		return Invalid(10, "bad-txns-vin-empty", "transaction has no inputs")
	}
	if len(tx.TxOut()) == 0 {
		return Invalid(10, "bad-txns-vout-empty", "transaction has no outputs")
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return Invalid(100, "bad-txns-oversize", "transaction failed to serialize")
	}
	if buf.Len()*WitnessScaleFactor > MaxBlockWeight {
		return Invalid(100, "bad-txns-oversize", "transaction exceeds maximum block weight")
	}

	switch tx.Version() {
	case wire.TxVersionCreateName:
		if len(tx.TxOut()) < 1 {
			return Invalid(10, "bad-txns-create-bitname-vout-size", "create-name transaction needs at least one output")
		}

	case wire.TxVersionUpdateName:
		if len(tx.TxOut()) < 1 {
			return Invalid(10, "bad-txns-create-bitname-vout-size", "update transaction needs at least one output")
		}
		if !tx.HasCommitment() && !tx.HasIn4() && !tx.HasCpk() {
			return Invalid(10, "bad-txns-update-bitname-no-updates", "update transaction sets no field")
		}

	case wire.TxVersionIcannBatch:
		regs := tx.IcannRegistrations()
		if len(tx.TxOut()) < len(regs) {
			return Invalid(10, "bad-txns-register-icann-bitname-vout-size", "icann batch has fewer outputs than registrations")
		}
		if st := checkICANNRegistrations(regs); !st.IsValid() {
			return st
		}
	}

	// A null NameHash marks a reservation, not a registration; IsIcann is
	// meaningless on a reservation and is ignored rather than enforced.
	if tx.Version() == wire.TxVersionCreateName && tx.IsIcann() && !tx.NameHash().IsNull() {
		if st := checkSingleICANNSignature(tx, sigCache, params); !st.IsValid() {
			return st
		}
	}
	if tx.Version() == wire.TxVersionIcannBatch {
		// Batch authorization is verified in CheckTxInputs, where the
		// holder-prefix outpoints and registration outputs it commits to
		// are available.
	}

	if st := checkOutputValues(tx); !st.IsValid() {
		return st
	}

	seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn()))
	for _, in := range tx.TxIn() {
		if _, dup := seen[in.PreviousOutPoint]; dup {
			return Invalid(100, "bad-txns-inputs-duplicate", "duplicate transaction inputs")
		}
		seen[in.PreviousOutPoint] = struct{}{}
	}

	if tx.IsCoinBase() {
		scriptLen := len(tx.TxIn()[0].SignatureScript)
		if scriptLen < 2 || scriptLen > 100 {
			return Invalid(100, "bad-cb-length", "coinbase script length out of range")
		}
	} else {
		for _, in := range tx.TxIn() {
			if in.PreviousOutPoint.IsNull() {
				return Invalid(10, "bad-txns-prevout-null", "non-coinbase input has null prevout")
			}
		}
	}

	return Valid()
}

// checkICANNRegistrations validates the plaintext names of a v=12 batch:
// each must be ICANN-well-formed and hash to a pairwise-distinct asset id.
func checkICANNRegistrations(regs []string) ValidationState {
	seen := make(map[chainhash.Hash]struct{}, len(regs))
	for _, name := range regs {
		if !IsICANNName(name) {
			return Invalid(10, "bad-txns-register-icann-invalid-name", "registration name is not ICANN well-formed")
		}
		h := chainhash.DoubleHashH([]byte(name))
		if _, dup := seen[h]; dup {
			return Invalid(10, "bad-txns-register-icann-bad-registrations", "duplicate registration name in batch")
		}
		seen[h] = struct{}{}
	}
	return Valid()
}

// checkSingleICANNSignature validates the single-registration ICANN
// authorization path: a v=10 registration carrying IsIcann, signed over
// SHA256(name_hash || SHA256d(serialize(outputs[0]))).
func checkSingleICANNSignature(tx *wire.Transaction, sigCache *SigCache, params *chaincfg.Params) ValidationState {
	if len(tx.TxOut()) == 0 {
		return Invalid(100, "bad-icann-sig", "icann registration has no outputs to authorize")
	}

	out0Hash := wire.HashTxOut(tx.TxOut()[0])

	hw := chainhash.NewHashWriter()
	_, _ = hw.Write(tx.NameHash().CloneBytes())
	_, _ = hw.Write(out0Hash[:])
	m := hw.Finalize()

	ok, err := VerifyICANNSignature(m, tx.IcannSig(), sigCache, params)
	if err != nil || !ok {
		return Invalid(100, "bad-icann-sig", "icann authorization signature invalid")
	}
	return Valid()
}

// checkOutputValues enforces the per-output and running-sum value-range
// rules: name-carrying outputs must be worth 0 or 1, everything else must
// stay within MoneyRange and the running total must never overflow.
func checkOutputValues(tx *wire.Transaction) ValidationState {
	nameOutputs := nameCarryingOutputCount(tx)

	var total wire.Amount
	for i, out := range tx.TxOut() {
		value := wire.Amount(out.Value)

		if i < nameOutputs {
			if value < 0 {
				return Invalid(100, "bad-txns-vout-negative", "name-carrying output value must be 0 or 1")
			}
			if value > 1 {
				return Invalid(100, "bad-txns-vout-toolarge", "name-carrying output value must be 0 or 1")
			}
			continue
		}

		if value < 0 {
			return Invalid(100, "bad-txns-vout-negative", "transaction output has negative value")
		}
		if !wire.MoneyRange(value) {
			return Invalid(100, "bad-txns-vout-toolarge", "transaction output value out of range")
		}

		total += value
		if !wire.MoneyRange(total) {
			return Invalid(100, "bad-txns-txouttotal-toolarge", "total transaction output value out of range")
		}
	}
	return Valid()
}

// nameCarryingOutputCount returns how many leading outputs are
// name-carrying for the transaction's version: one for v=10/v=11, or the
// registration count for v=12.
func nameCarryingOutputCount(tx *wire.Transaction) int {
	switch tx.Version() {
	case wire.TxVersionCreateName, wire.TxVersionUpdateName:
		return 1
	case wire.TxVersionIcannBatch:
		return len(tx.IcannRegistrations())
	default:
		return 0
	}
}
