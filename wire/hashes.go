// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// HashOutPoints returns SHA256d of the canonical count-prefixed encoding
// of ops, used to commit to the set of name-bearing inputs an ICANN
// batch-registration authorization signs over.
func HashOutPoints(ops []OutPoint) chainhash.Hash {
	var buf bytes.Buffer
	_ = writeVarInt(&buf, uint64(len(ops)))
	for _, op := range ops {
		_, _ = buf.Write(op.Hash[:])
		_ = writeUint32(&buf, op.Index)
	}
	return chainhash.DoubleHashH(buf.Bytes())
}

// HashTxOut returns SHA256d of a single output's canonical encoding, used
// to commit to the registration output a single v=10 ICANN authorization
// signs over.
func HashTxOut(out *TxOut) chainhash.Hash {
	var buf bytes.Buffer
	_ = writeTxOut(&buf, out)
	return chainhash.DoubleHashH(buf.Bytes())
}

// HashTxOuts returns SHA256d of the canonical count-prefixed encoding of
// outs, used to commit to the registration outputs an ICANN
// batch-registration authorization signs over.
func HashTxOuts(outs []*TxOut) chainhash.Hash {
	var buf bytes.Buffer
	_ = writeVarInt(&buf, uint64(len(outs)))
	for _, out := range outs {
		_ = writeTxOut(&buf, out)
	}
	return chainhash.DoubleHashH(buf.Bytes())
}

// HashStrings returns SHA256d of the canonical count-prefixed encoding of
// strs, used to commit to the plaintext names an ICANN batch-registration
// authorization signs over.
func HashStrings(strs []string) chainhash.Hash {
	var buf bytes.Buffer
	_ = writeVarInt(&buf, uint64(len(strs)))
	for _, s := range strs {
		_ = writeVarBytes(&buf, []byte(s))
	}
	return chainhash.DoubleHashH(buf.Bytes())
}
