// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/bitnamesd/sidechain/chaincfg/chainhash"

// BindCommitment computes the hash-preimage commitment a registration
// must reveal to spend its reservation: SHA256d(name_hash || sok).
func BindCommitment(nameHash, sok chainhash.Hash) chainhash.Hash {
	buf := make([]byte, 0, chainhash.HashSize*2)
	buf = append(buf, nameHash[:]...)
	buf = append(buf, sok[:]...)
	return chainhash.DoubleHashH(buf)
}
