// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// BlockHeader is the 80-byte-equivalent header a block commits to. Block
// assembly and proof-of-work validation are handled by the external
// block-level validator; this type exists only so the consensus core can
// construct and hash a genesis block to seed chain state.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// BlockHash computes the header's content-addressed hash.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = writeInt32(&buf, h.Version)
	_, _ = buf.Write(h.PrevBlock[:])
	_, _ = buf.Write(h.MerkleRoot[:])
	var ts [4]byte
	binary.LittleEndian.PutUint32(ts[:], uint32(h.Timestamp.Unix()))
	_, _ = buf.Write(ts[:])
	_ = writeUint32(&buf, h.Bits)
	_ = writeUint32(&buf, h.Nonce)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Block pairs a header with its transactions. Only the genesis block is
// assembled by this module; ordinary block assembly and validation belong
// to the external block-level validator.
type Block struct {
	Header       BlockHeader
	Transactions []*Transaction
}

// Serialize writes the block's header followed by its transactions.
func (b *Block) Serialize(w io.Writer) error {
	var buf bytes.Buffer
	if err := writeInt32(&buf, b.Header.Version); err != nil {
		return err
	}
	if _, err := buf.Write(b.Header.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := buf.Write(b.Header.MerkleRoot[:]); err != nil {
		return err
	}
	var ts [4]byte
	binary.LittleEndian.PutUint32(ts[:], uint32(b.Header.Timestamp.Unix()))
	if _, err := buf.Write(ts[:]); err != nil {
		return err
	}
	if err := writeUint32(&buf, b.Header.Bits); err != nil {
		return err
	}
	if err := writeUint32(&buf, b.Header.Nonce); err != nil {
		return err
	}
	if err := writeVarInt(&buf, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(&buf); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
