// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key prefixes mirror the single-byte type tags used by Bitcoin Core's
// on-disk coin database: one byte of record type, followed by the
// record's own key encoding.
const (
	coinRecordPrefix      byte = 'c'
	bestBlockRecordPrefix byte = 'B'
)

// LevelDBView is the disk-backed leaf of the UTXO view stack. It
// implements View directly against a goleveldb database, keyed by a
// one-byte type tag plus the serialized OutPoint, with a reserved key
// for the chain tip hash.
type LevelDBView struct {
	db *leveldb.DB
}

// OpenLevelDBView opens (creating if necessary) a LevelDB-backed view at
// path.
func OpenLevelDBView(path string) (*LevelDBView, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain: opening coin database: %w", err)
	}
	return &LevelDBView{db: db}, nil
}

// Close releases the underlying database handle.
func (v *LevelDBView) Close() error {
	return v.db.Close()
}

func coinKey(op wire.OutPoint) []byte {
	buf := make([]byte, 1+chainhash.HashSize+4)
	buf[0] = coinRecordPrefix
	copy(buf[1:1+chainhash.HashSize], op.Hash[:])
	binary.LittleEndian.PutUint32(buf[1+chainhash.HashSize:], op.Index)
	return buf
}

func encodeCoin(c Coin) []byte {
	var buf bytes.Buffer
	var flags byte
	if c.IsCoinBase {
		flags |= 1
	}
	if c.IsReservation {
		flags |= 2
	}
	if c.IsRegistrationOrHolder {
		flags |= 4
	}
	if c.Spent {
		flags |= 8
	}
	buf.WriteByte(flags)

	var height [4]byte
	binary.LittleEndian.PutUint32(height[:], c.Height)
	buf.Write(height[:])

	buf.Write(c.AssetID[:])
	buf.Write(c.Commitment[:])

	var value [8]byte
	binary.LittleEndian.PutUint64(value[:], uint64(c.Out.Value))
	buf.Write(value[:])

	var scriptLen [4]byte
	binary.LittleEndian.PutUint32(scriptLen[:], uint32(len(c.Out.PkScript)))
	buf.Write(scriptLen[:])
	buf.Write(c.Out.PkScript)

	return buf.Bytes()
}

func decodeCoin(data []byte) (Coin, error) {
	const fixedLen = 1 + 4 + chainhash.HashSize*2 + 8 + 4
	if len(data) < fixedLen {
		return Coin{}, errors.New("blockchain: truncated coin record")
	}

	var c Coin
	flags := data[0]
	c.IsCoinBase = flags&1 != 0
	c.IsReservation = flags&2 != 0
	c.IsRegistrationOrHolder = flags&4 != 0
	c.Spent = flags&8 != 0

	off := 1
	c.Height = binary.LittleEndian.Uint32(data[off:])
	off += 4

	copy(c.AssetID[:], data[off:off+chainhash.HashSize])
	off += chainhash.HashSize
	copy(c.Commitment[:], data[off:off+chainhash.HashSize])
	off += chainhash.HashSize

	c.Out.Value = int64(binary.LittleEndian.Uint64(data[off:]))
	off += 8

	scriptLen := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if len(data) < off+int(scriptLen) {
		return Coin{}, errors.New("blockchain: truncated coin script")
	}
	c.Out.PkScript = append([]byte(nil), data[off:off+int(scriptLen)]...)

	return c, nil
}

// Get reads a single coin record from disk.
func (v *LevelDBView) Get(op wire.OutPoint) (Coin, bool) {
	data, err := v.db.Get(coinKey(op), nil)
	if err != nil {
		return Coin{}, false
	}
	coin, err := decodeCoin(data)
	if err != nil || coin.Spent {
		return Coin{}, false
	}
	return coin, true
}

// Has reports whether op resolves to an unspent coin on disk.
func (v *LevelDBView) Has(op wire.OutPoint) bool {
	_, ok := v.Get(op)
	return ok
}

// BestBlock returns the persisted chain tip hash.
func (v *LevelDBView) BestBlock() chainhash.Hash {
	data, err := v.db.Get([]byte{bestBlockRecordPrefix}, nil)
	if err != nil || len(data) != chainhash.HashSize {
		return chainhash.Hash{}
	}
	var h chainhash.Hash
	copy(h[:], data)
	return h
}

// HeadBlocks returns the single persisted tip; the disk leaf never
// tracks reorg-in-flight state itself.
func (v *LevelDBView) HeadBlocks() []chainhash.Hash {
	best := v.BestBlock()
	if best.IsNull() {
		return nil
	}
	return []chainhash.Hash{best}
}

// BatchWrite applies entries atomically via a LevelDB batch, writing
// unspent coins and deleting spent ones, then records best as the new
// tip.
func (v *LevelDBView) BatchWrite(entries map[wire.OutPoint]*Entry, best chainhash.Hash) error {
	batch := new(leveldb.Batch)
	for op, entry := range entries {
		if entry.Coin.Spent {
			batch.Delete(coinKey(op))
			continue
		}
		batch.Put(coinKey(op), encodeCoin(entry.Coin))
	}
	batch.Put([]byte{bestBlockRecordPrefix}, best[:])
	return v.db.Write(batch, nil)
}

// Cursor enumerates every coin record on disk.
func (v *LevelDBView) Cursor() Cursor {
	iter := v.db.NewIterator(util.BytesPrefix([]byte{coinRecordPrefix}), nil)
	return newLeveldbCursor(iter)
}

// EstimateSize approximates the on-disk footprint via LevelDB's own size
// accounting over the coin-record key range.
func (v *LevelDBView) EstimateSize() int {
	sizes, err := v.db.SizeOf([]util.Range{*util.BytesPrefix([]byte{coinRecordPrefix})})
	if err != nil || len(sizes) == 0 {
		return 0
	}
	return int(sizes.Sum())
}

type leveldbIterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

// leveldbCursor adapts goleveldb's Next()-returns-validity iterator style
// to the Cursor interface's separate Valid()/Next() calls by keeping one
// record of read-ahead.
type leveldbCursor struct {
	iter  leveldbIterator
	valid bool
}

func newLeveldbCursor(iter leveldbIterator) *leveldbCursor {
	c := &leveldbCursor{iter: iter}
	c.valid = iter.Next()
	return c
}

func (c *leveldbCursor) Valid() bool { return c.valid }
func (c *leveldbCursor) Next()       { c.valid = c.iter.Next() }

func (c *leveldbCursor) Key() wire.OutPoint {
	k := c.iter.Key()
	var op wire.OutPoint
	copy(op.Hash[:], k[1:1+chainhash.HashSize])
	op.Index = binary.LittleEndian.Uint32(k[1+chainhash.HashSize:])
	return op
}

func (c *leveldbCursor) Value() Coin {
	coin, _ := decodeCoin(c.iter.Value())
	return coin
}
