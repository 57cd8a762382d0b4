// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/aead/siphash"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/txscript"
	"github.com/bitnamesd/sidechain/wire"
)

// cacheSlot is one bucket of the salted cache map: the outpoint it was
// filed under plus the entry itself. Storing the outpoint alongside the
// entry lets Cursor and BatchWrite recover the real key from the salted
// hash bucket.
type cacheSlot struct {
	op    wire.OutPoint
	entry *Entry
}

// CacheView is a layered, copy-on-write coin cache over a backing View.
// It is the workhorse of the UTXO view stack: every chainstate-mutating
// operation (AddCoins, SpendCoin) runs against a CacheView, which is
// eventually flushed (or batch-written into a parent CacheView) to make
// the mutation durable.
//
// CacheView is not safe for concurrent use; it is owned by one thread
// between construction and Flush, per the single-threaded-per-chainstate
// concurrency model.
type CacheView struct {
	backend View

	// cache buckets are keyed by a salted SipHash of the outpoint rather
	// than the outpoint itself, defeating adversarial hash-collision
	// fills the way Bitcoin Core's SaltedOutpointHasher does.
	cache map[uint64]*cacheSlot
	k0    uint64
	k1    uint64

	cachedBestBlock chainhash.Hash
	haveBestBlock   bool

	cachedUsage int
}

// NewCacheView returns a CacheView over backend, with a fresh
// process-unique salt drawn from a CSPRNG.
func NewCacheView(backend View) *CacheView {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is a fatal environment error, not a
		// consensus condition; there is no safe fallback.
		panic(fmt.Sprintf("blockchain: failed to seed cache salt: %v", err))
	}

	return &CacheView{
		backend: backend,
		cache:   make(map[uint64]*cacheSlot),
		k0:      binary.LittleEndian.Uint64(seed[:8]),
		k1:      binary.LittleEndian.Uint64(seed[8:]),
	}
}

func (v *CacheView) saltedKey(op wire.OutPoint) uint64 {
	var buf [36]byte
	copy(buf[:32], op.Hash[:])
	binary.LittleEndian.PutUint32(buf[32:], op.Index)

	key := make([]byte, 16)
	binary.LittleEndian.PutUint64(key[:8], v.k0)
	binary.LittleEndian.PutUint64(key[8:], v.k1)

	h, err := siphash.New64(key)
	if err != nil {
		panic(fmt.Sprintf("blockchain: siphash keying failed: %v", err))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// BestBlock returns the cached tip hash, fetching it from the backend on
// first use.
func (v *CacheView) BestBlock() chainhash.Hash {
	if !v.haveBestBlock {
		v.cachedBestBlock = v.backend.BestBlock()
		v.haveBestBlock = true
	}
	return v.cachedBestBlock
}

// HeadBlocks delegates to the backend; the cache itself never tracks
// reorg-in-flight state.
func (v *CacheView) HeadBlocks() []chainhash.Hash {
	return v.backend.HeadBlocks()
}

// fetch returns the cache slot for op, inserting from the backend on a
// cache miss. A backend miss is never negatively cached: the cache
// records only coins it has actually seen.
func (v *CacheView) fetch(op wire.OutPoint) *cacheSlot {
	key := v.saltedKey(op)
	if slot, ok := v.cache[key]; ok {
		return slot
	}

	coin, found := v.backend.Get(op)
	if !found {
		return nil
	}

	flags := EntryFlags(0)
	if coin.Spent {
		// The backend carries only a tombstone for this outpoint; as
		// far as any higher layer is concerned it does not exist, so
		// mark it FRESH: a later spend can simply erase it rather than
		// writing the tombstone upward again.
		flags = EntryFresh
	}

	slot := &cacheSlot{op: op, entry: &Entry{Coin: coin, Flags: flags}}
	v.cache[key] = slot
	v.cachedUsage += coin.DynamicMemoryUsage()
	return slot
}

// Get returns the coin for op and whether it is present and unspent.
func (v *CacheView) Get(op wire.OutPoint) (Coin, bool) {
	slot := v.fetch(op)
	if slot == nil || slot.entry.Coin.Spent {
		return Coin{}, false
	}
	return slot.entry.Coin, true
}

// Has reports whether op resolves to an unspent coin.
func (v *CacheView) Has(op wire.OutPoint) bool {
	_, ok := v.Get(op)
	return ok
}

// AddCoin inserts coin at op. Unspendable outputs are silently dropped,
// matching the convention that name-carrying OP_RETURN-style outputs
// never enter the UTXO set. If possibleOverwrite is false it is a logic
// error to overwrite an unspent entry; the caller asserts that op is
// known to be free (e.g. a freshly computed txid cannot collide).
func (v *CacheView) AddCoin(op wire.OutPoint, coin Coin, possibleOverwrite bool) {
	if txscript.Script(coin.Out.PkScript).IsUnspendable() {
		return
	}

	key := v.saltedKey(op)
	slot, existed := v.cache[key]
	if !existed {
		slot = &cacheSlot{op: op, entry: &Entry{}}
		v.cache[key] = slot
	} else {
		v.cachedUsage -= slot.entry.Coin.DynamicMemoryUsage()
	}

	fresh := false
	if !possibleOverwrite {
		if !slot.entry.Coin.Spent && existed {
			panic("blockchain: AddCoin: adding new coin over unspent entry")
		}
		// FRESH iff the parent never saw this outpoint: i.e. our own
		// entry was not already DIRTY (which would mean it reflects
		// something the backend already has a record of).
		fresh = !slot.entry.isDirty()
	}

	slot.entry.Coin = coin
	slot.entry.Flags |= EntryDirty
	if fresh {
		slot.entry.Flags |= EntryFresh
	}
	v.cachedUsage += coin.DynamicMemoryUsage()
}

// SpendCoin removes the coin at op, returning the pre-spend value via out
// (if non-nil) and reporting whether anything was spent.
func (v *CacheView) SpendCoin(op wire.OutPoint, out *Coin) bool {
	slot := v.fetch(op)
	if slot == nil {
		return false
	}

	if out != nil {
		*out = slot.entry.Coin
	}

	if slot.entry.isFresh() {
		// The parent never knew about this outpoint; pruning it here
		// requires no record at all.
		v.cachedUsage -= slot.entry.Coin.DynamicMemoryUsage()
		delete(v.cache, v.saltedKey(op))
		return true
	}

	v.cachedUsage -= slot.entry.Coin.DynamicMemoryUsage()
	slot.entry.Coin.Clear()
	slot.entry.Flags |= EntryDirty
	return true
}

// Uncache drops a clean (flags == 0) entry from the cache to free memory.
// Correctness is preserved because a clean entry carries no information
// that would be lost by re-fetching it from the backend later.
func (v *CacheView) Uncache(op wire.OutPoint) {
	key := v.saltedKey(op)
	slot, ok := v.cache[key]
	if !ok || slot.entry.Flags != 0 {
		return
	}
	v.cachedUsage -= slot.entry.Coin.DynamicMemoryUsage()
	delete(v.cache, key)
}

// EstimateSize approximates the cache's in-memory footprint.
func (v *CacheView) EstimateSize() int {
	const perEntryOverhead = 48
	return v.cachedUsage + len(v.cache)*perEntryOverhead
}

// AccessByTxid performs the linear scan (txid, 0..MaxOutputsPerBlock)
// that returns the first unspent coin of a transaction, used to answer
// "does any output of tx T remain?" queries.
func AccessByTxid(v View, txid chainhash.Hash) (Coin, bool) {
	for i := uint32(0); i < wire.MaxOutputsPerBlock; i++ {
		op := wire.OutPoint{Hash: txid, Index: i}
		if coin, ok := v.Get(op); ok {
			return coin, true
		}
	}
	return Coin{}, false
}

// Flush writes every cache entry back to the backend and clears the
// cache, transferring ownership of the mutation to the backend.
func (v *CacheView) Flush() error {
	if err := v.backend.BatchWrite(v.entriesMap(), v.BestBlock()); err != nil {
		return err
	}
	v.cache = make(map[uint64]*cacheSlot)
	v.cachedUsage = 0
	return nil
}

func (v *CacheView) entriesMap() map[wire.OutPoint]*Entry {
	out := make(map[wire.OutPoint]*Entry, len(v.cache))
	for _, slot := range v.cache {
		out[slot.op] = slot.entry
	}
	return out
}

// BatchWrite merges entries from a child cache into this view, per the
// FRESH/DIRTY discipline:
//
//   - non-DIRTY child entries are skipped: they match the parent already.
//   - if the parent has no entry: a FRESH+spent child entry never
//     existed anywhere up the stack and is dropped; otherwise a new
//     parent entry is created, propagating FRESH when the child was
//     FRESH.
//   - if the parent already has an entry: it is fatal for the child to
//     be FRESH while the parent holds an unspent coin (the child claims
//     novelty the parent disproves). If the parent is FRESH and the
//     child is spent, the parent entry is erased, collapsing the prune
//     upward. Otherwise the parent's coin is replaced and marked DIRTY;
//     child-FRESH is deliberately NOT propagated so the parent's own
//     pruned state still travels to the grandparent.
//
// After the merge, BestBlock is set to best.
func (v *CacheView) BatchWrite(entries map[wire.OutPoint]*Entry, best chainhash.Hash) error {
	for op, child := range entries {
		if !child.isDirty() {
			continue
		}

		key := v.saltedKey(op)
		parentSlot, exists := v.cache[key]

		if !exists {
			if child.isFresh() && child.Coin.Spent {
				continue
			}
			newEntry := &Entry{Coin: child.Coin, Flags: EntryDirty}
			if child.isFresh() {
				newEntry.Flags |= EntryFresh
			}
			v.cache[key] = &cacheSlot{op: op, entry: newEntry}
			v.cachedUsage += child.Coin.DynamicMemoryUsage()
			continue
		}

		if child.isFresh() && !parentSlot.entry.Coin.Spent {
			panic("blockchain: BatchWrite: FRESH flag misapplied over unspent parent coin")
		}

		if parentSlot.entry.isFresh() && child.Coin.Spent {
			v.cachedUsage -= parentSlot.entry.Coin.DynamicMemoryUsage()
			delete(v.cache, key)
			continue
		}

		v.cachedUsage -= parentSlot.entry.Coin.DynamicMemoryUsage()
		parentSlot.entry.Coin = child.Coin
		parentSlot.entry.Flags |= EntryDirty
		v.cachedUsage += child.Coin.DynamicMemoryUsage()
	}

	v.cachedBestBlock = best
	v.haveBestBlock = true
	return nil
}

// Cursor enumerates the cache's own entries.
func (v *CacheView) Cursor() Cursor {
	slots := make([]*cacheSlot, 0, len(v.cache))
	for _, s := range v.cache {
		slots = append(slots, s)
	}
	return &cacheCursor{slots: slots}
}

type cacheCursor struct {
	slots []*cacheSlot
	idx   int
}

func (c *cacheCursor) Valid() bool        { return c.idx < len(c.slots) }
func (c *cacheCursor) Next()              { c.idx++ }
func (c *cacheCursor) Key() wire.OutPoint { return c.slots[c.idx].op }
func (c *cacheCursor) Value() Coin        { return c.slots[c.idx].entry.Coin }
