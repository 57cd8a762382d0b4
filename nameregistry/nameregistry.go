// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nameregistry implements the read-only name index an external
// indexer derives from applied transactions: a map-backed ledger from
// name hash to the full history of commitments, IPv4 addresses and
// compressed public keys a BitName has carried. The consensus core
// never writes this index directly — it is populated out of band as
// blocks are applied, and consulted only from non-consensus code paths
// (ICANN witness lookups, wallet/explorer queries).
package nameregistry

import (
	"crypto/sha256"
	"errors"
	"sync"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// ErrNotFound is returned by GetName when no BitName is registered for
// the requested key.
var ErrNotFound = errors.New("nameregistry: name not found")

// HistoryEntry is one state transition a BitName passed through: the
// transaction that caused it, and the commitment/IPv4/pubkey it set (a
// zero-valued field means that field was left unchanged).
type HistoryEntry struct {
	TxID       chainhash.Hash
	Commitment chainhash.Hash
	HasIn4     bool
	In4        uint32
	HasCpk     bool
	Cpk        [33]byte
}

// BitName is the full externally-visible record for one registered
// name: its canonical hash and the ordered history of updates applied
// to it, from registration onward.
type BitName struct {
	NameHash chainhash.Hash
	History  []HistoryEntry
}

// Current returns the most recently applied history entry, or the zero
// value and false if the BitName has no history yet.
func (b *BitName) Current() (HistoryEntry, bool) {
	if len(b.History) == 0 {
		return HistoryEntry{}, false
	}
	return b.History[len(b.History)-1], true
}

// Registry is a map-backed ledger of BitName histories keyed by name
// hash, with a secondary index from plaintext name to hash so callers
// holding either form can resolve a record. It is safe for concurrent
// use by multiple indexer/query goroutines.
type Registry struct {
	mu    sync.RWMutex
	names map[chainhash.Hash]*BitName
}

// NewRegistry creates an empty name registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[chainhash.Hash]*BitName),
	}
}

// NameHash returns the asset id a plaintext name hashes to: SHA256d of
// its UTF-8 bytes, matching the consensus core's registration and
// ICANN batch hashing.
func NameHash(plaintext string) chainhash.Hash {
	first := sha256.Sum256([]byte(plaintext))
	second := sha256.Sum256(first[:])
	return chainhash.Hash(second)
}

// Register creates the registry entry for nameHash if one does not
// already exist, recording entry as its first history item. It returns
// an error if the name is already registered.
func (r *Registry) Register(nameHash chainhash.Hash, entry HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[nameHash]; exists {
		return errors.New("nameregistry: name already registered")
	}

	r.names[nameHash] = &BitName{
		NameHash: nameHash,
		History:  []HistoryEntry{entry},
	}
	return nil
}

// AppendUpdate appends entry to the history of an already-registered
// BitName. It returns ErrNotFound if nameHash has no registry entry.
func (r *Registry) AppendUpdate(nameHash chainhash.Hash, entry HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.names[nameHash]
	if !ok {
		return ErrNotFound
	}
	name.History = append(name.History, entry)
	return nil
}

// GetName looks up a BitName by its name hash.
func (r *Registry) GetName(nameHash chainhash.Hash) (*BitName, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[nameHash]
	if !ok {
		return nil, ErrNotFound
	}
	return name, nil
}

// GetNameByPlaintext looks up a BitName by its plaintext name, hashing
// it the same way the consensus core does before consulting the index.
func (r *Registry) GetNameByPlaintext(plaintext string) (*BitName, error) {
	return r.GetName(NameHash(plaintext))
}
