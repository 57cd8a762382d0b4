// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/bitnamesd/sidechain/wire"
)

// BackedView wraps another View and delegates every call to it. On its
// own it adds nothing; it exists so a CacheView can be constructed over
// any View without caring whether the backend is itself a cache, a
// disk-backed leaf, or another backed adapter.
type BackedView struct {
	backend View
}

// NewBackedView returns a BackedView delegating to backend.
func NewBackedView(backend View) *BackedView {
	return &BackedView{backend: backend}
}

// SetBackend rebinds the delegate. This is a single-writer operation used
// only during construction of a view stack, never while a BackedView is
// being concurrently read.
func (v *BackedView) SetBackend(backend View) {
	v.backend = backend
}

func (v *BackedView) Get(op wire.OutPoint) (Coin, bool) { return v.backend.Get(op) }
func (v *BackedView) Has(op wire.OutPoint) bool         { return v.backend.Has(op) }
func (v *BackedView) BestBlock() chainhash.Hash         { return v.backend.BestBlock() }
func (v *BackedView) HeadBlocks() []chainhash.Hash      { return v.backend.HeadBlocks() }
func (v *BackedView) Cursor() Cursor                    { return v.backend.Cursor() }
func (v *BackedView) EstimateSize() int                 { return v.backend.EstimateSize() }

func (v *BackedView) BatchWrite(entries map[wire.OutPoint]*Entry, best chainhash.Hash) error {
	return v.backend.BatchWrite(entries, best)
}
