// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"

	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/decred/dcrd/lru"
)

// sigCacheEntry is the comparable key a verified ICANN authorization
// signature is remembered under: the message digest paired with the
// compact signature that was recovered against it.
type sigCacheEntry struct {
	msg chainhash.Hash
	sig [wire65]byte
}

// wire65 is the on-the-wire length of a compact signature plus its
// recovery id byte.
const wire65 = 65

// SigCache remembers ICANN authorization signatures already proven valid,
// so a transaction seen again (e.g. re-validated across a reorg) does not
// pay for secp256k1 public key recovery twice. It never caches failures:
// an invalid signature is always fully re-verified, matching the
// fail-safe behavior of btcd's own signature cache.
type SigCache struct {
	valid *lru.Cache[sigCacheEntry]
}

// NewSigCache returns a SigCache that remembers up to maxEntries verified
// signatures.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{valid: lru.NewCache[sigCacheEntry](maxEntries)}
}

// has reports whether msg/sig was already verified successfully.
func (c *SigCache) has(msg chainhash.Hash, sig [wire65]byte) bool {
	if c == nil {
		return false
	}
	return c.valid.Contains(sigCacheEntry{msg: msg, sig: sig})
}

// add remembers msg/sig as successfully verified.
func (c *SigCache) add(msg chainhash.Hash, sig [wire65]byte) {
	if c == nil {
		return
	}
	c.valid.Add(sigCacheEntry{msg: msg, sig: sig})
}

// VerifyICANNSignature checks that sig is a valid compact (recoverable)
// secp256k1 signature over msg by the chain's designated ICANN
// registration authority, identified by params.IcannRegistrationKeyHash.
// Results are memoized in sigCache when provided.
func VerifyICANNSignature(msg chainhash.Hash, sig [wire65]byte, sigCache *SigCache, params *chaincfg.Params) (bool, error) {
	if params == nil {
		return false, errors.New("blockchain: nil chain params")
	}
	if params.IcannRegistrationKeyHash == ([ripemdLen]byte{}) {
		return false, errors.New("blockchain: chain params carry no icann registration key hash")
	}

	if sigCache.has(msg, sig) {
		return true, nil
	}

	pub, _, err := ecdsa.RecoverCompact(sig[:], msg[:])
	if err != nil {
		return false, nil
	}

	keyHash := btcutil.Hash160(pub.SerializeCompressed())
	if !bytesEqual(keyHash, params.IcannRegistrationKeyHash[:]) {
		return false, nil
	}

	recovered, err := parseCompactAsSignature(sig)
	if err != nil {
		return false, nil
	}
	if !recovered.Verify(msg[:], pub) {
		return false, nil
	}

	sigCache.add(msg, sig)
	return true, nil
}

// ripemdLen is the length of a RIPEMD160(SHA256(pubkey)) key hash.
const ripemdLen = 20

// parseCompactAsSignature re-derives the (r, s) signature from the
// wire's compact encoding so it can be checked against the recovered key
// independent of the recovery id, guarding against a forged recovery byte
// being paired with an unrelated valid-looking (r, s).
func parseCompactAsSignature(sig [wire65]byte) (*ecdsa.Signature, error) {
	var rBytes, sBytes [32]byte
	copy(rBytes[:], sig[1:33])
	copy(sBytes[:], sig[33:65])

	var r, s btcec.ModNScalar
	if overflow := r.SetBytes(&rBytes); overflow != 0 {
		return nil, errors.New("blockchain: signature r overflows field")
	}
	if overflow := s.SetBytes(&sBytes); overflow != 0 {
		return nil, errors.New("blockchain: signature s overflows field")
	}
	return ecdsa.NewSignature(&r, &s), nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
