// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses implements BitNames sidechain address encoding and
// decoding: legacy base58 P2PKH and bech32 segwit witness-program
// addresses, parameterized per chaincfg.Params so the same code serves
// both main net and regtest.
package addresses

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/bitnamesd/sidechain/chaincfg"
	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// Address type identifiers returned by Address.AddressType.
const (
	AddressTypeSegwit = "segwit"
	AddressTypeP2PKH  = "p2pkh"
)

var (
	// ErrInvalidAddress is returned when an address's encoding or
	// checksum is malformed.
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrUnsupportedAddressType is returned for a well-formed address
	// whose witness version or payload length addresses does not know
	// how to represent.
	ErrUnsupportedAddressType = errors.New("unsupported address type")

	// ErrInvalidPublicKey is returned when a public key is nil or
	// malformed.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// Address is a decoded, network-bound BitNames address.
type Address interface {
	// String returns the human-readable encoding.
	String() string

	// ScriptAddress returns the raw witness program or public key hash.
	ScriptAddress() []byte

	// AddressType names the encoding (AddressTypeSegwit or
	// AddressTypeP2PKH).
	AddressType() string

	// IsForNetwork reports whether the address was decoded for params.
	IsForNetwork(params *chaincfg.Params) bool
}

// SegwitAddress is a bech32-encoded witness-program address (witness
// version 0 for a 20-byte pubkey hash or 32-byte script hash, version 1
// for a 32-byte taproot-style output key).
type SegwitAddress struct {
	witnessVersion byte
	witnessProgram []byte
	netParams      *chaincfg.Params
}

// NewSegwitAddress builds a witness version 1 address committing to the
// x-only coordinate of pubKey.
func NewSegwitAddress(pubKey *btcec.PublicKey, params *chaincfg.Params) (*SegwitAddress, error) {
	if pubKey == nil {
		return nil, ErrInvalidPublicKey
	}

	witnessProgram := pubKey.SerializeCompressed()[1:]

	return &SegwitAddress{
		witnessVersion: 1,
		witnessProgram: witnessProgram,
		netParams:      params,
	}, nil
}

// String returns the bech32 encoded segwit address.
func (addr *SegwitAddress) String() string {
	conv, err := bech32.ConvertBits(addr.witnessProgram, 8, 5, true)
	if err != nil {
		return ""
	}

	data := append([]byte{addr.witnessVersion}, conv...)

	encoded, err := bech32.Encode(addr.netParams.Bech32HRPSegwit, data)
	if err != nil {
		return ""
	}

	return encoded
}

// ScriptAddress returns the witness program.
func (addr *SegwitAddress) ScriptAddress() []byte {
	return addr.witnessProgram
}

// AddressType returns AddressTypeSegwit.
func (addr *SegwitAddress) AddressType() string {
	return AddressTypeSegwit
}

// IsForNetwork reports whether addr was decoded for params.
func (addr *SegwitAddress) IsForNetwork(params *chaincfg.Params) bool {
	return addr.netParams.Name == params.Name
}

// P2PKHAddress is a legacy base58check pay-to-pubkey-hash address.
type P2PKHAddress struct {
	hash      [20]byte
	netParams *chaincfg.Params
}

// NewP2PKHAddress builds a P2PKH address from a 20-byte public key hash.
func NewP2PKHAddress(pubKeyHash []byte, params *chaincfg.Params) (*P2PKHAddress, error) {
	if len(pubKeyHash) != 20 {
		return nil, fmt.Errorf("public key hash must be 20 bytes")
	}

	var hash [20]byte
	copy(hash[:], pubKeyHash)

	return &P2PKHAddress{
		hash:      hash,
		netParams: params,
	}, nil
}

// String returns the base58check encoded P2PKH address.
func (addr *P2PKHAddress) String() string {
	payload := make([]byte, 21)
	payload[0] = addr.netParams.PubKeyHashAddrID
	copy(payload[1:], addr.hash[:])

	checksum := chainhash.DoubleHashB(payload)[:4]

	fullPayload := append(payload, checksum...)
	return base58.Encode(fullPayload)
}

// ScriptAddress returns the public key hash.
func (addr *P2PKHAddress) ScriptAddress() []byte {
	return addr.hash[:]
}

// AddressType returns AddressTypeP2PKH.
func (addr *P2PKHAddress) AddressType() string {
	return AddressTypeP2PKH
}

// IsForNetwork reports whether addr was decoded for params.
func (addr *P2PKHAddress) IsForNetwork(params *chaincfg.Params) bool {
	return addr.netParams.Name == params.Name
}

// GenerateAddress derives an Address of the requested type from pubKey.
func GenerateAddress(pubKey *btcec.PublicKey, addressType string, params *chaincfg.Params) (Address, error) {
	switch addressType {
	case AddressTypeSegwit:
		return NewSegwitAddress(pubKey, params)

	case AddressTypeP2PKH:
		pubKeyBytes := pubKey.SerializeCompressed()
		pubKeyHash := btcutil.Hash160(pubKeyBytes)
		return NewP2PKHAddress(pubKeyHash, params)

	default:
		return nil, ErrUnsupportedAddressType
	}
}

// ParseAddress decodes address, preferring bech32 segwit and falling
// back to base58check P2PKH.
func ParseAddress(address string, params *chaincfg.Params) (Address, error) {
	if hrp, data, err := bech32.Decode(address); err == nil {
		if hrp == params.Bech32HRPSegwit {
			return parseSegwitAddress(data, params)
		}
	}

	decoded := base58.Decode(address)
	if len(decoded) != 25 {
		return nil, ErrInvalidAddress
	}

	payload := decoded[:21]
	checksum := decoded[21:]
	expectedChecksum := chainhash.DoubleHashB(payload)[:4]

	for i := 0; i < 4; i++ {
		if checksum[i] != expectedChecksum[i] {
			return nil, ErrInvalidAddress
		}
	}

	version := payload[0]
	hash := payload[1:]

	if version == params.PubKeyHashAddrID {
		return NewP2PKHAddress(hash, params)
	}

	return nil, ErrUnsupportedAddressType
}

func parseSegwitAddress(data []byte, params *chaincfg.Params) (Address, error) {
	if len(data) < 1 {
		return nil, ErrInvalidAddress
	}

	witnessVersion := data[0]
	witnessProgram, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, ErrInvalidAddress
	}

	switch witnessVersion {
	case 1:
		if len(witnessProgram) != 32 {
			return nil, ErrInvalidAddress
		}
		return &SegwitAddress{
			witnessVersion: witnessVersion,
			witnessProgram: witnessProgram,
			netParams:      params,
		}, nil

	default:
		return nil, ErrUnsupportedAddressType
	}
}

// ValidateAddress parses address and confirms it belongs to params.
func ValidateAddress(address string, params *chaincfg.Params) error {
	addr, err := ParseAddress(address, params)
	if err != nil {
		return err
	}

	if !addr.IsForNetwork(params) {
		return fmt.Errorf("address is not for network %s", params.Name)
	}

	return nil
}

// IsValidAddressFormat performs a format-only check (bech32 HRP
// membership aside, no network binding).
func IsValidAddressFormat(address string) bool {
	if _, _, err := bech32.Decode(address); err == nil {
		return true
	}

	decoded := base58.Decode(address)
	if len(decoded) != 25 {
		return false
	}

	payload := decoded[:21]
	checksum := decoded[21:]
	expectedChecksum := chainhash.DoubleHashB(payload)[:4]

	for i := 0; i < 4; i++ {
		if checksum[i] != expectedChecksum[i] {
			return false
		}
	}

	return true
}
