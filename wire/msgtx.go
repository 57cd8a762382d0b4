// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bitnamesd/sidechain/chaincfg/chainhash"
)

// Transaction version numbers. Version 3 is the legacy replay-protected
// default; versions 10, 11 and 12 carry the BitNames name-asset payloads.
const (
	// TxVersionLegacy is the default transaction version; it carries a
	// single replay-protection byte and no name-asset payload.
	TxVersionLegacy int32 = 3

	// TxVersionCreateName is used for both reservation (NameHash == zero)
	// and registration (NameHash != zero) transactions.
	TxVersionCreateName int32 = 10

	// TxVersionUpdateName is used to transfer or update an existing
	// BitName's commitment, IPv4 record or public key.
	TxVersionUpdateName int32 = 11

	// TxVersionIcannBatch is used for the privileged batch-registration
	// path that mints names drawn from the ICANN public suffix list.
	TxVersionIcannBatch int32 = 12
)

// witnessFlag marks bit 0 of the flags byte emitted when a transaction is
// serialized with its witness data.
const witnessFlag = 0x01

// CompressedPubKeyLen is the length in bytes of a compressed secp256k1
// public key.
const CompressedPubKeyLen = 33

// CompactSigLen is the length in bytes of a 64-byte compact (r||s)
// secp256k1 signature, excluding the recovery id used on the wire.
const CompactSigLen = 64

// TxIn defines a BitNames transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
	Witness          [][]byte
}

// HasWitness returns true if this input carries any witness data.
func (t *TxIn) HasWitness() bool {
	return len(t.Witness) > 0
}

// TxOut defines a BitNames transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MutableTransaction is the field-by-field builder form of a transaction.
// Converting it to a Transaction computes and caches the txid; further
// mutation should happen on the MutableTransaction, not the immutable
// wrapper.
type MutableTransaction struct {
	Version int32

	// ReplayBytes is emitted only when Version == TxVersionLegacy.
	ReplayBytes byte

	TxIn  []*TxIn
	TxOut []*TxOut

	// Memo is opaque application data, emitted only alongside witness
	// data (i.e. when the transaction is serialized in extended form).
	Memo []byte

	LockTime uint32

	// AllowWitness controls whether Serialize is permitted to choose the
	// witness-carrying extended encoding. It mirrors the caller-supplied
	// "for signing" vs "for relay" distinction used elsewhere in the
	// Bitcoin codec family.
	AllowWitness bool

	// Name-asset payload, version 10 (reservation / registration).
	Commitment chainhash.Hash
	NameHash   chainhash.Hash
	Sok        chainhash.Hash
	HasIn4     bool
	In4        uint32 // host byte order
	HasCpk     bool
	Cpk        [CompressedPubKeyLen]byte
	IsIcann    bool
	IcannSig   [CompactSigLen + 1]byte // compact sig + recovery id

	// Name-asset payload, version 11 (update). HasCommitment/HasIn4/HasCpk
	// gate which of Commitment/In4/Cpk are present on the wire.
	HasCommitment bool

	// Name-asset payload, version 12 (ICANN batch registration).
	IcannRegistrations []string
}

// NewMutableTransaction returns a new transaction with a default version
// and replay-protection byte.
func NewMutableTransaction() *MutableTransaction {
	return &MutableTransaction{
		Version:      TxVersionLegacy,
		AllowWitness: true,
	}
}

// AddTxIn adds a transaction input to the message.
func (m *MutableTransaction) AddTxIn(ti *TxIn) {
	m.TxIn = append(m.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (m *MutableTransaction) AddTxOut(to *TxOut) {
	m.TxOut = append(m.TxOut, to)
}

// hasAnyWitness reports whether any input carries witness data.
func (m *MutableTransaction) hasAnyWitness() bool {
	for _, in := range m.TxIn {
		if in.HasWitness() {
			return true
		}
	}
	return false
}

// IsCoinBase determines whether the transaction is a coinbase: it has
// exactly one input whose previous outpoint is null.
func (m *MutableTransaction) IsCoinBase() bool {
	return len(m.TxIn) == 1 && m.TxIn[0].PreviousOutPoint.IsNull()
}

// Transaction is the immutable, content-addressed form of a
// MutableTransaction. Its Hash is computed once at construction over the
// serialization that excludes witness data and the memo, per the wire
// format's hashing contract.
type Transaction struct {
	mtx  MutableTransaction
	hash chainhash.Hash
}

// NewTransaction converts a MutableTransaction into its immutable form,
// computing and caching its txid. The builder's AllowWitness flag is
// carried over unchanged and decides whether Serialize emits the
// witness-carrying encoding; the cached txid returned by TxHash is
// always computed from the witness/memo-excluding encoding.
func NewTransaction(m *MutableTransaction) (*Transaction, error) {
	cp := *m
	cp.TxIn = append([]*TxIn(nil), m.TxIn...)
	cp.TxOut = append([]*TxOut(nil), m.TxOut...)

	var buf bytes.Buffer
	if err := serializeTx(&buf, &cp, false /* includeWitness */); err != nil {
		return nil, fmt.Errorf("computing txid: %w", err)
	}

	return &Transaction{
		mtx:  cp,
		hash: chainhash.DoubleHashH(buf.Bytes()),
	}, nil
}

// Mutable returns a copy of the underlying builder fields, safe for the
// caller to mutate without affecting the cached hash of this Transaction.
func (t *Transaction) Mutable() *MutableTransaction {
	cp := t.mtx
	cp.TxIn = append([]*TxIn(nil), t.mtx.TxIn...)
	cp.TxOut = append([]*TxOut(nil), t.mtx.TxOut...)
	return &cp
}

// TxHash returns the cached, content-addressed transaction id.
func (t *Transaction) TxHash() chainhash.Hash { return t.hash }

// Version returns the transaction's version field.
func (t *Transaction) Version() int32 { return t.mtx.Version }

// TxIn returns the transaction's inputs.
func (t *Transaction) TxIn() []*TxIn { return t.mtx.TxIn }

// TxOut returns the transaction's outputs.
func (t *Transaction) TxOut() []*TxOut { return t.mtx.TxOut }

// LockTime returns the transaction's lock time.
func (t *Transaction) LockTime() uint32 { return t.mtx.LockTime }

// Memo returns the transaction's memo field, if any.
func (t *Transaction) Memo() []byte { return t.mtx.Memo }

// Commitment returns the v=10/v=11 commitment field.
func (t *Transaction) Commitment() chainhash.Hash { return t.mtx.Commitment }

// HasCommitment reports whether the v=11 commitment field is present.
func (t *Transaction) HasCommitment() bool { return t.mtx.HasCommitment }

// NameHash returns the v=10 name hash field. A zero value identifies a
// reservation; a non-zero value identifies a registration.
func (t *Transaction) NameHash() chainhash.Hash { return t.mtx.NameHash }

// Sok returns the v=10 registration's statement-of-knowledge salt.
func (t *Transaction) Sok() chainhash.Hash { return t.mtx.Sok }

// HasIn4 reports whether the IPv4 field is present.
func (t *Transaction) HasIn4() bool { return t.mtx.HasIn4 }

// In4 returns the IPv4 address in host byte order.
func (t *Transaction) In4() uint32 { return t.mtx.In4 }

// HasCpk reports whether the compressed public key field is present.
func (t *Transaction) HasCpk() bool { return t.mtx.HasCpk }

// Cpk returns the compressed public key field.
func (t *Transaction) Cpk() [CompressedPubKeyLen]byte { return t.mtx.Cpk }

// IsIcann reports whether a v=10 registration carries an ICANN
// single-name authorization signature.
func (t *Transaction) IsIcann() bool { return t.mtx.IsIcann }

// IcannSig returns the compact ICANN authorization signature, valid when
// IsIcann (v=10) or when Version == TxVersionIcannBatch.
func (t *Transaction) IcannSig() [CompactSigLen + 1]byte { return t.mtx.IcannSig }

// IcannRegistrations returns the plaintext names carried by a v=12 ICANN
// batch-registration transaction.
func (t *Transaction) IcannRegistrations() []string { return t.mtx.IcannRegistrations }

// IsCoinBase determines whether the transaction is a coinbase.
func (t *Transaction) IsCoinBase() bool { return t.mtx.IsCoinBase() }

// IsReservation reports whether this is a v=10 transaction reserving a
// name (NameHash is the zero value).
func (t *Transaction) IsReservation() bool {
	return t.mtx.Version == TxVersionCreateName && t.mtx.NameHash.IsNull()
}

// IsRegistration reports whether this is a v=10 transaction registering a
// previously reserved name (NameHash is non-zero).
func (t *Transaction) IsRegistration() bool {
	return t.mtx.Version == TxVersionCreateName && !t.mtx.NameHash.IsNull()
}

// IsUpdate reports whether this is a v=11 update transaction.
func (t *Transaction) IsUpdate() bool { return t.mtx.Version == TxVersionUpdateName }

// IsIcannBatch reports whether this is a v=12 ICANN batch-registration
// transaction.
func (t *Transaction) IsIcannBatch() bool { return t.mtx.Version == TxVersionIcannBatch }

// SerializeSize returns the number of bytes the full (witness-inclusive,
// when applicable) encoding of the transaction occupies.
func (t *Transaction) SerializeSize() int {
	var buf bytes.Buffer
	_ = serializeTx(&buf, &t.mtx, true)
	return buf.Len()
}

// Serialize encodes the transaction, including witness data and memo when
// AllowWitness is set and any input carries a witness.
func (t *Transaction) Serialize(w io.Writer) error {
	return serializeTx(w, &t.mtx, true)
}

// SerializeNoWitness encodes the transaction in the compact form used for
// hashing: the one that excludes witness stacks and the memo.
func (t *Transaction) SerializeNoWitness(w io.Writer) error {
	return serializeTx(w, &t.mtx, false)
}

// Deserialize decodes a transaction from r and converts it to its
// immutable form, recomputing the cached txid.
func Deserialize(r io.Reader) (*Transaction, error) {
	m, err := deserializeTx(r)
	if err != nil {
		return nil, err
	}
	return NewTransaction(m)
}

// serializeTx implements the bit-exact wire format described by the
// consensus core: version, optional replay byte, the empty-vin/flags
// witness-detection trick, inputs, outputs, optional memo and witness
// stacks, lock time, and version-specific trailing fields.
func serializeTx(w io.Writer, m *MutableTransaction, includeWitness bool) error {
	if err := writeInt32(w, m.Version); err != nil {
		return err
	}

	if m.Version == TxVersionLegacy {
		if _, err := w.Write([]byte{m.ReplayBytes}); err != nil {
			return err
		}
	}

	useExtended := includeWitness && m.AllowWitness && m.hasAnyWitness()

	if useExtended {
		// Empty inputs vector followed by the flags byte is the sole
		// witness-detection mechanism: a reader sees a zero-length vin
		// and knows to reinterpret the next byte as flags rather than
		// the real input count.
		if err := writeVarInt(w, 0); err != nil {
			return err
		}
		if _, err := w.Write([]byte{witnessFlag}); err != nil {
			return err
		}
	}

	if err := writeVarInt(w, uint64(len(m.TxIn))); err != nil {
		return err
	}
	for _, in := range m.TxIn {
		if err := writeTxIn(w, in); err != nil {
			return err
		}
	}

	if err := writeVarInt(w, uint64(len(m.TxOut))); err != nil {
		return err
	}
	for _, out := range m.TxOut {
		if err := writeTxOut(w, out); err != nil {
			return err
		}
	}

	if useExtended {
		if err := writeVarBytes(w, m.Memo); err != nil {
			return err
		}
		for _, in := range m.TxIn {
			if err := writeVarInt(w, uint64(len(in.Witness))); err != nil {
				return err
			}
			for _, item := range in.Witness {
				if err := writeVarBytes(w, item); err != nil {
					return err
				}
			}
		}
	}

	if err := writeUint32(w, m.LockTime); err != nil {
		return err
	}

	switch m.Version {
	case TxVersionCreateName:
		if err := writeBool(w, m.HasIn4); err != nil {
			return err
		}
		if _, err := w.Write(m.Commitment[:]); err != nil {
			return err
		}
		if _, err := w.Write(m.NameHash[:]); err != nil {
			return err
		}
		if _, err := w.Write(m.Sok[:]); err != nil {
			return err
		}
		if err := writeUint32BE(w, m.In4); err != nil {
			return err
		}
		if err := writeBool(w, m.HasCpk); err != nil {
			return err
		}
		if m.HasCpk {
			if _, err := w.Write(m.Cpk[:]); err != nil {
				return err
			}
		}
		if err := writeBool(w, m.IsIcann); err != nil {
			return err
		}
		if m.IsIcann {
			if _, err := w.Write(m.IcannSig[:]); err != nil {
				return err
			}
		}

	case TxVersionUpdateName:
		if err := writeBool(w, m.HasCommitment); err != nil {
			return err
		}
		if err := writeBool(w, m.HasIn4); err != nil {
			return err
		}
		if err := writeBool(w, m.HasCpk); err != nil {
			return err
		}
		if m.HasCommitment {
			if _, err := w.Write(m.Commitment[:]); err != nil {
				return err
			}
		}
		if m.HasIn4 {
			if err := writeUint32BE(w, m.In4); err != nil {
				return err
			}
		}
		if m.HasCpk {
			if _, err := w.Write(m.Cpk[:]); err != nil {
				return err
			}
		}

	case TxVersionIcannBatch:
		if err := writeVarInt(w, uint64(len(m.IcannRegistrations))); err != nil {
			return err
		}
		for _, name := range m.IcannRegistrations {
			if err := writeVarBytes(w, []byte(name)); err != nil {
				return err
			}
		}
		if _, err := w.Write(m.IcannSig[:]); err != nil {
			return err
		}
	}

	return nil
}

func deserializeTx(r io.Reader) (*MutableTransaction, error) {
	m := &MutableTransaction{AllowWitness: true}

	version, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	m.Version = version

	if m.Version == TxVersionLegacy {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		m.ReplayBytes = b[0]
	}

	count, err := readVarInt(r)
	if err != nil {
		return nil, err
	}

	useExtended := false
	if count == 0 {
		// Could be a genuinely empty input vector, or the witness
		// flag trick. Peek the flags byte.
		var flags [1]byte
		if _, err := io.ReadFull(r, flags[:]); err != nil {
			return nil, err
		}
		if flags[0]&witnessFlag == 0 {
			return nil, fmt.Errorf("wire: unknown flag byte 0x%02x", flags[0])
		}
		if flags[0] != witnessFlag {
			return nil, fmt.Errorf("wire: unknown flag bits in 0x%02x", flags[0])
		}
		useExtended = true
		count, err = readVarInt(r)
		if err != nil {
			return nil, err
		}
	}

	m.TxIn = make([]*TxIn, count)
	for i := range m.TxIn {
		in, err := readTxIn(r)
		if err != nil {
			return nil, err
		}
		m.TxIn[i] = in
	}

	outCount, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	m.TxOut = make([]*TxOut, outCount)
	for i := range m.TxOut {
		out, err := readTxOut(r)
		if err != nil {
			return nil, err
		}
		m.TxOut[i] = out
	}

	if useExtended {
		memo, err := readVarBytes(r)
		if err != nil {
			return nil, err
		}
		m.Memo = memo

		for _, in := range m.TxIn {
			wCount, err := readVarInt(r)
			if err != nil {
				return nil, err
			}
			witness := make([][]byte, wCount)
			for i := range witness {
				item, err := readVarBytes(r)
				if err != nil {
					return nil, err
				}
				witness[i] = item
			}
			in.Witness = witness
		}
	}

	lockTime, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	m.LockTime = lockTime

	switch m.Version {
	case TxVersionCreateName:
		hasIn4, err := readBool(r)
		if err != nil {
			return nil, err
		}
		m.HasIn4 = hasIn4

		if _, err := io.ReadFull(r, m.Commitment[:]); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, m.NameHash[:]); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, m.Sok[:]); err != nil {
			return nil, err
		}
		in4, err := readUint32BE(r)
		if err != nil {
			return nil, err
		}
		m.In4 = in4

		hasCpk, err := readBool(r)
		if err != nil {
			return nil, err
		}
		m.HasCpk = hasCpk
		if m.HasCpk {
			if _, err := io.ReadFull(r, m.Cpk[:]); err != nil {
				return nil, err
			}
		}

		isIcann, err := readBool(r)
		if err != nil {
			return nil, err
		}
		m.IsIcann = isIcann
		if m.IsIcann {
			if _, err := io.ReadFull(r, m.IcannSig[:]); err != nil {
				return nil, err
			}
		}

	case TxVersionUpdateName:
		hasCommitment, err := readBool(r)
		if err != nil {
			return nil, err
		}
		hasIn4, err := readBool(r)
		if err != nil {
			return nil, err
		}
		hasCpk, err := readBool(r)
		if err != nil {
			return nil, err
		}
		m.HasCommitment, m.HasIn4, m.HasCpk = hasCommitment, hasIn4, hasCpk

		if m.HasCommitment {
			if _, err := io.ReadFull(r, m.Commitment[:]); err != nil {
				return nil, err
			}
		}
		if m.HasIn4 {
			in4, err := readUint32BE(r)
			if err != nil {
				return nil, err
			}
			m.In4 = in4
		}
		if m.HasCpk {
			if _, err := io.ReadFull(r, m.Cpk[:]); err != nil {
				return nil, err
			}
		}

	case TxVersionIcannBatch:
		regCount, err := readVarInt(r)
		if err != nil {
			return nil, err
		}
		regs := make([]string, regCount)
		for i := range regs {
			b, err := readVarBytes(r)
			if err != nil {
				return nil, err
			}
			regs[i] = string(b)
		}
		m.IcannRegistrations = regs

		if _, err := io.ReadFull(r, m.IcannSig[:]); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func writeTxIn(w io.Writer, in *TxIn) error {
	if _, err := w.Write(in.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := writeUint32(w, in.PreviousOutPoint.Index); err != nil {
		return err
	}
	if err := writeVarBytes(w, in.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, in.Sequence)
}

func readTxIn(r io.Reader) (*TxIn, error) {
	in := &TxIn{}
	if _, err := io.ReadFull(r, in.PreviousOutPoint.Hash[:]); err != nil {
		return nil, err
	}
	idx, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	in.PreviousOutPoint.Index = idx

	sigScript, err := readVarBytes(r)
	if err != nil {
		return nil, err
	}
	in.SignatureScript = sigScript

	seq, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	in.Sequence = seq
	return in, nil
}

func writeTxOut(w io.Writer, out *TxOut) error {
	if err := writeInt64(w, out.Value); err != nil {
		return err
	}
	return writeVarBytes(w, out.PkScript)
}

func readTxOut(r io.Reader) (*TxOut, error) {
	value, err := readInt64(r)
	if err != nil {
		return nil, err
	}
	script, err := readVarBytes(r)
	if err != nil {
		return nil, err
	}
	return &TxOut{Value: value, PkScript: script}, nil
}

// --- low-level primitive codecs ---

func writeInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// writeUint32BE emits the IPv4 field in explicit network byte order, per
// the corrected wire format (the original implementation's htonl/ntohl
// pairing round-tripped but encoded the value in host byte order on a
// little-endian machine).
func writeUint32BE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32BE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeInt64(w io.Writer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

func readInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func writeBool(w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("wire: invalid bool byte 0x%02x", b[0])
	}
}

// writeVarInt writes a Bitcoin-style CompactSize-encoded unsigned integer.
func writeVarInt(w io.Writer, v uint64) error {
	switch {
	case v < 0xfd:
		_, err := w.Write([]byte{byte(v)})
		return err
	case v <= 0xffff:
		b := make([]byte, 3)
		b[0] = 0xfd
		binary.LittleEndian.PutUint16(b[1:], uint16(v))
		_, err := w.Write(b)
		return err
	case v <= 0xffffffff:
		b := make([]byte, 5)
		b[0] = 0xfe
		binary.LittleEndian.PutUint32(b[1:], uint32(v))
		_, err := w.Write(b)
		return err
	default:
		b := make([]byte, 9)
		b[0] = 0xff
		binary.LittleEndian.PutUint64(b[1:], v)
		_, err := w.Write(b)
		return err
	}
}

func readVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	default:
		return uint64(prefix[0]), nil
	}
}

func writeVarBytes(w io.Writer, b []byte) error {
	if err := writeVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readVarBytes(r io.Reader) ([]byte, error) {
	n, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
