package zkvm

import (
	"encoding/binary"
	"errors"

	"github.com/zkattest/zkattest/core/types"
)

// ErrReceiptMalformed reports receipt bytes that do not parse under the
// wire layout.
var ErrReceiptMalformed = errors.New("zkvm: malformed receipt")

// Receipt wire layout:
//
//	32 bytes image ID
//	4 bytes  big-endian journal length
//	N bytes  journal
//	4 bytes  big-endian seal length
//	M bytes  seal
//
// The layout is an exact contract: EncodeReceipt(DecodeReceipt(b)) == b
// for every valid b.

// EncodeReceipt serializes a receipt.
func EncodeReceipt(r *Receipt) []byte {
	out := make([]byte, 0, types.HashLength+4+len(r.Journal)+4+len(r.Seal))
	out = append(out, r.ImageID.Bytes()...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.Journal)))
	out = append(out, r.Journal...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.Seal)))
	out = append(out, r.Seal...)
	return out
}

// DecodeReceipt parses receipt bytes. Truncated input, inconsistent
// lengths, and trailing bytes all fail with ErrReceiptMalformed.
func DecodeReceipt(data []byte) (*Receipt, error) {
	if len(data) < types.HashLength+8 {
		return nil, ErrReceiptMalformed
	}
	var r Receipt
	r.ImageID = types.BytesToHash(data[:types.HashLength])
	rest := data[types.HashLength:]

	journalLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint64(len(rest)) < uint64(journalLen)+4 {
		return nil, ErrReceiptMalformed
	}
	r.Journal = append([]byte(nil), rest[:journalLen]...)
	rest = rest[journalLen:]

	sealLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint64(len(rest)) != uint64(sealLen) {
		return nil, ErrReceiptMalformed
	}
	r.Seal = append([]byte(nil), rest...)
	return &r, nil
}
