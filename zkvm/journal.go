package zkvm

import (
	"encoding/binary"
	"errors"

	"github.com/zkattest/zkattest/crypto"
)

// ErrJournalMalformed reports a journal whose shape is invalid, even when
// the enclosing seal verified. The seal guarantees the journal's integrity
// relative to execution, not its application-level layout, so the layout
// is validated on every decode.
var ErrJournalMalformed = errors.New("zkvm: malformed journal")

// Journal is the decoded public output log of a committed guest execution.
type Journal struct {
	// PublicKey is the SEC1 compressed public key the signature verified
	// under.
	PublicKey []byte

	// Message is the byte sequence the signature covered.
	Message []byte
}

// Journal wire layout:
//
//	1 byte   public key length (must be 33)
//	33 bytes compressed public key
//	4 bytes  big-endian message length
//	N bytes  message

// EncodeJournal serializes a journal.
func EncodeJournal(j *Journal) ([]byte, error) {
	if j == nil || len(j.PublicKey) != crypto.CompressedPubKeyLength {
		return nil, ErrJournalMalformed
	}
	out := make([]byte, 0, 1+crypto.CompressedPubKeyLength+4+len(j.Message))
	out = append(out, byte(crypto.CompressedPubKeyLength))
	out = append(out, j.PublicKey...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(j.Message)))
	out = append(out, j.Message...)
	return out, nil
}

// DecodeJournal parses a journal, validating its shape exactly: wrong
// lengths, truncation, or trailing bytes all fail.
func DecodeJournal(data []byte) (*Journal, error) {
	if len(data) < 1+crypto.CompressedPubKeyLength+4 {
		return nil, ErrJournalMalformed
	}
	if data[0] != crypto.CompressedPubKeyLength {
		return nil, ErrJournalMalformed
	}
	pubkey := data[1 : 1+crypto.CompressedPubKeyLength]
	rest := data[1+crypto.CompressedPubKeyLength:]
	msgLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint32(len(rest)) != msgLen {
		return nil, ErrJournalMalformed
	}
	j := &Journal{
		PublicKey: append([]byte(nil), pubkey...),
		Message:   append([]byte(nil), rest...),
	}
	return j, nil
}
