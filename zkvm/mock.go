package zkvm

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/zkattest/zkattest/core/types"
	"github.com/zkattest/zkattest/crypto"
)

const mockEngineName = "mock"

// mockSealPrefix tags mock seals so they are never confused with real
// proof bytes.
var mockSealPrefix = []byte("mock-seal:")

// MockImageID is the fixed program identity of the mock guest. Keeping it
// constant lets receipts round-trip across processes in tests.
var MockImageID = crypto.Keccak256Hash([]byte("zkattest/mock-guest/v1"))

// MockEngine runs the guest program as a plain function call and seals the
// receipt with a deterministic SHA-256 binding over (image ID, journal).
// It exercises the full pipeline without real proof generation: guest
// abort semantics, journal commitment, and seal tampering are all
// observable, but the seal carries no zero-knowledge weight.
type MockEngine struct {
	imageID types.Hash
}

// NewMockEngine creates a mock engine with the well-known image ID.
func NewMockEngine() *MockEngine {
	return &MockEngine{imageID: MockImageID}
}

// NewMockEngineWithImageID creates a mock engine claiming a different
// program identity. Used to test program pinning.
func NewMockEngineWithImageID(id types.Hash) *MockEngine {
	return &MockEngine{imageID: id}
}

// Name implements Engine.
func (e *MockEngine) Name() string { return mockEngineName }

// ImageID implements Engine.
func (e *MockEngine) ImageID() types.Hash { return e.imageID }

// Execute implements Engine.
func (e *MockEngine) Execute(ctx context.Context, input *GuestInput) (*Receipt, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	journal, err := RunGuest(input)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		ImageID: e.imageID,
		Journal: journal,
		Seal:    e.seal(journal),
	}, nil
}

// VerifySeal implements Engine.
func (e *MockEngine) VerifySeal(r *Receipt) error {
	if r == nil || len(r.Seal) == 0 {
		return ErrSealInvalid
	}
	if r.ImageID != e.imageID {
		return fmt.Errorf("%w: image ID mismatch", ErrSealInvalid)
	}
	j, err := DecodeJournal(r.Journal)
	if err != nil {
		return err
	}
	if _, err := crypto.ParsePublicKey(j.PublicKey); err != nil {
		return fmt.Errorf("%w: %v", ErrJournalMalformed, err)
	}
	if !bytes.Equal(r.Seal, e.seal(r.Journal)) {
		return ErrSealInvalid
	}
	return nil
}

// seal computes the deterministic binding over the image ID and journal.
func (e *MockEngine) seal(journal []byte) []byte {
	h := sha256.New()
	h.Write(e.imageID.Bytes())
	h.Write(journal)
	return append(append([]byte(nil), mockSealPrefix...), h.Sum(nil)...)
}
