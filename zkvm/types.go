// Package zkvm provides the isolated-execution abstraction for the
// signature attestation pipeline: a guest program that verifies a P-256
// ECDSA signature and commits the signed message, engines that execute the
// guest and seal the result into a receipt, and the receipt wire codec.
package zkvm

import (
	"context"
	"errors"

	"github.com/zkattest/zkattest/core/types"
	"github.com/zkattest/zkattest/crypto"
)

// Execution errors.
var (
	ErrNilInput         = errors.New("zkvm: nil guest input")
	ErrExecutionAborted = errors.New("zkvm: guest aborted, signature did not verify")
	ErrEngineFailure    = errors.New("zkvm: execution engine failure")
	ErrSealInvalid      = errors.New("zkvm: seal verification failed")
)

// GuestInput carries the inputs of one guest execution. PublicKey and
// Message become public outputs on success; Signature is consumed by the
// verification predicate and never emitted.
type GuestInput struct {
	// PublicKey is the SEC1 compressed P-256 public key.
	PublicKey []byte

	// Message is the signed byte sequence.
	Message []byte

	// Signature is the ECDSA signature being verified.
	Signature *crypto.Signature
}

// Receipt binds a guest program's identity, its public output journal, and
// a seal proving the execution committed that journal. It is the only
// artifact that crosses the external boundary.
type Receipt struct {
	// ImageID identifies the guest program the seal was produced against.
	ImageID types.Hash

	// Journal is the encoded public output log (public key and message).
	Journal []byte

	// Seal is the opaque cryptographic evidence.
	Seal []byte
}

// Engine is the capability interface over the isolated execution
// environment. Execute runs the guest on the given input and returns a
// sealed receipt, or an error if the guest aborts or the engine fails; no
// receipt is ever produced for an input whose signature does not verify.
// VerifySeal checks a receipt's seal against the engine's program.
//
// Implementations must be safe for concurrent use.
type Engine interface {
	// Name identifies the engine backend.
	Name() string

	// ImageID returns the identity of the guest program this engine
	// executes and verifies against.
	ImageID() types.Hash

	// Execute runs the guest program to completion. Execution is not
	// preemptible: the context is consulted before work starts, not
	// during proving.
	Execute(ctx context.Context, input *GuestInput) (*Receipt, error)

	// VerifySeal checks that the receipt's seal proves a committed
	// execution of this engine's guest program over the receipt's
	// journal. Returns nil on success.
	VerifySeal(r *Receipt) error
}
