// Package bridge is the external boundary of the attestation pipeline. It
// exposes exactly two operations, prove and verify, over primitive types
// (strings and byte sequences) and maps every internal failure to a
// stable external error code. It contains no business logic of its own.
package bridge

import (
	"context"

	"github.com/zkattest/zkattest/log"
	"github.com/zkattest/zkattest/prover"
	"github.com/zkattest/zkattest/verifier"
	"github.com/zkattest/zkattest/zkvm"
)

// ProofOutput is the result of a successful prove call.
type ProofOutput struct {
	// Receipt is the serialized execution receipt.
	Receipt []byte
}

// VerifyOutput is the result of a successful verify call.
type VerifyOutput struct {
	// IsValid reports that the receipt verified. Always true on a nil
	// error; present for boundary-schema compatibility.
	IsValid bool

	// Message is the committed message, decoded as UTF-8.
	Message string
}

// Bridge wires a prover and verifier over one shared engine.
type Bridge struct {
	prover   *prover.Prover
	verifier *verifier.Verifier
}

// New creates a Bridge over the given execution engine.
func New(engine zkvm.Engine, opts ...Option) *Bridge {
	cfg := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bridge{
		prover: prover.New(engine,
			prover.WithLogger(cfg.logger),
			prover.WithCollector(cfg.collector),
		),
		verifier: verifier.New(engine,
			verifier.WithLogger(cfg.logger),
			verifier.WithCollector(cfg.collector),
		),
	}
}

// Prove generates a receipt attesting that a valid P-256 ECDSA signature
// over message exists. The keypair is ephemeral and never crosses the
// boundary. On failure the returned error is always a *Error.
func (b *Bridge) Prove(ctx context.Context, message string) (*ProofOutput, error) {
	receipt, err := b.prover.Prove(ctx, []byte(message))
	if err != nil {
		return nil, mapError(err)
	}
	return &ProofOutput{Receipt: zkvm.EncodeReceipt(receipt)}, nil
}

// Verify checks a serialized receipt and returns the committed message.
// On failure the returned error is always a *Error.
func (b *Bridge) Verify(receipt []byte) (*VerifyOutput, error) {
	res, err := b.verifier.Verify(receipt)
	if err != nil {
		return nil, mapError(err)
	}
	return &VerifyOutput{
		IsValid: res.Valid,
		Message: string(res.Message),
	}, nil
}
