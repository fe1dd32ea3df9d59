package zkvm

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkattest/zkattest/core/types"
	"github.com/zkattest/zkattest/crypto"
	"github.com/zkattest/zkattest/log"
)

const groth16EngineName = "groth16-p256"

// Groth16Engine executes the guest program under a BN254 Groth16 proof
// system with emulated P-256 arithmetic. The circuit is compiled and the
// keys are set up once, at construction; the image ID is the Keccak-256
// hash of the serialized verifying key, so two engines share an identity
// exactly when they share a verifying key.
//
// Proving is the dominant cost of the whole pipeline (minutes of CPU for
// the emulated-curve circuit); callers should treat Execute as a
// long-running blocking operation.
type Groth16Engine struct {
	cs constraint.ConstraintSystem // nil on verify-only engines
	pk groth16.ProvingKey          // nil on verify-only engines
	vk groth16.VerifyingKey

	imageID types.Hash
	logger  *log.Logger
}

// NewGroth16Engine compiles the guest circuit and runs the Groth16 setup.
// The setup draws fresh randomness, so each engine constructed this way
// has a distinct image ID; use ExportVerifyingKey and NewGroth16Verifier
// to verify receipts in another process.
func NewGroth16Engine(logger *log.Logger) (*Groth16Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.Module("zkvm")

	logger.Info("compiling guest circuit", "engine", groth16EngineName)
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &signatureCircuit{})
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrEngineFailure, err)
	}

	logger.Info("running trusted setup", "constraints", cs.GetNbConstraints())
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("%w: setup: %v", ErrEngineFailure, err)
	}

	imageID, err := imageIDFromVerifyingKey(vk)
	if err != nil {
		return nil, err
	}
	logger.Info("guest program ready", "image_id", imageID)

	return &Groth16Engine{
		cs:      cs,
		pk:      pk,
		vk:      vk,
		imageID: imageID,
		logger:  logger,
	}, nil
}

// NewGroth16Verifier restores a verify-only engine from an exported
// verifying key. Its Execute always fails; VerifySeal accepts receipts
// produced by the engine the key was exported from.
func NewGroth16Verifier(vkBytes []byte, logger *log.Logger) (*Groth16Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("%w: verifying key: %v", ErrEngineFailure, err)
	}
	imageID, err := imageIDFromVerifyingKey(vk)
	if err != nil {
		return nil, err
	}
	return &Groth16Engine{
		vk:      vk,
		imageID: imageID,
		logger:  logger.Module("zkvm"),
	}, nil
}

// imageIDFromVerifyingKey derives the program identity from the canonical
// serialization of the verifying key.
func imageIDFromVerifyingKey(vk groth16.VerifyingKey) (types.Hash, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return types.Hash{}, fmt.Errorf("%w: serialize verifying key: %v", ErrEngineFailure, err)
	}
	return crypto.Keccak256Hash(buf.Bytes()), nil
}

// Name implements Engine.
func (e *Groth16Engine) Name() string { return groth16EngineName }

// ImageID implements Engine.
func (e *Groth16Engine) ImageID() types.Hash { return e.imageID }

// ExportVerifyingKey returns the serialized verifying key for use with
// NewGroth16Verifier.
func (e *Groth16Engine) ExportVerifyingKey() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.vk.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: serialize verifying key: %v", ErrEngineFailure, err)
	}
	return buf.Bytes(), nil
}

// Execute implements Engine. It runs the guest natively first; an aborted
// guest produces no proof attempt. On commit it proves the witness and
// seals the receipt with the serialized Groth16 proof.
//
// The context is checked before proving starts. Proving itself is not
// preemptible.
func (e *Groth16Engine) Execute(ctx context.Context, input *GuestInput) (*Receipt, error) {
	if e.pk == nil || e.cs == nil {
		return nil, fmt.Errorf("%w: engine is verify-only", ErrEngineFailure)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	journal, err := RunGuest(input)
	if err != nil {
		return nil, err
	}

	pub, err := crypto.ParsePublicKey(input.PublicKey)
	if err != nil {
		// RunGuest verified the signature, so the key must parse.
		return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}
	digest := new(big.Int).SetBytes(crypto.HashMessage(input.Message))
	r, s := input.Signature.BigInts()

	w, err := frontend.NewWitness(newSignatureAssignment(pub.X, pub.Y, digest, r, s), ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: witness: %v", ErrEngineFailure, err)
	}

	e.logger.Debug("proving guest execution", "journal_len", len(journal))
	proof, err := groth16.Prove(e.cs, e.pk, w)
	if err != nil {
		return nil, fmt.Errorf("%w: prove: %v", ErrEngineFailure, err)
	}

	var seal bytes.Buffer
	if _, err := proof.WriteTo(&seal); err != nil {
		return nil, fmt.Errorf("%w: serialize proof: %v", ErrEngineFailure, err)
	}

	return &Receipt{
		ImageID: e.imageID,
		Journal: journal,
		Seal:    seal.Bytes(),
	}, nil
}

// VerifySeal implements Engine. The public witness is reconstructed from
// the journal, so the proof is checked against exactly the committed
// public key and message.
func (e *Groth16Engine) VerifySeal(r *Receipt) error {
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
	pub, err := crypto.ParsePublicKey(j.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJournalMalformed, err)
	}
	digest := new(big.Int).SetBytes(crypto.HashMessage(j.Message))

	pw, err := frontend.NewWitness(newPublicAssignment(pub.X, pub.Y, digest), ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: public witness: %v", ErrEngineFailure, err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(r.Seal)); err != nil {
		return fmt.Errorf("%w: %v", ErrSealInvalid, err)
	}
	if err := groth16.Verify(proof, e.vk, pw); err != nil {
		return fmt.Errorf("%w: %v", ErrSealInvalid, err)
	}
	return nil
}
