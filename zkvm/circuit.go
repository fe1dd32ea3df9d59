package zkvm

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/signature/ecdsa"
)

// signatureCircuit is the guest program expressed as constraints: it is
// satisfiable exactly when (SigR, SigS) is a valid P-256 ECDSA signature
// over MessageHash under PublicKey. The public key and message hash are
// public inputs; the signature stays secret, so a proof attests that some
// valid signature exists without revealing it.
//
// P-256 arithmetic is emulated over the BN254 scalar field.
type signatureCircuit struct {
	PublicKey   sw_emulated.AffinePoint[emulated.P256Fp] `gnark:",public"`
	MessageHash emulated.Element[emulated.P256Fr]        `gnark:",public"`

	SigR emulated.Element[emulated.P256Fr] `gnark:",secret"`
	SigS emulated.Element[emulated.P256Fr] `gnark:",secret"`
}

// Define implements frontend.Circuit.
func (c *signatureCircuit) Define(api frontend.API) error {
	params := sw_emulated.GetP256Params()
	pub := ecdsa.PublicKey[emulated.P256Fp, emulated.P256Fr](c.PublicKey)
	sig := &ecdsa.Signature[emulated.P256Fr]{R: c.SigR, S: c.SigS}
	pub.Verify(api, params, &c.MessageHash, sig)
	return nil
}

// newSignatureAssignment builds the full witness assignment for proving.
func newSignatureAssignment(x, y, digest, r, s *big.Int) *signatureCircuit {
	return &signatureCircuit{
		PublicKey: sw_emulated.AffinePoint[emulated.P256Fp]{
			X: emulated.ValueOf[emulated.P256Fp](x),
			Y: emulated.ValueOf[emulated.P256Fp](y),
		},
		MessageHash: emulated.ValueOf[emulated.P256Fr](digest),
		SigR:        emulated.ValueOf[emulated.P256Fr](r),
		SigS:        emulated.ValueOf[emulated.P256Fr](s),
	}
}

// newPublicAssignment builds the public-only assignment used for seal
// verification. The secret signature fields stay zero; they are not
// visited when the witness is built with frontend.PublicOnly.
func newPublicAssignment(x, y, digest *big.Int) *signatureCircuit {
	return &signatureCircuit{
		PublicKey: sw_emulated.AffinePoint[emulated.P256Fp]{
			X: emulated.ValueOf[emulated.P256Fp](x),
			Y: emulated.ValueOf[emulated.P256Fp](y),
		},
		MessageHash: emulated.ValueOf[emulated.P256Fr](digest),
	}
}
