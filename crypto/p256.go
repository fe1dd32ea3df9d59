// Package crypto implements the secp256r1 (NIST P-256) signature engine:
// ephemeral keypair generation, message signing, and the verification
// predicate shared with the in-circuit verifier.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Signature engine errors.
var (
	ErrRandomnessUnavailable = errors.New("crypto: randomness source unavailable")
	ErrSigningFailure        = errors.New("crypto: signing failed")
	ErrInvalidPublicKey      = errors.New("crypto: invalid public key encoding")
	ErrInvalidSignature      = errors.New("crypto: invalid signature encoding")
)

// CompressedPubKeyLength is the byte length of a SEC1 compressed P-256 point.
const CompressedPubKeyLength = 33

// SignatureLength is the byte length of an encoded signature (r ‖ s).
const SignatureLength = 64

// Signature is a P-256 ECDSA signature. R and S are scalars modulo the
// curve order, carried as fixed-width 256-bit integers.
type Signature struct {
	R uint256.Int
	S uint256.Int
}

// Bytes returns the 64-byte big-endian r ‖ s encoding.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	r := sig.R.Bytes32()
	s := sig.S.Bytes32()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// SignatureFromBytes decodes a 64-byte r ‖ s signature.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, ErrInvalidSignature
	}
	var sig Signature
	sig.R.SetBytes(b[:32])
	sig.S.SetBytes(b[32:])
	return &sig, nil
}

// BigInts returns r and s as big integers, for consumers that need
// math/big semantics (stdlib ECDSA, circuit witness assignment).
func (sig *Signature) BigInts() (r, s *big.Int) {
	return sig.R.ToBig(), sig.S.ToBig()
}

// KeyPair is an ephemeral P-256 keypair. It lives for the duration of a
// single proving operation: generate, sign once, then Destroy. The private
// scalar never leaves this package.
type KeyPair struct {
	priv *ecdsa.PrivateKey
}

// GenerateKeyPair creates a fresh keypair from the system randomness
// source. Failure here means the environment cannot supply entropy.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return &KeyPair{priv: priv}, nil
}

// PublicKeyBytes returns the SEC1 compressed encoding of the public key.
func (kp *KeyPair) PublicKeyBytes() []byte {
	return elliptic.MarshalCompressed(elliptic.P256(), kp.priv.PublicKey.X, kp.priv.PublicKey.Y)
}

// Sign signs the message digest with a fresh random nonce. The nonce is
// drawn from the system randomness source per call; two signatures over
// the same message from the same key must differ.
func (kp *KeyPair) Sign(message []byte) (*Signature, error) {
	if kp.priv == nil || kp.priv.D == nil || kp.priv.D.Sign() == 0 {
		return nil, fmt.Errorf("%w: destroyed or uninitialized key", ErrSigningFailure)
	}
	digest := HashMessage(message)
	r, s, err := ecdsa.Sign(rand.Reader, kp.priv, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}
	var sig Signature
	sig.R.SetFromBig(r)
	sig.S.SetFromBig(s)
	return &sig, nil
}

// Destroy zeroes the private scalar. The keypair is unusable afterwards.
// Safe to call multiple times.
func (kp *KeyPair) Destroy() {
	if kp.priv == nil || kp.priv.D == nil {
		return
	}
	// big.Int does not expose its limbs for explicit wiping; overwrite the
	// value and drop the reference so the scalar is unrecoverable through
	// the KeyPair.
	kp.priv.D.SetInt64(0)
	kp.priv = nil
}

// HashMessage computes the 32-byte SHA-256 digest that is signed and
// verified. The native verifier and the circuit both interpret this digest
// as a big-endian integer, so the two arithmetics agree byte for byte.
func HashMessage(message []byte) []byte {
	digest := sha256.Sum256(message)
	return digest[:]
}

// ParsePublicKey decodes a SEC1 compressed P-256 public key and checks it
// is a valid curve point.
func ParsePublicKey(pubkey []byte) (*ecdsa.PublicKey, error) {
	if len(pubkey) != CompressedPubKeyLength {
		return nil, ErrInvalidPublicKey
	}
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), pubkey)
	if x == nil {
		return nil, ErrInvalidPublicKey
	}
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
}

// VerifyP256 is the verification predicate: it reports whether sig is a
// valid signature over message under the given compressed public key. It
// is a pure function of its arguments.
func VerifyP256(pubkey []byte, message []byte, sig *Signature) bool {
	if sig == nil {
		return false
	}
	pk, err := ParsePublicKey(pubkey)
	if err != nil {
		return false
	}
	r, s := sig.BigInts()
	return ecdsa.Verify(pk, HashMessage(message), r, s)
}
