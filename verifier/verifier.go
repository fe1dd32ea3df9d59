// Package verifier reconstructs trust in a serialized receipt: it checks
// the receipt against the pinned guest program identity, verifies the
// seal, and extracts the committed message.
package verifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/zkattest/zkattest/core/types"
	"github.com/zkattest/zkattest/log"
	"github.com/zkattest/zkattest/metrics"
	"github.com/zkattest/zkattest/zkvm"
)

// Verification errors, in check order.
var (
	ErrDeserialization  = errors.New("verifier: receipt deserialization failed")
	ErrImageIDMismatch  = errors.New("verifier: receipt image ID does not match pinned program")
	ErrInvalidSeal      = errors.New("verifier: seal verification failed")
	ErrMalformedJournal = errors.New("verifier: journal is malformed")
)

// Result is the outcome of a successful verification. Message and
// PublicKey are only populated when Valid is true.
type Result struct {
	Valid     bool
	Message   []byte
	PublicKey []byte
}

// Verifier validates serialized receipts against one pinned program
// identity. It is stateless across calls and safe for concurrent use.
type Verifier struct {
	engine    zkvm.Engine
	imageID   types.Hash
	logger    *log.Logger
	collector *metrics.Collector
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// WithCollector wires a metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(v *Verifier) { v.collector = c }
}

// New creates a Verifier pinned to the engine's program identity.
func New(engine zkvm.Engine, opts ...Option) *Verifier {
	v := &Verifier{engine: engine, imageID: engine.ImageID()}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = log.Default()
	}
	v.logger = v.logger.Module("verifier")
	return v
}

// ImageID returns the pinned program identity.
func (v *Verifier) ImageID() types.Hash { return v.imageID }

// Verify checks receiptBytes and extracts the committed message.
//
// The checks run in order and fail closed: deserialization, program
// identity, seal, journal shape. A receipt against any other program
// identity is rejected before its seal is even examined.
func (v *Verifier) Verify(receiptBytes []byte) (*Result, error) {
	start := time.Now()

	receipt, err := zkvm.DecodeReceipt(receiptBytes)
	if err != nil {
		v.collector.Inc("verifier.verify.failure")
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	if receipt.ImageID != v.imageID {
		v.collector.Inc("verifier.verify.failure")
		v.logger.Debug("image ID mismatch", "got", receipt.ImageID, "pinned", v.imageID)
		return nil, ErrImageIDMismatch
	}

	if err := v.engine.VerifySeal(receipt); err != nil {
		v.collector.Inc("verifier.verify.failure")
		if errors.Is(err, zkvm.ErrJournalMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJournal, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeal, err)
	}

	// The seal guarantees the journal's integrity relative to execution,
	// not its shape; validate the shape defensively even after the seal
	// checked out.
	journal, err := zkvm.DecodeJournal(receipt.Journal)
	if err != nil {
		v.collector.Inc("verifier.verify.failure")
		return nil, fmt.Errorf("%w: %v", ErrMalformedJournal, err)
	}

	v.collector.Inc("verifier.verify.success")
	v.collector.Observe("verifier.verify", time.Since(start))
	v.logger.Debug("receipt verified", "image_id", receipt.ImageID, "message_len", len(journal.Message))

	return &Result{
		Valid:     true,
		Message:   journal.Message,
		PublicKey: journal.PublicKey,
	}, nil
}
