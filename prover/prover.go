// Package prover implements the proof orchestrator: it binds an ephemeral
// signing operation into a guest execution and returns the sealed receipt.
package prover

import (
	"context"
	"time"

	"github.com/zkattest/zkattest/crypto"
	"github.com/zkattest/zkattest/log"
	"github.com/zkattest/zkattest/metrics"
	"github.com/zkattest/zkattest/zkvm"
)

// Prover drives one proving operation at a time: generate an ephemeral
// keypair, sign the message, execute the verification guest, return the
// receipt. It holds no state across calls; concurrent Prove calls are
// independent.
type Prover struct {
	engine    zkvm.Engine
	logger    *log.Logger
	collector *metrics.Collector
}

// Option configures a Prover.
type Option func(*Prover)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Prover) { p.logger = l }
}

// WithCollector wires a metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(p *Prover) { p.collector = c }
}

// New creates a Prover over the given execution engine.
func New(engine zkvm.Engine, opts ...Option) *Prover {
	p := &Prover{engine: engine}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	p.logger = p.logger.Module("prover")
	return p
}

// Engine returns the underlying execution engine.
func (p *Prover) Engine() zkvm.Engine { return p.engine }

// Prove produces a receipt attesting that a valid P-256 signature over
// message exists. The keypair and signature are ephemeral: the private
// key is destroyed before Prove returns, on every path, and neither key
// nor signature appears in the receipt.
//
// Proof generation dominates the cost; treat this as a long-running
// blocking call. A failed Prove never returns a receipt.
func (p *Prover) Prove(ctx context.Context, message []byte) (*zkvm.Receipt, error) {
	start := time.Now()

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		p.collector.Inc("prover.prove.failure")
		return nil, err
	}
	defer kp.Destroy()

	sig, err := kp.Sign(message)
	if err != nil {
		p.collector.Inc("prover.prove.failure")
		return nil, err
	}

	input := &zkvm.GuestInput{
		PublicKey: kp.PublicKeyBytes(),
		Message:   message,
		Signature: sig,
	}
	receipt, err := p.engine.Execute(ctx, input)
	if err != nil {
		p.collector.Inc("prover.prove.failure")
		p.logger.Warn("guest execution failed", "engine", p.engine.Name(), "err", err)
		return nil, err
	}

	p.collector.Inc("prover.prove.success")
	p.collector.Observe("prover.prove", time.Since(start))
	p.logger.Debug("receipt produced",
		"engine", p.engine.Name(),
		"image_id", receipt.ImageID,
		"message_len", len(message),
		"elapsed", time.Since(start),
	)
	return receipt, nil
}
