package prover

import (
	"context"
	"errors"
	"sync"

	"github.com/zkattest/zkattest/zkvm"
)

// Pool errors.
var (
	ErrPoolClosed = errors.New("prover: pool is closed")
	ErrPoolFull   = errors.New("prover: pool queue is full")
)

// PoolConfig configures the proving pool.
type PoolConfig struct {
	// Workers is the number of concurrent proving workers.
	Workers int

	// QueueSize is the maximum number of pending prove requests.
	QueueSize int
}

// Result is the outcome of one pooled prove request. Exactly one of
// Receipt and Err is set.
type Result struct {
	Receipt *zkvm.Receipt
	Err     error
}

type job struct {
	ctx     context.Context
	message []byte
	out     chan Result
}

// Pool runs prove requests on a bounded set of workers so interactive
// callers are not blocked by proof generation. Each request is still an
// independent, stateless proving operation.
type Pool struct {
	prover *Prover
	jobs   chan job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool creates and starts a proving pool. Zero config fields get
// defaults (2 workers, queue of 16).
func NewPool(p *Prover, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	pl := &Pool{
		prover: p,
		jobs:   make(chan job, cfg.QueueSize),
	}
	pl.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go pl.worker()
	}
	return pl
}

func (pl *Pool) worker() {
	defer pl.wg.Done()
	for j := range pl.jobs {
		receipt, err := pl.prover.Prove(j.ctx, j.message)
		j.out <- Result{Receipt: receipt, Err: err}
	}
}

// Submit enqueues a prove request and returns the channel its result will
// be delivered on. The channel is buffered: an abandoned caller does not
// block the worker, it just never reads the late result. Submit fails
// fast with ErrPoolFull when the queue is at capacity.
func (pl *Pool) Submit(ctx context.Context, message []byte) (<-chan Result, error) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	if pl.closed {
		return nil, ErrPoolClosed
	}
	out := make(chan Result, 1)
	select {
	case pl.jobs <- job{ctx: ctx, message: message, out: out}:
		return out, nil
	default:
		return nil, ErrPoolFull
	}
}

// Close stops accepting requests and waits for in-flight proves to finish.
func (pl *Pool) Close() {
	pl.mu.Lock()
	if pl.closed {
		pl.mu.Unlock()
		return
	}
	pl.closed = true
	close(pl.jobs)
	pl.mu.Unlock()
	pl.wg.Wait()
}
