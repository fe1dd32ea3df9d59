package prover

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zkattest/zkattest/crypto"
	"github.com/zkattest/zkattest/metrics"
	"github.com/zkattest/zkattest/zkvm"
)

func TestProveProducesVerifiableReceipt(t *testing.T) {
	engine := zkvm.NewMockEngine()
	p := New(engine)

	receipt, err := p.Prove(context.Background(), []byte("hello world"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if receipt.ImageID != engine.ImageID() {
		t.Fatalf("image ID = %s, want %s", receipt.ImageID, engine.ImageID())
	}
	if err := engine.VerifySeal(receipt); err != nil {
		t.Fatalf("VerifySeal: %v", err)
	}
	j, err := zkvm.DecodeJournal(receipt.Journal)
	if err != nil {
		t.Fatalf("DecodeJournal: %v", err)
	}
	if string(j.Message) != "hello world" {
		t.Fatalf("committed message = %q, want %q", j.Message, "hello world")
	}
}

func TestProveEphemeralKeysDiffer(t *testing.T) {
	// Two proves of the same message must use fresh keys and nonces:
	// the committed public keys must differ.
	p := New(zkvm.NewMockEngine())
	msg := []byte("same message")

	r1, err := p.Prove(context.Background(), msg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	r2, err := p.Prove(context.Background(), msg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	j1, _ := zkvm.DecodeJournal(r1.Journal)
	j2, _ := zkvm.DecodeJournal(r2.Journal)
	if bytes.Equal(j1.PublicKey, j2.PublicKey) {
		t.Fatal("two prove calls committed the same ephemeral public key")
	}
}

// abortEngine always reports guest abort, exercising the should-not-occur
// path of the orchestrator.
type abortEngine struct {
	zkvm.MockEngine
}

func (e *abortEngine) Execute(ctx context.Context, input *zkvm.GuestInput) (*zkvm.Receipt, error) {
	return nil, zkvm.ErrExecutionAborted
}

func TestProveNeverReturnsReceiptOnFailure(t *testing.T) {
	p := New(&abortEngine{})
	receipt, err := p.Prove(context.Background(), []byte("msg"))
	if !errors.Is(err, zkvm.ErrExecutionAborted) {
		t.Fatalf("err = %v, want ErrExecutionAborted", err)
	}
	if receipt != nil {
		t.Fatal("failed prove returned a receipt")
	}
}

func TestProveSoundnessDirectEngine(t *testing.T) {
	// Bypassing the orchestrator with a tampered signature must never
	// yield a receipt committing the message.
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	defer kp.Destroy()
	sig, err := kp.Sign([]byte("target message"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig.R.AddUint64(&sig.R, 1)

	engine := zkvm.NewMockEngine()
	receipt, err := engine.Execute(context.Background(), &zkvm.GuestInput{
		PublicKey: kp.PublicKeyBytes(),
		Message:   []byte("target message"),
		Signature: sig,
	})
	if !errors.Is(err, zkvm.ErrExecutionAborted) {
		t.Fatalf("err = %v, want ErrExecutionAborted", err)
	}
	if receipt != nil {
		t.Fatal("engine produced a receipt for an invalid signature")
	}
}

func TestProveRecordsMetrics(t *testing.T) {
	c := metrics.NewCollector()
	p := New(zkvm.NewMockEngine(), WithCollector(c))
	if _, err := p.Prove(context.Background(), []byte("m")); err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if got := c.Count("prover.prove.success"); got != 1 {
		t.Fatalf("success count = %d, want 1", got)
	}
	if got := c.Duration("prover.prove").Count; got != 1 {
		t.Fatalf("duration count = %d, want 1", got)
	}

	pf := New(&abortEngine{}, WithCollector(c))
	if _, err := pf.Prove(context.Background(), []byte("m")); err == nil {
		t.Fatal("expected failure")
	}
	if got := c.Count("prover.prove.failure"); got != 1 {
		t.Fatalf("failure count = %d, want 1", got)
	}
}

func TestPoolProvesConcurrently(t *testing.T) {
	p := New(zkvm.NewMockEngine())
	pool := NewPool(p, PoolConfig{Workers: 4, QueueSize: 32})
	defer pool.Close()

	const n = 16
	results := make([]<-chan Result, n)
	for i := 0; i < n; i++ {
		ch, err := pool.Submit(context.Background(), []byte("pooled message"))
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		results[i] = ch
	}
	for i, ch := range results {
		res := <-ch
		if res.Err != nil {
			t.Fatalf("result %d: %v", i, res.Err)
		}
		if res.Receipt == nil {
			t.Fatalf("result %d: nil receipt", i)
		}
	}
}

func TestPoolRejectsWhenFull(t *testing.T) {
	// Zero workers are bumped to the default, so block the queue with a
	// pool whose workers are busy on slow jobs.
	block := make(chan struct{})
	engine := &blockingEngine{release: block}
	pool := NewPool(New(engine), PoolConfig{Workers: 1, QueueSize: 1})

	// First submit occupies the worker, second fills the queue.
	ch1, err := pool.Submit(context.Background(), []byte("a"))
	if err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	engine.waitBusy()
	ch2, err := pool.Submit(context.Background(), []byte("b"))
	if err != nil {
		t.Fatalf("Submit 2: %v", err)
	}
	if _, err := pool.Submit(context.Background(), []byte("c")); err != ErrPoolFull {
		t.Fatalf("err = %v, want ErrPoolFull", err)
	}

	close(block)
	<-ch1
	<-ch2
	pool.Close()
}

func TestPoolClosedRejectsSubmit(t *testing.T) {
	pool := NewPool(New(zkvm.NewMockEngine()), PoolConfig{})
	pool.Close()
	if _, err := pool.Submit(context.Background(), []byte("x")); err != ErrPoolClosed {
		t.Fatalf("err = %v, want ErrPoolClosed", err)
	}
	// Close is idempotent.
	pool.Close()
}

// blockingEngine parks Execute until released, to fill pool queues
// deterministically.
type blockingEngine struct {
	zkvm.MockEngine
	release <-chan struct{}

	once sync.Once
	busy chan struct{}
}

func (e *blockingEngine) init() {
	e.once.Do(func() { e.busy = make(chan struct{}, 8) })
}

func (e *blockingEngine) waitBusy() {
	e.init()
	<-e.busy
}

func (e *blockingEngine) Execute(ctx context.Context, input *zkvm.GuestInput) (*zkvm.Receipt, error) {
	e.init()
	e.busy <- struct{}{}
	<-e.release
	return zkvm.NewMockEngine().Execute(ctx, input)
}
