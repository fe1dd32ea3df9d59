package zkvm

import (
	"github.com/zkattest/zkattest/crypto"
)

// GuestState tracks a guest execution through its two terminal states.
type GuestState uint8

const (
	// StateRunning is the initial state of a guest execution.
	StateRunning GuestState = iota

	// StateCommitted means the signature verified and the journal was
	// written.
	StateCommitted

	// StateAborted means the signature did not verify; no journal exists.
	StateAborted
)

// String returns the name of the guest state.
func (s GuestState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// GuestExecution is one run of the verification program. The program
// checks the signature against the public key and message; on success it
// commits (public key, message) to the journal, on failure it aborts and
// the enclosing proof attempt must fail.
type GuestExecution struct {
	input   *GuestInput
	state   GuestState
	journal []byte
}

// NewGuestExecution prepares a guest execution over the given input.
func NewGuestExecution(input *GuestInput) *GuestExecution {
	return &GuestExecution{input: input, state: StateRunning}
}

// State returns the current execution state.
func (g *GuestExecution) State() GuestState { return g.state }

// Journal returns the committed journal, or nil unless committed.
func (g *GuestExecution) Journal() []byte { return g.journal }

// Run executes the verification program. It returns the committed journal
// bytes, or ErrExecutionAborted if the signature does not verify. A guest
// execution runs at most once.
func (g *GuestExecution) Run() ([]byte, error) {
	if g.input == nil {
		g.state = StateAborted
		return nil, ErrNilInput
	}
	if g.state != StateRunning {
		return nil, ErrEngineFailure
	}
	if !crypto.VerifyP256(g.input.PublicKey, g.input.Message, g.input.Signature) {
		g.state = StateAborted
		return nil, ErrExecutionAborted
	}
	journal, err := EncodeJournal(&Journal{
		PublicKey: g.input.PublicKey,
		Message:   g.input.Message,
	})
	if err != nil {
		g.state = StateAborted
		return nil, err
	}
	g.state = StateCommitted
	g.journal = journal
	return journal, nil
}

// RunGuest is a convenience wrapper running a fresh guest execution.
func RunGuest(input *GuestInput) ([]byte, error) {
	return NewGuestExecution(input).Run()
}
