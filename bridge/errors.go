package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/zkattest/zkattest/crypto"
	"github.com/zkattest/zkattest/verifier"
	"github.com/zkattest/zkattest/zkvm"
)

// External error codes. These are the stable surface exposed to callers;
// internal error kinds map onto them and nothing else crosses the
// boundary.
const (
	CodeRandomnessUnavailable = "RANDOMNESS_UNAVAILABLE"
	CodeSigningFailure        = "SIGNING_FAILURE"
	CodeExecutionAborted      = "EXECUTION_ABORTED"
	CodeExecutionEngineError  = "EXECUTION_ENGINE_ERROR"
	CodeDeserializationError  = "DESERIALIZATION_ERROR"
	CodeImageIDMismatch       = "IMAGE_ID_MISMATCH"
	CodeInvalidProof          = "INVALID_PROOF"
	CodeMalformedJournal      = "MALFORMED_JOURNAL"
	CodeCancelled             = "CANCELLED"
	CodeInternal              = "INTERNAL"
)

// Error is the typed error returned across the boundary. The message is
// human-readable and carries no key material, nonces, or signature bytes.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError folds an internal error into its external code. Unrecognized
// errors become INTERNAL; the internal error text is not forwarded.
func mapError(err error) *Error {
	switch {
	case errors.Is(err, crypto.ErrRandomnessUnavailable):
		return &Error{Code: CodeRandomnessUnavailable, Message: "randomness source unavailable"}
	case errors.Is(err, crypto.ErrSigningFailure):
		return &Error{Code: CodeSigningFailure, Message: "message signing failed"}
	case errors.Is(err, zkvm.ErrExecutionAborted):
		return &Error{Code: CodeExecutionAborted, Message: "guest execution aborted"}
	case errors.Is(err, verifier.ErrDeserialization):
		return &Error{Code: CodeDeserializationError, Message: "receipt could not be deserialized"}
	case errors.Is(err, verifier.ErrImageIDMismatch):
		return &Error{Code: CodeImageIDMismatch, Message: "receipt does not match the expected program"}
	case errors.Is(err, verifier.ErrInvalidSeal):
		return &Error{Code: CodeInvalidProof, Message: "proof verification failed"}
	case errors.Is(err, verifier.ErrMalformedJournal):
		return &Error{Code: CodeMalformedJournal, Message: "committed output log is malformed"}
	case errors.Is(err, zkvm.ErrEngineFailure):
		return &Error{Code: CodeExecutionEngineError, Message: "execution engine failure"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeCancelled, Message: "operation abandoned by caller"}
	default:
		return &Error{Code: CodeInternal, Message: "internal error"}
	}
}
