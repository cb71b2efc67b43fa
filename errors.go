package pqconform

import (
	"errors"
	"fmt"

	"github.com/qudslab/conformance-go/internal/bufcheck"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNoProvider is returned when a harness is created without a provider.
	ErrNoProvider = errors.New("provider is required")

	// ErrEmptyMessage is returned when a scenario is run on an empty message.
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrAllocationFailed is returned when a stage buffer does not hold its
	// requested capacity.
	ErrAllocationFailed = errors.New("buffer allocation failed")

	// ErrLengthOverflow is returned when a provider reports more bytes
	// written than the stage buffer can hold.
	ErrLengthOverflow = errors.New("reported length exceeds buffer capacity")

	// ErrEmptyOutput is returned when a provider reports empty output for a
	// stage that must produce some.
	ErrEmptyOutput = errors.New("provider reported empty output")

	// ErrKeyGenFailed is returned when the provider fails key generation.
	ErrKeyGenFailed = errors.New("keypair generation failed")

	// ErrSignFailed is returned when the provider fails signing.
	ErrSignFailed = errors.New("signing failed")

	// ErrVerifyFailed is returned when the provider rejects a signed message.
	// This is the expected outcome for forged or corrupted input.
	ErrVerifyFailed = errors.New("signature verification failed")

	// ErrEncapFailed is returned when the KEM provider fails encapsulation.
	ErrEncapFailed = errors.New("encapsulation failed")

	// ErrDecapFailed is returned when the KEM provider fails decapsulation.
	ErrDecapFailed = errors.New("decapsulation failed")

	// ErrMismatch is returned when round-trip output differs from the
	// original input. A provider that reports success but returns altered
	// content is a critical defect.
	ErrMismatch = errors.New("recovered content does not match original")
)

// ConformanceError is implemented by all harness errors.
type ConformanceError interface {
	error
	ConformanceError() // marker method
}

// StageError reports a provider failure at one lifecycle stage, preserving
// the provider's status code verbatim.
type StageError struct {
	Stage     Stage
	Algorithm string
	Status    int
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s stage failed with status %d", e.Algorithm, e.Stage, e.Status)
}

// Is implements errors.Is for sentinel error matching.
func (e *StageError) Is(target error) bool {
	switch e.Stage {
	case StageKeyGen:
		return target == ErrKeyGenFailed
	case StageSign:
		return target == ErrSignFailed
	case StageVerify:
		return target == ErrVerifyFailed
	case StageEncapsulate:
		return target == ErrEncapFailed
	case StageDecapsulate:
		return target == ErrDecapFailed
	}
	return false
}

// ConformanceError implements the ConformanceError interface.
func (e *StageError) ConformanceError() {}

// ContractError reports a violated buffer contract between the harness and
// the provider: a failed allocation, an overflowing reported length, or
// empty output where output is mandatory.
type ContractError struct {
	Stage Stage
	Err   error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("buffer contract violated at %s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ContractError) Is(target error) bool {
	switch target {
	case ErrAllocationFailed:
		return errors.Is(e.Err, bufcheck.ErrAllocationFailed)
	case ErrLengthOverflow:
		return errors.Is(e.Err, bufcheck.ErrLengthOverflow)
	case ErrEmptyOutput:
		return errors.Is(e.Err, bufcheck.ErrEmptyOutput)
	}
	return false
}

// ConformanceError implements the ConformanceError interface.
func (e *ContractError) ConformanceError() {}

// MismatchError reports round-trip output that differs from the original
// input. Index is the first differing byte position, or -1 when the lengths
// already differ.
type MismatchError struct {
	WantLen int
	GotLen  int
	Index   int
}

func (e *MismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("recovered length %d, want %d", e.GotLen, e.WantLen)
	}
	return fmt.Sprintf("recovered content differs at byte %d", e.Index)
}

// Is implements errors.Is for sentinel error matching.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// ConformanceError implements the ConformanceError interface.
func (e *MismatchError) ConformanceError() {}

// wrapContractError attaches the failing stage to a bufcheck error.
func wrapContractError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &ContractError{Stage: stage, Err: err}
}
