// Package apperr classifies the error kinds from spec.md §7 as sentinel
// values so callers can switch on them with errors.Is instead of matching
// strings, the way the teacher classifies store/db errors.
package apperr

import "github.com/pkg/errors"

var (
	// ErrUnknownBlock marks a TransientValidation failure: the attestation
	// votes for a block the node has not imported yet.
	ErrUnknownBlock = errors.New("unknown block")

	// ErrFutureSlot marks a TransientValidation failure: the attestation's
	// slot is ahead of the local clock.
	ErrFutureSlot = errors.New("future slot")

	// ErrDeferForkChoice marks a TransientValidation outcome: fork choice
	// asked for the attestation to be re-evaluated on the next slot tick.
	ErrDeferForkChoice = errors.New("defer fork choice processing")

	// ErrInvalidAttestation marks a PermanentValidation failure.
	ErrInvalidAttestation = errors.New("invalid attestation")

	// ErrStoreUnavailable marks a StoreUnavailable condition: the query
	// arrived before genesis or before the first fork-choice tick.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStateTransition marks a StateTransition failure during state
	// regeneration (slot processing or epoch processing).
	ErrStateTransition = errors.New("state transition failed")
)
