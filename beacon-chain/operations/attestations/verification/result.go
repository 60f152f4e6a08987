// Package verification implements the stateless-per-call validation rules
// from spec.md §4.B for individual and aggregate attestations.
package verification

import "fmt"

// Result is the tagged result variant InternalValidationResult from
// spec.md §9: {ACCEPT, SAVE_FOR_FUTURE, IGNORE, REJECT(reason)}.
type Result int

const (
	// Accept forwards the attestation to fork choice and to local
	// subscribers.
	Accept Result = iota
	// SaveForFuture forwards to fork choice anyway (which will park it);
	// the caller must not re-gossip it.
	SaveForFuture
	// Ignore drops the attestation silently, no re-gossip.
	Ignore
	// Reject drops the attestation and penalizes its source.
	Reject
)

func (r Result) String() string {
	switch r {
	case Accept:
		return "ACCEPT"
	case SaveForFuture:
		return "SAVE_FOR_FUTURE"
	case Ignore:
		return "IGNORE"
	case Reject:
		return "REJECT"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Outcome pairs a Result with the rejection reason, when there is one.
type Outcome struct {
	Result Result
	Reason string
}

func accept() Outcome        { return Outcome{Result: Accept} }
func saveForFuture() Outcome { return Outcome{Result: SaveForFuture} }
func ignore() Outcome        { return Outcome{Result: Ignore} }
func reject(reason string) Outcome {
	return Outcome{Result: Reject, Reason: reason}
}
