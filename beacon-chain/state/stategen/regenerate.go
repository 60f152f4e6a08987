// Package stategen implements the State Regenerator, spec.md §4.E: a
// pure, side-effect-free replay of the deterministic slot-advance
// function from a snapshot state up to a requested slot.
package stategen

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/beacon-chain/apperr"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "stategen")

// Regenerator replays advanceOneSlot from a snapshot up to a target
// slot. It holds no state of its own; callers decide whether and how to
// cache the result, per spec.md §4.E's "callers cache the resulting
// state at their discretion".
type Regenerator struct{}

// New constructs a Regenerator.
func New() *Regenerator {
	return &Regenerator{}
}

// Regenerate advances preState to targetSlot. bestSlot bounds how far
// forward regeneration is allowed to go; requesting a slot beyond it
// fails with apperr.ErrFutureSlot rather than silently returning a
// still-behind state.
func (r *Regenerator) Regenerate(ctx context.Context, preState *primitives.State, targetSlot, bestSlot primitives.Slot) (*primitives.State, error) {
	ctx, span := trace.StartSpan(ctx, "stategen.Regenerate")
	defer span.End()

	if preState == nil {
		return nil, errors.Wrap(apperr.ErrStateTransition, "preState is nil")
	}
	if preState.Slot == targetSlot {
		return preState, nil
	}
	if targetSlot > bestSlot {
		return nil, errors.Wrap(apperr.ErrFutureSlot, "target slot is beyond the best known slot")
	}
	if targetSlot < preState.Slot {
		return nil, errors.Wrap(apperr.ErrStateTransition, "target slot precedes preState slot")
	}

	state := preState
	for state.Slot < targetSlot {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		next, err := advanceOneSlot(state)
		if err != nil {
			log.WithError(err).WithField("slot", state.Slot).Error("Slot advance failed during regeneration")
			return nil, errors.Wrap(apperr.ErrStateTransition, err.Error())
		}
		state = next
	}
	return state, nil
}
