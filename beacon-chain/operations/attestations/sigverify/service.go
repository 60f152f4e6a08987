// Package sigverify implements the Signature Verification Service from
// spec.md §4.B: a long-running service the Attestation Manager starts and
// stops, which coalesces individual Verify calls into short-lived batches
// and verifies the requests of each batch concurrently. Each request is
// checked on its own (a single-signer Verify or a FastAggregateVerify over
// that attestation's signers); no pairing is shared across the requests
// of a batch.
package sigverify

import (
	"context"
	"sync"
	"time"

	blst "github.com/supranational/blst/bindings/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"

	"github.com/attestorlabs/beacon-node/beacon-chain/apperr"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "sigverify")

// dst is the domain separation tag Ethereum consensus uses for BLS
// signatures over attestation data, matching the blst MinPk scheme other
// implementations in this codebase use.
var dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// PubkeyLookup resolves the public key for the validator(s) that
// contributed to an attestation's signature. The Signature Verification
// Service does not own a validator registry; it is handed one at
// construction, matching how the teacher wires HeadFetcher/StateFetcher
// into its services rather than reaching into global state.
type PubkeyLookup interface {
	PublicKeysFor(a *primitives.Attestation) ([][]byte, error)
}

// Config configures the batching window and worker fan-out.
type Config struct {
	// CoalesceWindow is how long the service waits to accumulate a
	// batch before verifying whatever has arrived.
	CoalesceWindow time.Duration
	// MaxBatch bounds how many requests are verified together.
	MaxBatch int
	// Workers bounds how many requests of a batch are verified at once;
	// zero or less leaves the fan-out unbounded.
	Workers int
	Pubkeys PubkeyLookup
}

// DefaultConfig mirrors the teacher's dialed-in defaults for gossip
// batching windows.
func DefaultConfig(pubkeys PubkeyLookup) *Config {
	return &Config{
		CoalesceWindow: 10 * time.Millisecond,
		MaxBatch:       256,
		Workers:        8,
		Pubkeys:        pubkeys,
	}
}

type request struct {
	ctx  context.Context
	att  *primitives.Attestation
	resp chan error
}

// Service batches BLS verification requests and satisfies
// verification.SignatureVerifier. Its Start/Stop lifecycle is owned by
// the Attestation Manager, per spec.md §6.
type Service struct {
	cfg     *Config
	incoming chan *request
	quit    chan struct{}
	wg      sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// New constructs a Service. Call Start before the first Verify call.
func New(cfg *Config) *Service {
	return &Service{
		cfg:      cfg,
		incoming: make(chan *request, cfg.MaxBatch*4),
		quit:     make(chan struct{}),
	}
}

// Start launches the batching loop.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop drains in-flight work and terminates the batching loop.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
	return nil
}

// Verify submits a request to the batching loop and blocks until it has
// been verified as part of some batch, or ctx is canceled.
func (s *Service) Verify(ctx context.Context, a *primitives.Attestation) error {
	select {
	case <-s.quit:
		return errors.Wrap(apperr.ErrStoreUnavailable, "sigverify service stopped")
	default:
	}

	req := &request{ctx: ctx, att: a, resp: make(chan error, 1)}

	select {
	case s.incoming <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return errors.Wrap(apperr.ErrStoreUnavailable, "sigverify service stopped")
	}

	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) loop() {
	defer s.wg.Done()

	var batch []*request
	timer := time.NewTimer(s.cfg.CoalesceWindow)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.verifyBatch(batch)
		batch = nil
	}

	for {
		select {
		case req := <-s.incoming:
			batch = append(batch, req)
			if len(batch) >= s.cfg.MaxBatch {
				flush()
				timer.Reset(s.cfg.CoalesceWindow)
			}
		case <-timer.C:
			flush()
			timer.Reset(s.cfg.CoalesceWindow)
		case <-s.quit:
			flush()
			for {
				select {
				case req := <-s.incoming:
					s.verifyBatch([]*request{req})
				default:
					return
				}
			}
		}
	}
}

// verifyBatch verifies every request of the batch separately with
// verifyOne, fanned out with an errgroup the way the teacher parallelizes
// independent broadcast/save operations; at most cfg.Workers checks run at
// once when Workers is positive. No aggregate pairing across requests is
// attempted, since FastAggregateVerify's one-message precondition does not
// hold across distinct attestation data.
func (s *Service) verifyBatch(batch []*request) {
	_, span := trace.StartSpan(context.Background(), "sigverify.verifyBatch")
	span.AddAttributes(trace.Int64Attribute("batch_size", int64(len(batch))))
	defer span.End()

	var sem chan struct{}
	if s.cfg.Workers > 0 {
		sem = make(chan struct{}, s.cfg.Workers)
	}
	g := new(errgroup.Group)
	for i := range batch {
		req := batch[i]
		if sem != nil {
			sem <- struct{}{}
		}
		g.Go(func() error {
			if sem != nil {
				defer func() { <-sem }()
			}
			err := s.verifyOne(req.ctx, req.att)
			req.resp <- err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("sigverify batch worker failed")
	}
}

func (s *Service) verifyOne(ctx context.Context, a *primitives.Attestation) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pubkeys, err := s.cfg.Pubkeys.PublicKeysFor(a)
	if err != nil {
		return errors.Wrap(err, "could not resolve attesting public keys")
	}
	if len(pubkeys) == 0 {
		return errors.New("attestation has no attesting public keys")
	}

	sig := new(blst.P2Affine).Uncompress(a.Signature[:])
	if sig == nil {
		return errors.New("malformed signature encoding")
	}

	pks := make([]*blst.P1Affine, 0, len(pubkeys))
	for _, raw := range pubkeys {
		pk := new(blst.P1Affine).Uncompress(raw)
		if pk == nil {
			return errors.New("malformed public key encoding")
		}
		pks = append(pks, pk)
	}

	msg := attestationSigningRoot(a)
	if len(pks) == 1 {
		if !sig.Verify(true, pks[0], true, msg, dst) {
			return errors.New("signature does not verify")
		}
		return nil
	}
	if !sig.FastAggregateVerify(true, pks, msg, dst) {
		return errors.New("aggregate signature does not verify")
	}
	return nil
}

// attestationSigningRoot derives the message BLS verification runs
// against. Computing the real SSZ hash-tree-root of AttestationData is
// out of scope here (the spec treats state-transition/SSZ internals as
// an external collaborator); this is a simplified stand-in deterministic
// in the attestation's slot, committee index, and block root, documented
// the same way primitives.Attestation.Root is.
func attestationSigningRoot(a *primitives.Attestation) []byte {
	b := make([]byte, 0, 48)
	b = append(b, a.Data.BeaconBlockRoot[:]...)
	b = append(b, byte(a.Data.Slot), byte(a.Data.Slot>>8), byte(a.Data.Slot>>16), byte(a.Data.Slot>>24))
	b = append(b, byte(a.Data.CommitteeIndex), byte(a.Data.CommitteeIndex>>8))
	return b
}
