// Command beacon-node wires the attestation ingestion and deferral
// pipeline into a runnable process: the waiting areas, validators,
// fork-choice gateway, attestation manager, state regenerator, and
// combined chain data service described in SPEC_FULL.md, started and
// stopped through one urfave/cli application the way the teacher drives
// its beacon-chain node.
package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/attestorlabs/beacon-node/beacon-chain/blockchain/chaininfo"
	"github.com/attestorlabs/beacon-node/beacon-chain/blockchain/gateway"
	"github.com/attestorlabs/beacon-node/beacon-chain/blockchain/recentdata"
	"github.com/attestorlabs/beacon-node/beacon-chain/db/historical"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/iface"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/sigverify"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/verification"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
	"github.com/attestorlabs/beacon-node/beacon-chain/state/stategen"
)

var log = logrus.WithField("prefix", "beacon-node")

var (
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (debug, info, warn, error)",
		Value: "info",
	}
	maxWaitingBucketsFlag = &cli.IntFlag{
		Name:  "max-waiting-buckets",
		Usage: "Bound on each of the three attestation waiting areas",
		Value: 4096,
	}
	sigVerifyCoalesceFlag = &cli.DurationFlag{
		Name:  "sig-verify-coalesce-window",
		Usage: "How long the Signature Verification Service waits to accumulate a batch",
		Value: 10 * time.Millisecond,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "beacon-node"
	app.Usage = "attestation ingestion and deferral pipeline for a proof-of-stake beacon chain"
	app.Flags = []cli.Flag{verbosityFlag, maxWaitingBucketsFlag, sigVerifyCoalesceFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Could not start beacon-node")
	}
}

func run(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "invalid verbosity")
	}
	logrus.SetLevel(level)

	clock := &wallClock{}

	recent := recentdata.New()
	hist := historical.NewInMemoryStore()
	regen := stategen.New()
	chainInfo := chaininfo.New(recent, hist, regen)

	blocks := blockChecker{recent: recent}
	committees := trivialCommittees{}
	aggregators := trivialAggregatorChecker{}

	sigVerifyCfg := sigverify.DefaultConfig(trivialPubkeys{})
	sigVerifyCfg.CoalesceWindow = c.Duration(sigVerifyCoalesceFlag.Name)
	sigVerify := sigverify.New(sigVerifyCfg)

	individualValidator := verification.NewValidator(clock, blocks, sigVerify)
	aggregateValidator := verification.NewAggregateValidator(clock, blocks, sigVerify, aggregators)

	store := &inMemoryVoteStore{recent: recent}
	fcGateway := gateway.New(store)

	pool := attestations.NewAggregatingAttestationPool()

	manager := attestations.NewService(&attestations.Config{
		Pool:               pool,
		Gateway:            fcGateway,
		Validator:          individualValidator,
		AggregateValidator: aggregateValidator,
		Committees:         committees,
		Lifecycles:         []iface.Lifecycle{sigVerify, fcGateway},
		MaxWaitingBuckets:  c.Int(maxWaitingBucketsFlag.Name),
	})

	manager.Start()
	defer func() {
		if err := manager.Stop(); err != nil {
			log.WithError(err).Error("Error during shutdown")
		}
	}()

	log.Info("beacon-node attestation pipeline started")
	_ = chainInfo
	return nil
}

// wallClock satisfies verification.Clock by reporting the slot it holds;
// nothing in this binary advances it, so it stays at zero. A real node
// updates this from a genesis-time-derived clock, out of scope here per
// spec.md §1.
type wallClock struct {
	slot primitives.Slot
}

func (w *wallClock) CurrentSlot() primitives.Slot { return w.slot }

type blockChecker struct {
	recent *recentdata.Store
}

func (b blockChecker) HasBlock(root primitives.BlockRoot) bool {
	_, ok := b.recent.RetrieveSignedBlockByRoot(root)
	return ok
}

// trivialCommittees is a placeholder CommitteeResolver wired until a
// real validator registry (out of scope, spec.md §1) is plugged in; it
// reports the attestation's committee index as the sole attesting
// validator index, which keeps the pipeline's indexed-attestation machinery exercised
// end to end without depending on committee shuffling.
type trivialCommittees struct{}

func (trivialCommittees) AttestingIndices(a *primitives.Attestation) []primitives.ValidatorIndex {
	return []primitives.ValidatorIndex{primitives.ValidatorIndex(a.Data.CommitteeIndex)}
}

type trivialAggregatorChecker struct{}

func (trivialAggregatorChecker) IsAggregator(primitives.Slot, uint64, [96]byte, primitives.ValidatorIndex) (bool, error) {
	return true, nil
}

type trivialPubkeys struct{}

func (trivialPubkeys) PublicKeysFor(*primitives.Attestation) ([][]byte, error) {
	return nil, errors.New("validator registry not wired in this build")
}

// inMemoryVoteStore adapts recentdata.Store into gateway.VoteStore; the
// actual fork-choice vote accounting is the out-of-scope collaborator
// spec.md §1 names, so HasBlock answers the known-block prerequisite the
// gateway checks first and ProcessAttestation accepts every vote -- the
// shape a real adapter would have, minus the voting algorithm itself.
type inMemoryVoteStore struct {
	recent *recentdata.Store
}

func (s *inMemoryVoteStore) HasBlock(root primitives.BlockRoot) bool {
	_, ok := s.recent.RetrieveSignedBlockByRoot(root)
	return ok
}

func (s *inMemoryVoteStore) ProcessAttestation(_ context.Context, _ *primitives.IndexedAttestation) error {
	return nil
}
