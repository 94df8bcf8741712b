// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry ties the codec, commitment, accumulator and screening
// layers together into the registration and disclosure flows. It produces
// the circuit-input object handed to the prover; proof generation itself
// happens elsewhere.
package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/database"
	"github.com/luxfi/log"

	"github.com/luxfi/identity/codec"
	"github.com/luxfi/identity/commit"
	"github.com/luxfi/identity/disclose"
	"github.com/luxfi/identity/imt"
	"github.com/luxfi/identity/inputs"
	"github.com/luxfi/identity/ofac"
)

var (
	ErrNotRegistered = errors.New("commitment not in accumulator")
	ErrNoScreenSet   = errors.New("no screening tree set for scheme")
	ErrNilRecord     = errors.New("nil record")
	ErrNilSecret     = errors.New("nil secret")
)

// Registry holds the commitment accumulator, the per-scheme screening tree
// cache and a logger. Proof target depth is fixed at construction and must
// match the circuit's merkle depth.
type Registry struct {
	store       *imt.Store
	screens     *ofac.TreeCache
	targetDepth int
	log         log.Logger
}

// New opens (or replays) the accumulator from db. targetDepth is the sibling
// count every inclusion proof is padded to.
func New(db database.Database, maxDepth, targetDepth int, logger log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	store, err := imt.NewStore(db, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("open accumulator: %w", err)
	}
	logger.Info("registry opened", "size", store.Size(), "maxDepth", maxDepth)
	return &Registry{
		store:       store,
		screens:     ofac.NewTreeCache(),
		targetDepth: targetDepth,
		log:         logger,
	}, nil
}

// SetScreening installs the screening tree set used for records of scheme.
func (r *Registry) SetScreening(scheme codec.DocumentScheme, set *ofac.TreeSet) {
	r.screens.Put(scheme, set)
}

// Size returns the number of registered commitments.
func (r *Registry) Size() int { return r.store.Size() }

// Root returns the current accumulator root.
func (r *Registry) Root() *big.Int { return r.store.Root() }

// Register serializes the record, derives its commitment under secret and
// appends it to the accumulator. Re-registering an identical (secret,
// record) pair inserts a duplicate leaf; idempotency is the caller's
// concern. Returns the commitment.
func (r *Registry) Register(secret *big.Int, rec *codec.Record) (*big.Int, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	if secret == nil {
		return nil, ErrNilSecret
	}
	serialized, err := codec.Serialize(rec)
	if err != nil {
		return nil, err
	}
	c, err := commit.Commitment(secret, serialized)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(c); err != nil {
		return nil, err
	}
	r.log.Info("commitment registered",
		"scheme", rec.Scheme, "index", r.store.Size()-1)
	return c, nil
}

// DiscloseRequest names what a disclosure proves and about whom.
type DiscloseRequest struct {
	Secret *big.Int
	Record *codec.Record

	// RevealFields selects which serialized fields the proof discloses.
	RevealFields []string

	// ScreenOFAC enables the sanctions non-membership branch. The proofs
	// are generated either way so the signal shape is constant; the flag
	// only gates whether the circuit enforces them.
	ScreenOFAC bool

	Scope *big.Int
}

// Disclose regenerates every proof against current accumulator and
// screening state and assembles the circuit-input object.
func (r *Registry) Disclose(req DiscloseRequest) (*inputs.DiscloseInput, error) {
	if req.Record == nil {
		return nil, ErrNilRecord
	}
	if req.Secret == nil {
		return nil, ErrNilSecret
	}

	serialized, err := codec.Serialize(req.Record)
	if err != nil {
		return nil, err
	}
	c, err := commit.Commitment(req.Secret, serialized)
	if err != nil {
		return nil, err
	}
	index, err := r.store.IndexOf(c)
	if err != nil {
		if errors.Is(err, imt.ErrLeafNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	proof, err := r.store.ProveInclusion(index, r.targetDepth)
	if err != nil {
		return nil, err
	}

	sel, err := disclose.BuildSelector(req.Record.Scheme, req.RevealFields)
	if err != nil {
		return nil, err
	}

	set, ok := r.screens.Get(req.Record.Scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoScreenSet, req.Record.Scheme)
	}
	dobKey, err := ofac.LeafKeyNameDOB(req.Record.FullName, req.Record.DateOfBirth)
	if err != nil {
		return nil, err
	}
	yobKey, err := ofac.LeafKeyNameYOB(req.Record.FullName, req.Record.DateOfBirth[:4])
	if err != nil {
		return nil, err
	}
	dobProof, err := set.Prove(ofac.GranularityNameDOB, dobKey)
	if err != nil {
		return nil, err
	}
	yobProof, err := set.Prove(ofac.GranularityNameYOB, yobKey)
	if err != nil {
		return nil, err
	}

	return inputs.Assemble(inputs.Params{
		Record:      req.Record,
		Serialized:  serialized,
		Selector:    sel,
		MerkleProof: proof,
		OfacNameDOB: dobProof,
		OfacNameYOB: yobProof,
		OfacDOBKey:  dobKey,
		OfacYOBKey:  yobKey,
		ScreenOFAC:  req.ScreenOFAC,
		Scope:       req.Scope,
		Secret:      req.Secret,
	})
}
