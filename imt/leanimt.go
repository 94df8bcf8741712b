// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package imt implements the append-only identity-commitment accumulator: an
// incremental Merkle tree (LeanIMT) over Poseidon commitments.
//
// The tree grows one leaf at a time and is never rebalanced or pruned. A
// node with no right sibling is promoted unhashed to the next level, so the
// live depth is always ceil(log2(size)). Inclusion proofs collect one
// sibling per hashed level and are padded with a sentinel value, never zero,
// up to the circuit's fixed depth: the sentinel distinguishes "proof
// terminates early" from "sibling is the zero value".
//
// The tree itself assumes serialized access; Store wraps it with a mutex and
// a persistent leaf log.
package imt

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

var (
	ErrLeafNotFound    = errors.New("leaf not found")
	ErrLeafOutOfField  = errors.New("leaf is not a field element")
	ErrTreeFull        = errors.New("tree is full")
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	ErrDepthTooSmall   = errors.New("target depth smaller than live proof depth")
)

// SentinelSibling pads proof levels beyond LeafDepth. It is the largest
// BN254 scalar, a value Poseidon cannot realistically output, so padding is
// distinguishable from a genuine zero sibling.
var SentinelSibling = new(big.Int).Sub(fr.Modulus(), big.NewInt(1))

// MerkleProof is an inclusion proof against the accumulator root.
// Siblings[i] and Path[i] are meaningful for i < LeafDepth; higher levels
// carry SentinelSibling and a zero path bit. Path bit 1 means the proven
// node is the right child at that level.
type MerkleProof struct {
	Root      *big.Int
	Siblings  []*big.Int
	Path      []uint8
	LeafDepth int
}

// Tree is the in-memory LeanIMT. Level 0 holds the leaves.
type Tree struct {
	maxDepth int
	levels   [][]*big.Int
	index    map[string]int
	root     *big.Int
}

// New returns an empty tree that can hold up to 2^maxDepth leaves.
func New(maxDepth int) *Tree {
	return &Tree{
		maxDepth: maxDepth,
		levels:   [][]*big.Int{nil},
		index:    make(map[string]int),
		root:     new(big.Int),
	}
}

// Size returns the number of leaves.
func (t *Tree) Size() int { return len(t.levels[0]) }

// Depth returns the live depth, ceil(log2(size)).
func (t *Tree) Depth() int {
	d := 0
	for 1<<d < t.Size() {
		d++
	}
	return d
}

// MaxDepth returns the configured capacity exponent.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Root returns the current root, zero for an empty tree.
func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.root) }

func leafKey(leaf *big.Int) string { return string(leaf.Bytes()) }

// Insert appends a leaf and recomputes the path to the root. The tree has no
// duplicate detection: inserting the same value twice yields two leaves, and
// IndexOf then reports the first.
func (t *Tree) Insert(leaf *big.Int) error {
	if leaf == nil || leaf.Sign() < 0 || leaf.Cmp(fr.Modulus()) >= 0 {
		return ErrLeafOutOfField
	}
	if t.Size() >= 1<<t.maxDepth {
		return ErrTreeFull
	}

	idx := t.Size()
	t.setNode(0, idx, new(big.Int).Set(leaf))
	if _, seen := t.index[leafKey(leaf)]; !seen {
		t.index[leafKey(leaf)] = idx
	}

	depth := t.Depth()
	node := t.levels[0][idx]
	i := idx
	for lvl := 0; lvl < depth; lvl++ {
		if i%2 == 1 {
			h, err := poseidon.Hash([]*big.Int{t.levels[lvl][i-1], node})
			if err != nil {
				return err
			}
			node = h
		} else if i+1 < len(t.levels[lvl]) {
			h, err := poseidon.Hash([]*big.Int{node, t.levels[lvl][i+1]})
			if err != nil {
				return err
			}
			node = h
		}
		// even node without sibling is promoted unhashed
		i /= 2
		t.setNode(lvl+1, i, node)
	}
	t.root = node
	return nil
}

func (t *Tree) setNode(level, i int, v *big.Int) {
	for len(t.levels) <= level {
		t.levels = append(t.levels, nil)
	}
	for len(t.levels[level]) <= i {
		t.levels[level] = append(t.levels[level], nil)
	}
	t.levels[level][i] = v
}

// IndexOf returns the position of a previously inserted leaf. Callers must
// insert before requesting a proof for a fresh leaf.
func (t *Tree) IndexOf(leaf *big.Int) (int, error) {
	if leaf == nil {
		return 0, ErrLeafNotFound
	}
	idx, ok := t.index[leafKey(leaf)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrLeafNotFound, leaf.String())
	}
	return idx, nil
}

// ProveInclusion builds the inclusion proof for the leaf at index, padded to
// targetDepth. The proof reflects the tree state at call time; callers must
// regenerate proofs after inserts rather than reuse cached ones.
func (t *Tree) ProveInclusion(index, targetDepth int) (*MerkleProof, error) {
	if index < 0 || index >= t.Size() {
		return nil, ErrIndexOutOfRange
	}
	depth := t.Depth()

	siblings := make([]*big.Int, 0, targetDepth)
	path := make([]uint8, 0, targetDepth)
	i := index
	for lvl := 0; lvl < depth; lvl++ {
		sib := i ^ 1
		if sib < len(t.levels[lvl]) && t.levels[lvl][sib] != nil {
			siblings = append(siblings, new(big.Int).Set(t.levels[lvl][sib]))
			path = append(path, uint8(i%2))
		}
		i /= 2
	}
	leafDepth := len(siblings)
	if leafDepth > targetDepth {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrDepthTooSmall, leafDepth, targetDepth)
	}
	for len(siblings) < targetDepth {
		siblings = append(siblings, new(big.Int).Set(SentinelSibling))
		path = append(path, 0)
	}
	return &MerkleProof{
		Root:      t.Root(),
		Siblings:  siblings,
		Path:      path,
		LeafDepth: leafDepth,
	}, nil
}

// Verify folds the leaf through the first LeafDepth sibling levels and
// compares against the proof root.
func (p *MerkleProof) Verify(leaf *big.Int) (bool, error) {
	if p.LeafDepth > len(p.Siblings) || len(p.Siblings) != len(p.Path) {
		return false, ErrIndexOutOfRange
	}
	node := new(big.Int).Set(leaf)
	for i := 0; i < p.LeafDepth; i++ {
		var (
			h   *big.Int
			err error
		)
		if p.Path[i] == 1 {
			h, err = poseidon.Hash([]*big.Int{p.Siblings[i], node})
		} else {
			h, err = poseidon.Hash([]*big.Int{node, p.Siblings[i]})
		}
		if err != nil {
			return false, err
		}
		node = h
	}
	return node.Cmp(p.Root) == 0, nil
}
