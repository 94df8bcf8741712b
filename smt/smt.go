// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package smt implements the sparse Merkle tree backing sanctions screening.
//
// Keys are BN254 field elements and address the tree by their bits, least
// significant first. An empty subtree hashes to zero, a leaf hashes to
// Poseidon(key, value, 1) and an internal node to Poseidon(left, right), so
// the root is fully determined by the leaf set: insert order cannot change
// it.
//
// A proof of non-membership has the same shape as a proof of membership; the
// verifier compares the queried key against ClosestLeafKey. The tree is
// built once from a sanctions list and read-mostly afterwards.
package smt

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// DefaultDepth bounds the key-bit path length. 64 levels keep proofs small
// while collisions below the full 254-bit key width stay negligible for
// Poseidon-derived keys.
const DefaultDepth = 64

var (
	ErrKeyExists       = errors.New("key already in tree")
	ErrKeyOutOfField   = errors.New("key is not a field element")
	ErrMaxDepthReached = errors.New("max depth reached, keys collide on every path bit")
)

var one = big.NewInt(1)

type node struct {
	leaf        bool
	key, value  *big.Int // leaf nodes
	left, right *node    // internal nodes
	hash        *big.Int
}

func hashOf(n *node) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n.hash
}

func leafHash(key, value *big.Int) (*big.Int, error) {
	return poseidon.Hash([]*big.Int{key, value, one})
}

func middleHash(left, right *node) (*big.Int, error) {
	return poseidon.Hash([]*big.Int{hashOf(left), hashOf(right)})
}

// Tree is an in-memory sparse Merkle tree of fixed depth.
type Tree struct {
	depth int
	root  *node
	size  int
}

// New returns an empty tree. A depth of 0 selects DefaultDepth.
func New(depth int) *Tree {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Tree{depth: depth}
}

// Depth returns the fixed proof depth.
func (t *Tree) Depth() int { return t.depth }

// Size returns the number of leaves.
func (t *Tree) Size() int { return t.size }

// Root returns the current root, zero for an empty tree.
func (t *Tree) Root() *big.Int { return new(big.Int).Set(hashOf(t.root)) }

func checkKey(key *big.Int) error {
	if key == nil || key.Sign() < 0 || key.Cmp(fr.Modulus()) >= 0 {
		return ErrKeyOutOfField
	}
	return nil
}

// Insert adds one (key, value) leaf. Inserting an existing key is an error;
// sanctions rebuilds construct a fresh tree instead of mutating in place.
func (t *Tree) Insert(key, value *big.Int) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if value == nil {
		value = one
	}
	root, err := t.insertNode(t.root, new(big.Int).Set(key), new(big.Int).Set(value), 0)
	if err != nil {
		return err
	}
	t.root = root
	t.size++
	return nil
}

func (t *Tree) insertNode(n *node, key, value *big.Int, level int) (*node, error) {
	if n == nil {
		h, err := leafHash(key, value)
		if err != nil {
			return nil, err
		}
		return &node{leaf: true, key: key, value: value, hash: h}, nil
	}
	if level >= t.depth {
		return nil, ErrMaxDepthReached
	}
	if n.leaf {
		if n.key.Cmp(key) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrKeyExists, key.String())
		}
		h, err := leafHash(key, value)
		if err != nil {
			return nil, err
		}
		return t.split(n, &node{leaf: true, key: key, value: value, hash: h}, level)
	}

	var err error
	if key.Bit(level) == 1 {
		n.right, err = t.insertNode(n.right, key, value, level+1)
	} else {
		n.left, err = t.insertNode(n.left, key, value, level+1)
	}
	if err != nil {
		return nil, err
	}
	n.hash, err = middleHash(n.left, n.right)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// split pushes two leaves down until their key bits diverge.
func (t *Tree) split(a, b *node, level int) (*node, error) {
	if level >= t.depth {
		return nil, ErrMaxDepthReached
	}
	m := &node{}
	abit, bbit := a.key.Bit(level), b.key.Bit(level)
	if abit == bbit {
		child, err := t.split(a, b, level+1)
		if err != nil {
			return nil, err
		}
		if abit == 1 {
			m.right = child
		} else {
			m.left = child
		}
	} else if abit == 1 {
		m.right, m.left = a, b
	} else {
		m.left, m.right = a, b
	}
	var err error
	m.hash, err = middleHash(m.left, m.right)
	return m, err
}

// Entry is one (key, value) pair for bulk construction.
type Entry struct {
	Key   *big.Int
	Value *big.Int
}

// BulkInsert inserts entries in key order. Sorting keeps construction
// O(N log N); the resulting root is independent of the input order either
// way.
func (t *Tree) BulkInsert(entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key.Cmp(sorted[j].Key) < 0
	})
	for _, e := range sorted {
		if err := t.Insert(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Proof is a membership-or-absence proof. ClosestLeafKey is the key of the
// leaf reached by walking the queried key's bit path; the queried key is a
// member iff it equals ClosestLeafKey. An all-empty path yields a zero
// ClosestLeafKey. Siblings always has Depth entries; levels below Levels are
// zero-padded.
type Proof struct {
	Root             *big.Int
	ClosestLeafKey   *big.Int
	ClosestLeafValue *big.Int
	Siblings         []*big.Int
	Levels           int
}

// Prove walks the queried key's path and collects the sibling hashes to the
// closest leaf slot.
func (t *Tree) Prove(key *big.Int) (*Proof, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	siblings := make([]*big.Int, 0, t.depth)
	n := t.root
	level := 0
	for n != nil && !n.leaf && level < t.depth {
		if key.Bit(level) == 1 {
			siblings = append(siblings, new(big.Int).Set(hashOf(n.left)))
			n = n.right
		} else {
			siblings = append(siblings, new(big.Int).Set(hashOf(n.right)))
			n = n.left
		}
		level++
	}
	p := &Proof{
		Root:             t.Root(),
		ClosestLeafKey:   new(big.Int),
		ClosestLeafValue: new(big.Int),
		Siblings:         siblings,
		Levels:           level,
	}
	if n != nil {
		p.ClosestLeafKey.Set(n.key)
		p.ClosestLeafValue.Set(n.value)
	}
	for len(p.Siblings) < t.depth {
		p.Siblings = append(p.Siblings, new(big.Int))
	}
	return p, nil
}

// Member reports whether the queried key is the proven leaf.
func (p *Proof) Member(key *big.Int) bool {
	return p.ClosestLeafKey.Sign() != 0 && p.ClosestLeafKey.Cmp(key) == 0
}

// Verify recomputes the root from the closest leaf and the sibling path for
// the queried key.
func (p *Proof) Verify(key *big.Int) (bool, error) {
	if p.Levels > len(p.Siblings) {
		return false, errors.New("smt proof: levels exceed siblings")
	}
	node := new(big.Int)
	if p.ClosestLeafKey.Sign() != 0 || p.ClosestLeafValue.Sign() != 0 {
		h, err := leafHash(p.ClosestLeafKey, p.ClosestLeafValue)
		if err != nil {
			return false, err
		}
		node = h
	}
	for i := p.Levels - 1; i >= 0; i-- {
		var (
			h   *big.Int
			err error
		)
		if key.Bit(i) == 1 {
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
