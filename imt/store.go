// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package imt

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/luxfi/database"
)

var (
	storeSizeKey   = []byte("imt/size")
	storeLeafPfx   = []byte("imt/leaf/")
	errStoreNoSize = fmt.Errorf("imt store: missing size record")
)

// Store wraps a Tree with a single-writer discipline and an append-only leaf
// log in a database. Opening a store replays every logged leaf into a fresh
// tree, so the persisted state and the in-memory state cannot diverge.
type Store struct {
	mu   sync.Mutex
	db   database.Database
	tree *Tree
}

// NewStore opens (or initializes) a persistent accumulator of the given
// capacity exponent.
func NewStore(db database.Database, maxDepth int) (*Store, error) {
	s := &Store{db: db, tree: New(maxDepth)}

	sizeBytes, err := db.Get(storeSizeKey)
	if err == database.ErrNotFound {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(sizeBytes) != 8 {
		return nil, errStoreNoSize
	}
	size := binary.BigEndian.Uint64(sizeBytes)
	for i := uint64(0); i < size; i++ {
		raw, err := db.Get(storeLeafKey(i))
		if err != nil {
			return nil, fmt.Errorf("imt store: leaf %d: %w", i, err)
		}
		var e fr.Element
		e.SetBytes(raw)
		if err := s.tree.Insert(e.BigInt(new(big.Int))); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func storeLeafKey(i uint64) []byte {
	key := make([]byte, len(storeLeafPfx)+8)
	copy(key, storeLeafPfx)
	binary.BigEndian.PutUint64(key[len(storeLeafPfx):], i)
	return key
}

// Insert appends a leaf to the tree and the leaf log. Inserts are serialized
// here: leaf index assignment and root recomputation are not composable
// under interleaving.
func (s *Store) Insert(leaf *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := uint64(s.tree.Size())
	if err := s.tree.Insert(leaf); err != nil {
		return err
	}

	var e fr.Element
	e.SetBigInt(leaf)
	raw := e.Bytes()
	if err := s.db.Put(storeLeafKey(idx), raw[:]); err != nil {
		return err
	}
	sizeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(sizeBytes, idx+1)
	return s.db.Put(storeSizeKey, sizeBytes)
}

// IndexOf reports the position of a previously inserted leaf.
func (s *Store) IndexOf(leaf *big.Int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.IndexOf(leaf)
}

// ProveInclusion generates a proof against the current root.
func (s *Store) ProveInclusion(index, targetDepth int) (*MerkleProof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.ProveInclusion(index, targetDepth)
}

// Root returns the current root.
func (s *Store) Root() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Root()
}

// Size returns the number of leaves.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Size()
}
