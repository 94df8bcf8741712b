// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package imt

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestInsertAndRoot(t *testing.T) {
	tree := New(16)
	require.Equal(t, 0, tree.Size())
	require.Equal(t, 0, tree.Root().Sign())

	prev := tree.Root()
	for i := 1; i <= 10; i++ {
		require.NoError(t, tree.Insert(big.NewInt(int64(i*1000))))
		root := tree.Root()
		require.NotEqual(t, prev, root, "root must change after insert %d", i)
		prev = root
	}
	require.Equal(t, 10, tree.Size())
	require.Equal(t, 4, tree.Depth())
}

func TestProveInclusionAllLeaves(t *testing.T) {
	const targetDepth = 16
	tree := New(targetDepth)
	leaves := make([]*big.Int, 0, 11)
	for i := 0; i < 11; i++ {
		leaf := big.NewInt(int64(7919 * (i + 1)))
		require.NoError(t, tree.Insert(leaf))
		leaves = append(leaves, leaf)
	}

	for _, leaf := range leaves {
		idx, err := tree.IndexOf(leaf)
		require.NoError(t, err)
		proof, err := tree.ProveInclusion(idx, targetDepth)
		require.NoError(t, err)
		require.Len(t, proof.Siblings, targetDepth)
		require.Len(t, proof.Path, targetDepth)
		require.LessOrEqual(t, proof.LeafDepth, tree.Depth())

		ok, err := proof.Verify(leaf)
		require.NoError(t, err)
		require.True(t, ok, "leaf %s", leaf)

		// Padding is the sentinel, not zero.
		for i := proof.LeafDepth; i < targetDepth; i++ {
			require.Equal(t, SentinelSibling, proof.Siblings[i])
		}
	}
}

func TestProofRegeneratedAfterGrowth(t *testing.T) {
	tree := New(16)
	leaf := big.NewInt(42)
	require.NoError(t, tree.Insert(leaf))

	stale, err := tree.ProveInclusion(0, 16)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, tree.Insert(big.NewInt(int64(100+i))))
	}

	// The stale proof no longer matches the live root.
	require.NotEqual(t, tree.Root(), stale.Root)

	idx, err := tree.IndexOf(leaf)
	require.NoError(t, err)
	fresh, err := tree.ProveInclusion(idx, 16)
	require.NoError(t, err)
	require.Equal(t, tree.Root(), fresh.Root)
	ok, err := fresh.Verify(leaf)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIndexOfMissingLeaf(t *testing.T) {
	tree := New(8)
	require.NoError(t, tree.Insert(big.NewInt(1)))
	_, err := tree.IndexOf(big.NewInt(2))
	require.ErrorIs(t, err, ErrLeafNotFound)
}

func TestInsertRejectsNonFieldElement(t *testing.T) {
	tree := New(8)
	require.ErrorIs(t, tree.Insert(fr.Modulus()), ErrLeafOutOfField)
	require.ErrorIs(t, tree.Insert(big.NewInt(-1)), ErrLeafOutOfField)
	require.ErrorIs(t, tree.Insert(nil), ErrLeafOutOfField)
}

func TestTreeFull(t *testing.T) {
	tree := New(2)
	for i := 0; i < 4; i++ {
		require.NoError(t, tree.Insert(big.NewInt(int64(i + 1))))
	}
	require.ErrorIs(t, tree.Insert(big.NewInt(99)), ErrTreeFull)
}

func TestProveDepthTooSmall(t *testing.T) {
	tree := New(8)
	for i := 0; i < 8; i++ {
		require.NoError(t, tree.Insert(big.NewInt(int64(i + 1))))
	}
	_, err := tree.ProveInclusion(0, 2)
	require.ErrorIs(t, err, ErrDepthTooSmall)
}

func TestSingleLeafProof(t *testing.T) {
	tree := New(8)
	leaf := big.NewInt(77)
	require.NoError(t, tree.Insert(leaf))

	proof, err := tree.ProveInclusion(0, 8)
	require.NoError(t, err)
	require.Equal(t, 0, proof.LeafDepth)
	// A single leaf is its own root.
	require.Equal(t, leaf, proof.Root)
	ok, err := proof.Verify(leaf)
	require.NoError(t, err)
	require.True(t, ok)
}
