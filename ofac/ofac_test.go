// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ofac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/identity/codec"
)

var sampleList = []Entry{
	{Name: "John Michael Doe", DOB: "19710304"},
	{Name: "JANE ROE", DOB: "19850612"},
	{Name: "Erika Maria Mustermann", DOB: "19911130"},
	{Name: "Li Wei", DOB: "19640722"},
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "JOHNMICHAELDOE", NormalizeName("John Michael Doe"))
	require.Equal(t, "JOHNMICHAELDOE", NormalizeName("  john\tmichael\ndoe "))
	require.Equal(t, "", NormalizeName(" \t\n"))
}

func TestLeafKeyNormalizationIdentical(t *testing.T) {
	a, err := LeafKeyNameDOB("John Michael Doe", "19710304")
	require.NoError(t, err)
	b, err := LeafKeyNameDOB("  JOHN MICHAEL DOE ", "19710304")
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := LeafKeyNameDOB("John Michael Doe", "19710305")
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestLeafKeyValidation(t *testing.T) {
	_, err := LeafKeyNameDOB("", "19710304")
	require.ErrorIs(t, err, ErrNoName)
	_, err = LeafKeyNameDOB("X", "1971030")
	require.ErrorIs(t, err, ErrBadDate)
	_, err = LeafKeyNameYOB("X", "197")
	require.ErrorIs(t, err, ErrBadYear)
	_, err = LeafKey(Granularity(9), "X", "1971")
	require.ErrorIs(t, err, ErrInvalidProofLevel)
}

func TestBuildAndScreenListed(t *testing.T) {
	set, err := NewBuilder(0, nil).Build(sampleList)
	require.NoError(t, err)

	for _, e := range sampleList {
		proof, err := set.Screen(GranularityNameDOB, e.Name, e.DOB)
		require.NoError(t, err)
		key, err := LeafKeyNameDOB(e.Name, e.DOB)
		require.NoError(t, err)
		require.True(t, proof.Member(key), "entry %q must be a member", e.Name)
		require.Equal(t, key, proof.ClosestLeafKey)

		proof, err = set.Screen(GranularityNameYOB, e.Name, e.DOB[:4])
		require.NoError(t, err)
		key, err = LeafKeyNameYOB(e.Name, e.DOB[:4])
		require.NoError(t, err)
		require.True(t, proof.Member(key))
	}
}

func TestScreenAbsent(t *testing.T) {
	set, err := NewBuilder(0, nil).Build(sampleList)
	require.NoError(t, err)

	proof, err := set.Screen(GranularityNameDOB, "Amani Wanjiku Otieno", "19900215")
	require.NoError(t, err)
	key, err := LeafKeyNameDOB("Amani Wanjiku Otieno", "19900215")
	require.NoError(t, err)
	require.False(t, proof.Member(key))
	require.NotEqual(t, key, proof.ClosestLeafKey)

	ok, err := proof.Verify(key)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBuildRootDeterministic(t *testing.T) {
	b := NewBuilder(0, nil)
	first, err := b.Build(sampleList)
	require.NoError(t, err)

	reversed := make([]Entry, len(sampleList))
	for i, e := range sampleList {
		reversed[len(sampleList)-1-i] = e
	}
	second, err := b.Build(reversed)
	require.NoError(t, err)

	require.Equal(t, first.NameDOB.Root(), second.NameDOB.Root())
	require.Equal(t, first.NameYOB.Root(), second.NameYOB.Root())
}

func TestBuildCollapsesDuplicateYOBKeys(t *testing.T) {
	// Two entries with the same name and year but different full dates
	// produce one YOB leaf and two DOB leaves.
	list := []Entry{
		{Name: "John Doe", DOB: "19710304"},
		{Name: "John Doe", DOB: "19711225"},
	}
	set, err := NewBuilder(0, nil).Build(list)
	require.NoError(t, err)
	require.Equal(t, 2, set.NameDOB.Size())
	require.Equal(t, 1, set.NameYOB.Size())
}

func TestBuildAllSchemes(t *testing.T) {
	lists := map[codec.DocumentScheme][]Entry{
		codec.SchemePersona: sampleList,
		codec.SchemeKYC:     sampleList[:2],
		codec.SchemeAadhaar: sampleList[2:],
	}
	sets, err := NewBuilder(0, nil).BuildAll(lists)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	require.Equal(t, 2, sets[codec.SchemeKYC].NameDOB.Size())
	require.Equal(t, 4, sets[codec.SchemePersona].NameDOB.Size())
}

func TestTreeCache(t *testing.T) {
	cache := NewTreeCache()
	_, ok := cache.Get(codec.SchemePersona)
	require.False(t, ok)

	set, err := NewBuilder(0, nil).Build(sampleList)
	require.NoError(t, err)
	cache.Put(codec.SchemePersona, set)

	got, ok := cache.Get(codec.SchemePersona)
	require.True(t, ok)
	require.Same(t, set, got)

	cache.Reset()
	_, ok = cache.Get(codec.SchemePersona)
	require.False(t, ok)
}
