// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commit

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/identity/codec"
)

func TestPackBytesChunking(t *testing.T) {
	data := make([]byte, 244)
	for i := range data {
		data[i] = byte(i)
	}
	chunks := PackBytes(data)
	require.Len(t, chunks, 8) // ceil(244/31)

	// First chunk is bytes 0..30 little-endian.
	want := new(big.Int)
	for i := 30; i >= 0; i-- {
		want.Lsh(want, 8)
		want.Or(want, big.NewInt(int64(data[i])))
	}
	require.Equal(t, want, chunks[0])
}

func TestPackBytesShortTail(t *testing.T) {
	chunks := PackBytes([]byte{0x01, 0x02})
	require.Len(t, chunks, 1)
	require.Equal(t, big.NewInt(0x0201), chunks[0])
}

func TestPackedHashDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte{0x5A}, 320)
	a, err := PackedHash(data)
	require.NoError(t, err)
	b, err := PackedHash(data)
	require.NoError(t, err)
	require.Equal(t, a, b)

	data[17] ^= 1
	c, err := PackedHash(data)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestPackedHashEmpty(t *testing.T) {
	_, err := PackedHash(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestCommitmentReproducible(t *testing.T) {
	rec := &codec.Record{
		Scheme:       codec.SchemePersona,
		Country:      "KEN",
		IDType:       "PASSPORT",
		IDNumber:     "A12345678",
		IssuanceDate: "20200101",
		ExpiryDate:   "20300101",
		FullName:     "AMANI WANJIKU OTIENO",
		DateOfBirth:  "19900215",
		Gender:       "F",
	}
	serialized, err := codec.Serialize(rec)
	require.NoError(t, err)

	secret, ok := new(big.Int).SetString("1234", 10)
	require.True(t, ok)

	first, err := Commitment(secret, serialized)
	require.NoError(t, err)

	// Independent second run over freshly serialized input.
	serialized2, err := codec.Serialize(rec)
	require.NoError(t, err)
	second, err := Commitment(secret, serialized2)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// A different secret moves the commitment.
	other, err := Commitment(big.NewInt(1235), serialized)
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestNullifierScopeSeparation(t *testing.T) {
	components := []*big.Int{big.NewInt(11), big.NewInt(22), big.NewInt(33)}

	a, err := Nullifier(components, big.NewInt(1001))
	require.NoError(t, err)
	b, err := Nullifier(components, big.NewInt(1002))
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	again, err := Nullifier(components, big.NewInt(1001))
	require.NoError(t, err)
	require.Equal(t, a, again)
}

func TestNullifierValidation(t *testing.T) {
	_, err := Nullifier(nil, big.NewInt(1))
	require.ErrorIs(t, err, ErrMissingComponent)

	_, err = Nullifier([]*big.Int{big.NewInt(1)}, nil)
	require.ErrorIs(t, err, ErrMissingComponent)

	_, err = Nullifier([]*big.Int{big.NewInt(1), nil}, big.NewInt(2))
	require.ErrorIs(t, err, ErrMissingComponent)

	wide := make([]*big.Int, maxHashInputs)
	for i := range wide {
		wide[i] = big.NewInt(int64(i))
	}
	_, err = Nullifier(wide, big.NewInt(2))
	require.ErrorIs(t, err, ErrTooManyElements)
}
