// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package commit derives Poseidon commitments and nullifiers from serialized
// identity records.
//
// Poseidon operates over BN254 scalar field elements, not raw bytes, so byte
// buffers are first packed into 31-byte little-endian chunks (each strictly
// below the field modulus) and hashed in groups. The commitment binds a
// holder secret to a serialized record; the nullifier binds an identity
// signature to a verifier scope so the same registration cannot prove twice
// under one scope without being correlatable across scopes.
package commit

import (
	"errors"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
)

const (
	// ChunkSize is the number of bytes packed per field element. 31 bytes
	// always fit below the 254-bit BN254 scalar modulus.
	ChunkSize = 31

	// maxHashInputs is the widest Poseidon instance available.
	maxHashInputs = 16
)

var (
	ErrEmptyInput       = errors.New("empty input")
	ErrTooManyElements  = errors.New("too many nullifier components")
	ErrMissingComponent = errors.New("missing signature component")
)

// PackBytes splits data into 31-byte chunks, each interpreted little-endian
// as a field element. The last chunk may be short; its missing high bytes
// are zero.
func PackBytes(data []byte) []*big.Int {
	if len(data) == 0 {
		return nil
	}
	n := (len(data) + ChunkSize - 1) / ChunkSize
	chunks := make([]*big.Int, 0, n)
	for off := 0; off < len(data); off += ChunkSize {
		end := off + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := make([]byte, end-off)
		// little-endian: reverse into big-endian for SetBytes
		for i, b := range data[off:end] {
			chunk[len(chunk)-1-i] = b
		}
		chunks = append(chunks, new(big.Int).SetBytes(chunk))
	}
	return chunks
}

// PackedHash packs data into field elements and Poseidon-hashes them. Inputs
// wider than one Poseidon instance are folded: each group of up to 16 chunks
// is hashed and the group digests are hashed again.
func PackedHash(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	elems := PackBytes(data)
	for len(elems) > 1 {
		next := make([]*big.Int, 0, (len(elems)+maxHashInputs-1)/maxHashInputs)
		for off := 0; off < len(elems); off += maxHashInputs {
			end := off + maxHashInputs
			if end > len(elems) {
				end = len(elems)
			}
			h, err := poseidon.Hash(elems[off:end])
			if err != nil {
				return nil, err
			}
			next = append(next, h)
		}
		elems = next
	}
	if len(elems) == 1 && len(data) <= ChunkSize {
		// A single chunk still passes through Poseidon so that the digest
		// never equals the raw packed value.
		return poseidon.Hash(elems)
	}
	return elems[0], nil
}

// Commitment derives the identity commitment inserted into the commitment
// accumulator at registration: Poseidon(secret, PackedHash(serialized)).
func Commitment(secret *big.Int, serialized []byte) (*big.Int, error) {
	if secret == nil {
		return nil, ErrMissingComponent
	}
	packed, err := PackedHash(serialized)
	if err != nil {
		return nil, err
	}
	return poseidon.Hash([]*big.Int{secret, packed})
}

// Nullifier derives the disclosure nullifier:
// Poseidon(sigComponents..., scope). The scope is a verifier-specific domain
// tag, so the same identity yields unlinkable nullifiers across verifiers.
func Nullifier(sigComponents []*big.Int, scope *big.Int) (*big.Int, error) {
	if len(sigComponents) == 0 {
		return nil, ErrMissingComponent
	}
	if scope == nil {
		return nil, ErrMissingComponent
	}
	if len(sigComponents)+1 > maxHashInputs {
		return nil, ErrTooManyElements
	}
	inputs := make([]*big.Int, 0, len(sigComponents)+1)
	for _, c := range sigComponents {
		if c == nil {
			return nil, ErrMissingComponent
		}
		inputs = append(inputs, c)
	}
	inputs = append(inputs, scope)
	return poseidon.Hash(inputs)
}
