// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ofac builds and queries the sanctions-screening accumulators.
//
// Every document scheme screens against two sparse Merkle trees built from
// the same sanctions list: one keyed by hash(name, full date of birth), one
// by hash(name, year of birth). Name normalization (upper-case, strip all
// whitespace) must be byte-identical between tree construction and proof
// generation or proofs silently stop matching; both paths go through
// LeafKey here for that reason.
package ofac

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/luxfi/identity/commit"
	"github.com/luxfi/identity/smt"
)

// Granularity selects which sanctions tree a proof is generated against.
type Granularity uint8

const (
	GranularityNameDOB Granularity = iota + 1
	GranularityNameYOB
)

func (g Granularity) String() string {
	switch g {
	case GranularityNameDOB:
		return "name+dob"
	case GranularityNameYOB:
		return "name+yob"
	default:
		return fmt.Sprintf("granularity(%d)", uint8(g))
	}
}

var (
	// ErrInvalidProofLevel reports a proof request at a granularity that is
	// neither name+DOB nor name+YOB. This is a programming error in the
	// caller, not bad input data.
	ErrInvalidProofLevel = errors.New("invalid sanctions proof level")

	ErrBadDate = errors.New("date must be 8 ASCII digits (YYYYMMDD)")
	ErrBadYear = errors.New("year must be 4 ASCII digits")
	ErrNoName  = errors.New("empty name")
)

// Entry is one sanctions-list record.
type Entry struct {
	Name string
	DOB  string // YYYYMMDD
}

// NormalizeName upper-cases a name and strips all whitespace.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func digits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// LeafKeyNameDOB derives the sanctions-tree key for a name and a full date
// of birth.
func LeafKeyNameDOB(name, dob string) (*big.Int, error) {
	if NormalizeName(name) == "" {
		return nil, ErrNoName
	}
	if !digits(dob, 8) {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, dob)
	}
	return commit.PackedHash([]byte(NormalizeName(name) + dob))
}

// LeafKeyNameYOB derives the sanctions-tree key for a name and a year of
// birth.
func LeafKeyNameYOB(name, yob string) (*big.Int, error) {
	if NormalizeName(name) == "" {
		return nil, ErrNoName
	}
	if !digits(yob, 4) {
		return nil, fmt.Errorf("%w: %q", ErrBadYear, yob)
	}
	return commit.PackedHash([]byte(NormalizeName(name) + yob))
}

// LeafKey dispatches on granularity. The date argument is a full YYYYMMDD
// date for GranularityNameDOB and a YYYY year for GranularityNameYOB.
func LeafKey(g Granularity, name, date string) (*big.Int, error) {
	switch g {
	case GranularityNameDOB:
		return LeafKeyNameDOB(name, date)
	case GranularityNameYOB:
		return LeafKeyNameYOB(name, date)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProofLevel, g)
	}
}

// TreeSet holds the two sanctions trees of one document scheme.
type TreeSet struct {
	NameDOB *smt.Tree
	NameYOB *smt.Tree
}

// Prove generates a membership-or-absence proof at the requested
// granularity.
func (ts *TreeSet) Prove(g Granularity, key *big.Int) (*smt.Proof, error) {
	switch g {
	case GranularityNameDOB:
		return ts.NameDOB.Prove(key)
	case GranularityNameYOB:
		return ts.NameYOB.Prove(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProofLevel, g)
	}
}

// Screen resolves a holder's leaf key at the given granularity and proves
// membership or absence.
func (ts *TreeSet) Screen(g Granularity, name, date string) (*smt.Proof, error) {
	key, err := LeafKey(g, name, date)
	if err != nil {
		return nil, err
	}
	return ts.Prove(g, key)
}
