// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package disclose builds selective-disclosure selectors: one bit per
// serialized record byte, set when that byte is revealed in the clear.
//
// The circuit consumes the bitmap compressed into two arbitrary-precision
// integers, split at the midpoint of the bit sequence with little-endian bit
// order inside each half.
package disclose

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/holiman/uint256"

	"github.com/luxfi/identity/codec"
)

var (
	ErrSelectorTooWide = errors.New("selector half exceeds 256 bits")
)

// Selector is a per-byte disclosure bitmap for one scheme's serialized
// record. Bits for a named field are contiguous and span exactly that field's
// byte range.
type Selector struct {
	scheme codec.DocumentScheme
	layout codec.Layout
	bits   *bitset.BitSet
}

// BuildSelector returns a selector with every byte of the named fields
// revealed and everything else hidden. Unknown field names are an error.
func BuildSelector(scheme codec.DocumentScheme, fields []string) (*Selector, error) {
	layout, err := codec.SchemeLayout(scheme)
	if err != nil {
		return nil, err
	}
	s := &Selector{
		scheme: scheme,
		layout: layout,
		bits:   bitset.New(uint(layout.Size())),
	}
	for _, name := range fields {
		offset, length, err := layout.Range(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < length; i++ {
			s.bits.Set(uint(offset + i))
		}
	}
	return s, nil
}

// SetCustomBits ORs fine-grained disclosure bits into a single field's byte
// range, e.g. revealing only the first N characters of a name. A reveal[i]
// of true discloses byte offset+i. Entries beyond the field's range are
// ignored; bits outside the field are never touched, and bits already set at
// the field level are never cleared.
func (s *Selector) SetCustomBits(field string, reveal []bool) error {
	offset, length, err := s.layout.Range(field)
	if err != nil {
		return err
	}
	if len(reveal) > length {
		reveal = reveal[:length]
	}
	for i, r := range reveal {
		if r {
			s.bits.Set(uint(offset + i))
		}
	}
	return nil
}

// Scheme returns the scheme the selector was built for.
func (s *Selector) Scheme() codec.DocumentScheme { return s.scheme }

// Len returns the bitmap length, equal to the scheme's serialized record
// length.
func (s *Selector) Len() int { return s.layout.Size() }

// Bit reports whether serialized byte i is disclosed.
func (s *Selector) Bit(i int) bool { return s.bits.Test(uint(i)) }

// Compress splits the bitmap at floor(len/2) and packs each half into an
// integer, little-endian: bit i of the low integer is bitmap position i, bit
// i of the high integer is position mid+i. Every known scheme fits each half
// well inside 256 bits; a wider scheme is a programming error.
func (s *Selector) Compress() (lo, hi *uint256.Int, err error) {
	n := s.Len()
	mid := n / 2
	lob := new(big.Int)
	hib := new(big.Int)
	for i := 0; i < mid; i++ {
		if s.bits.Test(uint(i)) {
			lob.SetBit(lob, i, 1)
		}
	}
	for i := mid; i < n; i++ {
		if s.bits.Test(uint(i)) {
			hib.SetBit(hib, i-mid, 1)
		}
	}
	lo, overflow := uint256.FromBig(lob)
	if overflow {
		return nil, nil, fmt.Errorf("%w: scheme %s low half", ErrSelectorTooWide, s.scheme)
	}
	hi, overflow = uint256.FromBig(hib)
	if overflow {
		return nil, nil, fmt.Errorf("%w: scheme %s high half", ErrSelectorTooWide, s.scheme)
	}
	return lo, hi, nil
}

// Decompress rebuilds a selector from its compressed halves. It is the exact
// inverse of Compress for every bitmap of the scheme's length.
func Decompress(scheme codec.DocumentScheme, lo, hi *uint256.Int) (*Selector, error) {
	s, err := BuildSelector(scheme, nil)
	if err != nil {
		return nil, err
	}
	n := s.Len()
	mid := n / 2
	lob := lo.ToBig()
	hib := hi.ToBig()
	for i := 0; i < mid; i++ {
		if lob.Bit(i) == 1 {
			s.bits.Set(uint(i))
		}
	}
	for i := mid; i < n; i++ {
		if hib.Bit(i-mid) == 1 {
			s.bits.Set(uint(i))
		}
	}
	return s, nil
}

// Equal reports whether two selectors disclose exactly the same bytes.
func (s *Selector) Equal(o *Selector) bool {
	return s.scheme == o.scheme && s.bits.Equal(o.bits)
}
