// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package inputs assembles the terminal artifact of the core: the mapping
// from named circuit signals to values consumed by the disclosure circuit.
// Signal names and shapes are fixed per circuit and must match exactly;
// field elements are rendered as decimal strings, bytes and ASCII digit
// codes as plain integers.
package inputs

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/identity/codec"
	"github.com/luxfi/identity/disclose"
	"github.com/luxfi/identity/imt"
	"github.com/luxfi/identity/smt"
)

var (
	ErrBadRecordLength = errors.New("serialized record length does not match scheme")
	ErrBadCurrentDate  = errors.New("current date must be 8 ASCII digits")
	ErrBadMinimumAge   = errors.New("minimum age must fit 3 ASCII digits")
	ErrMissingInput    = errors.New("missing circuit input component")
	ErrSchemeMismatch  = errors.New("selector and record schemes differ")
)

// Attestation identifiers, fixed by the registry contracts.
const (
	AttestationKYC      = 1
	AttestationSelfper  = 2
	AttestationSelfrica = 3
	AttestationPersona  = 4
	AttestationAadhaar  = 5
)

// AttestationID maps a document scheme to its registry attestation id.
func AttestationID(scheme codec.DocumentScheme) (int, error) {
	switch scheme {
	case codec.SchemeKYC:
		return AttestationKYC, nil
	case codec.SchemeSelfper:
		return AttestationSelfper, nil
	case codec.SchemeSelfrica:
		return AttestationSelfrica, nil
	case codec.SchemePersona:
		return AttestationPersona, nil
	case codec.SchemeAadhaar:
		return AttestationAadhaar, nil
	default:
		return 0, fmt.Errorf("%w: %s", codec.ErrUnknownScheme, scheme)
	}
}

// DiscloseInput is the circuit-input object. JSON field names are the
// circuit signal names.
type DiscloseInput struct {
	DataPadded            []int     `json:"data_padded"`
	CompressedDiscloseSel [2]string `json:"compressed_disclose_sel"`

	MerkleRoot string   `json:"merkle_root"`
	LeafDepth  int      `json:"leaf_depth"`
	Path       []int    `json:"path"`
	Siblings   []string `json:"siblings"`

	OfacNameDobSmtLeafKey  string   `json:"ofac_name_dob_smt_leaf_key"`
	OfacNameDobSmtRoot     string   `json:"ofac_name_dob_smt_root"`
	OfacNameDobSmtSiblings []string `json:"ofac_name_dob_smt_siblings"`
	OfacNameYobSmtLeafKey  string   `json:"ofac_name_yob_smt_leaf_key"`
	OfacNameYobSmtRoot     string   `json:"ofac_name_yob_smt_root"`
	OfacNameYobSmtSiblings []string `json:"ofac_name_yob_smt_siblings"`
	SelectorOfac           int      `json:"selector_ofac"`

	Scope            string `json:"scope"`
	UserIdentifier   string `json:"user_identifier"`
	CurrentDate      [8]int `json:"current_date"`
	MajorityAgeASCII [3]int `json:"majority_age_ASCII"`
	Secret           string `json:"secret"`
	AttestationID    string `json:"attestation_id"`
}

// Params carries every component merged into the circuit-input object.
// Proofs must be freshly generated against current accumulator state.
type Params struct {
	Record     *codec.Record
	Serialized []byte
	Selector   *disclose.Selector

	MerkleProof *imt.MerkleProof

	OfacNameDOB *smt.Proof
	OfacNameYOB *smt.Proof
	OfacDOBKey  *big.Int
	OfacYOBKey  *big.Int
	ScreenOFAC  bool

	Scope  *big.Int
	Secret *big.Int
}

// Assemble validates the components and merges them into the signal map.
func Assemble(p Params) (*DiscloseInput, error) {
	if p.Record == nil || p.Selector == nil || p.MerkleProof == nil ||
		p.OfacNameDOB == nil || p.OfacNameYOB == nil ||
		p.OfacDOBKey == nil || p.OfacYOBKey == nil ||
		p.Scope == nil || p.Secret == nil || p.Record.UserIdentifier == nil {
		return nil, ErrMissingInput
	}

	if p.Selector.Scheme() != p.Record.Scheme {
		return nil, fmt.Errorf("%w: selector %s, record %s",
			ErrSchemeMismatch, p.Selector.Scheme(), p.Record.Scheme)
	}
	maxLen, err := codec.SchemeMaxLength(p.Record.Scheme)
	if err != nil {
		return nil, err
	}
	if len(p.Serialized) != maxLen {
		return nil, fmt.Errorf("%w: got %d, scheme %s wants %d",
			ErrBadRecordLength, len(p.Serialized), p.Record.Scheme, maxLen)
	}

	lo, hi, err := p.Selector.Compress()
	if err != nil {
		return nil, err
	}

	attestation, err := AttestationID(p.Record.Scheme)
	if err != nil {
		return nil, err
	}

	in := &DiscloseInput{
		DataPadded:            bytesToInts(p.Serialized),
		CompressedDiscloseSel: [2]string{lo.Dec(), hi.Dec()},

		MerkleRoot: p.MerkleProof.Root.String(),
		LeafDepth:  p.MerkleProof.LeafDepth,
		Path:       pathToInts(p.MerkleProof.Path),
		Siblings:   bigsToStrings(p.MerkleProof.Siblings),

		OfacNameDobSmtLeafKey:  p.OfacDOBKey.String(),
		OfacNameDobSmtRoot:     p.OfacNameDOB.Root.String(),
		OfacNameDobSmtSiblings: bigsToStrings(p.OfacNameDOB.Siblings),
		OfacNameYobSmtLeafKey:  p.OfacYOBKey.String(),
		OfacNameYobSmtRoot:     p.OfacNameYOB.Root.String(),
		OfacNameYobSmtSiblings: bigsToStrings(p.OfacNameYOB.Siblings),

		Scope:          p.Scope.String(),
		UserIdentifier: p.Record.UserIdentifier.String(),
		Secret:         p.Secret.String(),
		AttestationID:  fmt.Sprintf("%d", attestation),
	}
	if p.ScreenOFAC {
		in.SelectorOfac = 1
	}

	if in.CurrentDate, err = dateDigits(p.Record.CurrentDate); err != nil {
		return nil, err
	}
	if in.MajorityAgeASCII, err = ageDigits(p.Record.MinimumAge); err != nil {
		return nil, err
	}
	return in, nil
}

func bytesToInts(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func pathToInts(path []uint8) []int {
	out := make([]int, len(path))
	for i, v := range path {
		out[i] = int(v)
	}
	return out
}

func bigsToStrings(vs []*big.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

// dateDigits renders a YYYYMMDD date as 8 ASCII digit codes.
func dateDigits(date string) ([8]int, error) {
	var out [8]int
	if len(date) != 8 {
		return out, fmt.Errorf("%w: %q", ErrBadCurrentDate, date)
	}
	for i := 0; i < 8; i++ {
		if date[i] < '0' || date[i] > '9' {
			return out, fmt.Errorf("%w: %q", ErrBadCurrentDate, date)
		}
		out[i] = int(date[i])
	}
	return out, nil
}

// ageDigits renders a minimum-age threshold as 3 ASCII digit codes.
func ageDigits(age int) ([3]int, error) {
	var out [3]int
	if age < 0 || age > 999 {
		return out, fmt.Errorf("%w: %d", ErrBadMinimumAge, age)
	}
	s := fmt.Sprintf("%03d", age)
	for i := 0; i < 3; i++ {
		out[i] = int(s[i])
	}
	return out, nil
}
