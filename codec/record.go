// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"math/big"
)

// Record is a parsed identity document plus the protocol fields that ride
// alongside it. A record is built once at registration from parsed document
// data and never mutated afterwards.
//
// Serialized fields are strings of raw bytes except PhotoHash, which is the
// raw digest of the document photo. The protocol fields (UserIdentifier,
// CurrentDate, MinimumAge, OlderThan) are not part of the serialized buffer;
// they feed the circuit-input object directly.
type Record struct {
	Scheme DocumentScheme

	Country            string // ISO country code, upper-cased on serialization
	IDType             string // upper-cased on serialization
	IDNumber           string
	DocumentNumber     string
	IssuanceDate       string // YYYYMMDD
	ExpiryDate         string // YYYYMMDD; empty means no expiry field value
	FullName           string
	DateOfBirth        string // YYYYMMDD
	Address            string
	AddressSubdivision string
	AddressPostalCode  string
	PhotoHash          []byte
	PhoneNumber        string
	DocumentSubtype    string
	Gender             string

	// Protocol fields.
	UserIdentifier *big.Int
	CurrentDate    string // YYYYMMDD
	MinimumAge     int
	OlderThan      bool
}

func (r *Record) fieldValue(name string) ([]byte, error) {
	switch name {
	case FieldCountry:
		return []byte(r.Country), nil
	case FieldIDType:
		return []byte(r.IDType), nil
	case FieldIDNumber:
		return []byte(r.IDNumber), nil
	case FieldDocumentNumber:
		return []byte(r.DocumentNumber), nil
	case FieldIssuanceDate:
		return []byte(r.IssuanceDate), nil
	case FieldExpiryDate:
		return []byte(r.ExpiryDate), nil
	case FieldFullName:
		return []byte(r.FullName), nil
	case FieldDateOfBirth:
		return []byte(r.DateOfBirth), nil
	case FieldAddress:
		return []byte(r.Address), nil
	case FieldAddressSubdivision:
		return []byte(r.AddressSubdivision), nil
	case FieldAddressPostalCode:
		return []byte(r.AddressPostalCode), nil
	case FieldPhotoHash:
		return r.PhotoHash, nil
	case FieldPhoneNumber:
		return []byte(r.PhoneNumber), nil
	case FieldDocumentSubtype:
		return []byte(r.DocumentSubtype), nil
	case FieldGender:
		return []byte(r.Gender), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Active reports whether the document is considered active at the given date
// (YYYYMMDD). Aadhaar carries no expiry field, so an Aadhaar record is only
// active through its issuance-based validity window handled upstream; here a
// zero expiry on Aadhaar means inactive, while on every other scheme a zero
// expiry means the document never expires.
func (r *Record) Active(date string) bool {
	if r.ExpiryDate == "" {
		return r.Scheme != SchemeAadhaar
	}
	return r.ExpiryDate >= date
}
