// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec serializes identity document records into the fixed-width,
// NUL-padded byte buffers consumed by the disclosure circuits.
//
// Each encoding scheme (KYC, Selfper, Selfrica, Persona, Aadhaar) defines a
// fixed field order with fixed per-field byte widths. Serialization is a pure
// function of the record: concatenate each field value, upper-cased where the
// scheme requires it, right-padded with NUL bytes to its width. A field value
// longer than its width is an input error, never a truncation.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// DocumentScheme identifies a document encoding scheme. The set is closed:
// every scheme has exactly one layout and adding a scheme requires adding a
// layout, so dispatch can never fall through a default branch.
type DocumentScheme uint8

const (
	SchemeKYC DocumentScheme = iota + 1
	SchemeSelfper
	SchemeSelfrica
	SchemePersona
	SchemeAadhaar
)

func (s DocumentScheme) String() string {
	switch s {
	case SchemeKYC:
		return "kyc"
	case SchemeSelfper:
		return "selfper"
	case SchemeSelfrica:
		return "selfrica"
	case SchemePersona:
		return "persona"
	case SchemeAadhaar:
		return "aadhaar"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// Field names shared across scheme layouts. Not every scheme carries every
// field; the layout of a scheme lists the fields it serializes, in order.
const (
	FieldCountry            = "country"
	FieldIDType             = "idType"
	FieldIDNumber           = "idNumber"
	FieldDocumentNumber     = "documentNumber"
	FieldIssuanceDate       = "issuanceDate"
	FieldExpiryDate         = "expiryDate"
	FieldFullName           = "fullName"
	FieldDateOfBirth        = "dateOfBirth"
	FieldAddress            = "address"
	FieldAddressSubdivision = "addressSubdivision"
	FieldAddressPostalCode  = "addressPostalCode"
	FieldPhotoHash          = "photoHash"
	FieldPhoneNumber        = "phoneNumber"
	FieldDocumentSubtype    = "documentSubtype"
	FieldGender             = "gender"
)

var (
	ErrUnknownScheme = errors.New("unknown document scheme")
	ErrUnknownField  = errors.New("unknown field for scheme")
)

// FieldTooLongError reports a record field whose value exceeds its scheme
// width. The offending field is named so callers can surface it; the value is
// never truncated.
type FieldTooLongError struct {
	Scheme DocumentScheme
	Field  string
	Length int
	Max    int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s: field %q is %d bytes, maximum %d", e.Scheme, e.Field, e.Length, e.Max)
}

// Field is one fixed-width slot in a scheme layout.
type Field struct {
	Name   string
	Offset int
	Length int
}

// Layout is the ordered field list of a scheme. Offsets are contiguous: each
// field starts where the previous one ends.
type Layout []Field

// Size returns the total serialized length in bytes.
func (l Layout) Size() int {
	if len(l) == 0 {
		return 0
	}
	last := l[len(l)-1]
	return last.Offset + last.Length
}

// Range returns the [offset, offset+length) byte range of a named field.
func (l Layout) Range(name string) (offset, length int, err error) {
	for _, f := range l {
		if f.Name == name {
			return f.Offset, f.Length, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// SchemeLayout returns the layout of a scheme.
func SchemeLayout(s DocumentScheme) (Layout, error) {
	switch s {
	case SchemeKYC:
		return kycLayout, nil
	case SchemeSelfper:
		return selfperLayout, nil
	case SchemeSelfrica:
		return selfricaLayout, nil
	case SchemePersona:
		return personaLayout, nil
	case SchemeAadhaar:
		return aadhaarLayout, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}
}

// SchemeMaxLength returns the serialized record length of a scheme.
func SchemeMaxLength(s DocumentScheme) (int, error) {
	l, err := SchemeLayout(s)
	if err != nil {
		return 0, err
	}
	return l.Size(), nil
}

// FieldRange returns the [offset, offset+length) byte range of field within
// the serialized buffer of scheme.
func FieldRange(s DocumentScheme, field string) (offset, length int, err error) {
	l, err := SchemeLayout(s)
	if err != nil {
		return 0, 0, err
	}
	return l.Range(field)
}

// upperCased lists the fields whose values are upper-cased on serialization.
var upperCased = map[string]bool{
	FieldCountry: true,
	FieldIDType:  true,
}

// Serialize produces the fixed-width byte buffer for a record. The result is
// always exactly SchemeMaxLength(rec.Scheme) bytes; a field value longer than
// its slot fails with a FieldTooLongError naming the field.
func Serialize(rec *Record) ([]byte, error) {
	layout, err := SchemeLayout(rec.Scheme)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, layout.Size())
	for _, f := range layout {
		v, err := rec.fieldValue(f.Name)
		if err != nil {
			return nil, err
		}
		if upperCased[f.Name] {
			v = []byte(strings.ToUpper(string(v)))
		}
		if len(v) > f.Length {
			return nil, &FieldTooLongError{Scheme: rec.Scheme, Field: f.Name, Length: len(v), Max: f.Length}
		}
		copy(buf[f.Offset:f.Offset+f.Length], v)
	}
	return buf, nil
}

// Validate checks every field of the record against its scheme widths
// without producing the buffer. It fails with the same FieldTooLongError
// Serialize would return.
func Validate(rec *Record) error {
	_, err := Serialize(rec)
	return err
}
