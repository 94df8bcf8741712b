// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// Scheme layouts. Offsets are fixed by the corresponding circuits; changing
// a width or reordering a field breaks every proof generated for the scheme.

// personaLayout: 244 bytes.
var personaLayout = Layout{
	{FieldCountry, 0, 3},
	{FieldIDType, 3, 8},
	{FieldIDNumber, 11, 32},
	{FieldDocumentNumber, 43, 32},
	{FieldIssuanceDate, 75, 8},
	{FieldExpiryDate, 83, 8},
	{FieldFullName, 91, 64},
	{FieldDateOfBirth, 155, 8},
	{FieldAddressSubdivision, 163, 24},
	{FieldAddressPostalCode, 187, 12},
	{FieldPhotoHash, 199, 32},
	{FieldPhoneNumber, 231, 12},
	{FieldGender, 243, 1},
}

// kycLayout: 93 bytes, MRZ-sized.
var kycLayout = Layout{
	{FieldCountry, 0, 3},
	{FieldIDType, 3, 1},
	{FieldIDNumber, 4, 9},
	{FieldIssuanceDate, 13, 8},
	{FieldExpiryDate, 21, 8},
	{FieldFullName, 29, 39},
	{FieldDateOfBirth, 68, 8},
	{FieldGender, 76, 1},
	{FieldPhoneNumber, 77, 12},
	{FieldDocumentSubtype, 89, 4},
}

// selfperLayout: 160 bytes.
var selfperLayout = Layout{
	{FieldCountry, 0, 3},
	{FieldIDType, 3, 8},
	{FieldIDNumber, 11, 20},
	{FieldIssuanceDate, 31, 8},
	{FieldExpiryDate, 39, 8},
	{FieldFullName, 47, 64},
	{FieldDateOfBirth, 111, 8},
	{FieldGender, 119, 1},
	{FieldPhoneNumber, 120, 12},
	{FieldAddress, 132, 28},
}

// selfricaLayout: 200 bytes, partner-KYC encoding.
var selfricaLayout = Layout{
	{FieldCountry, 0, 3},
	{FieldIDType, 3, 8},
	{FieldIDNumber, 11, 24},
	{FieldDocumentNumber, 35, 24},
	{FieldIssuanceDate, 59, 8},
	{FieldExpiryDate, 67, 8},
	{FieldFullName, 75, 64},
	{FieldDateOfBirth, 139, 8},
	{FieldGender, 147, 1},
	{FieldPhotoHash, 148, 32},
	{FieldPhoneNumber, 180, 12},
	{FieldDocumentSubtype, 192, 8},
}

// aadhaarLayout: 320 bytes. Aadhaar has no document expiry field.
var aadhaarLayout = Layout{
	{FieldCountry, 0, 3},
	{FieldIDType, 3, 8},
	{FieldIDNumber, 11, 12},
	{FieldFullName, 23, 64},
	{FieldDateOfBirth, 87, 8},
	{FieldGender, 95, 1},
	{FieldAddress, 96, 160},
	{FieldPhotoHash, 256, 32},
	{FieldPhoneNumber, 288, 12},
	{FieldIssuanceDate, 300, 8},
	{FieldDocumentSubtype, 308, 12},
}
