// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sig

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
)

// EdDSA is the alternate signature scheme for encodings that authenticate
// with BabyJubJub keys. The Poseidon-based construction verifies without a
// modular inverse in its core check, so no effective-form transform is
// needed. Messages are field elements, typically the packed hash of the
// serialized record.

// GenerateEdDSAKey draws a fresh BabyJubJub private key.
func GenerateEdDSAKey() *babyjub.PrivateKey {
	k := babyjub.NewRandPrivKey()
	return &k
}

// SignEdDSA signs a field-element message with Poseidon EdDSA.
func SignEdDSA(priv *babyjub.PrivateKey, msg *big.Int) (*babyjub.Signature, error) {
	if priv == nil {
		return nil, ErrInvalidPrivateKey
	}
	if msg == nil {
		return nil, ErrInvalidSignature
	}
	return priv.SignPoseidon(msg), nil
}

// VerifyEdDSA checks a Poseidon EdDSA signature. The result is an explicit
// boolean; callers in the disclosure flow treat an unexpected false as
// fatal, never as a debug-only condition.
func VerifyEdDSA(pub *babyjub.PublicKey, msg *big.Int, sigma *babyjub.Signature) bool {
	if pub == nil || msg == nil || sigma == nil {
		return false
	}
	return pub.VerifyPoseidon(msg, sigma)
}

// NullifierComponents flattens an identity signature into the field elements
// the nullifier derivation hashes alongside the verifier scope.
func NullifierComponents(sigma *babyjub.Signature) []*big.Int {
	if sigma == nil || sigma.R8 == nil {
		return nil
	}
	return []*big.Int{sigma.R8.X, sigma.R8.Y, sigma.S}
}
