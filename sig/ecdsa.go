// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sig authenticates document payloads for the disclosure circuits.
//
// Two schemes are supported: ECDSA over secp256k1 with a deterministic
// Poseidon-derived nonce, and Poseidon EdDSA over BabyJubJub. ECDSA
// verification additionally has an "effective" form: the verification
// equation is restructured so the modular inverse it needs is computed here,
// off-circuit, and the circuit checks only s*T + U == pub with point
// operations.
package sig

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/iden3/go-iden3-crypto/constants"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/luxfi/crypto/secp256k1"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidSignature  = errors.New("invalid signature encoding")
	ErrPointNotOnCurve   = errors.New("point not on curve")
)

// Point is an affine secp256k1 point. X and Y nil means the point at
// infinity.
type Point struct {
	X, Y *big.Int
}

// Infinity reports whether the point is the group identity.
func (p Point) Infinity() bool { return p.X == nil || p.Y == nil }

// PublicKey is a secp256k1 verification key.
type PublicKey struct {
	Point
}

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// Signature carries the full nonce point R, not just its x-coordinate: the
// effective-ECDSA transform needs R itself to derive T.
type Signature struct {
	R Point
	S *big.Int
}

// GenerateKey draws a uniform scalar in [1, n).
func GenerateKey() (*PrivateKey, error) {
	curve := secp256k1.S256()
	nMinusOne := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
	d, err := rand.Int(rand.Reader, nMinusOne)
	if err != nil {
		return nil, err
	}
	d.Add(d, big.NewInt(1))
	x, y := curve.ScalarBaseMult(d.Bytes())
	return &PrivateKey{PublicKey: PublicKey{Point{x, y}}, D: d}, nil
}

// hashToScalar maps a message to a scalar: SHA-256, then reduced mod n.
func hashToScalar(msg []byte) *big.Int {
	h := sha256.Sum256(msg)
	e := new(big.Int).SetBytes(h[:])
	return e.Mod(e, secp256k1.S256().Params().N)
}

// deriveNonce computes the signing nonce deterministically as
// Poseidon(h, d, counter) reduced mod n. Inputs are reduced into the BN254
// scalar field first because Poseidon operates there. A deterministic nonce
// keeps witness generation reproducible across re-runs of the same inputs; a
// weak PRNG here would be both a security and a reproducibility bug.
func deriveNonce(h, d *big.Int, counter int64) (*big.Int, error) {
	q := constants.Q
	inputs := []*big.Int{
		new(big.Int).Mod(h, q),
		new(big.Int).Mod(d, q),
		big.NewInt(counter),
	}
	k, err := poseidon.Hash(inputs)
	if err != nil {
		return nil, err
	}
	return k.Mod(k, secp256k1.S256().Params().N), nil
}

// Sign produces an ECDSA signature with s in the low half of the scalar
// range. R's y-coordinate is kept consistent with the normalized s.
func Sign(priv *PrivateKey, msg []byte) (*Signature, error) {
	if priv == nil || priv.D == nil || priv.D.Sign() == 0 {
		return nil, ErrInvalidPrivateKey
	}
	curve := secp256k1.S256()
	n := curve.Params().N
	h := hashToScalar(msg)

	for counter := int64(0); ; counter++ {
		k, err := deriveNonce(h, priv.D, counter)
		if err != nil {
			return nil, err
		}
		if k.Sign() == 0 {
			continue
		}
		rx, ry := curve.ScalarBaseMult(k.Bytes())
		r := new(big.Int).Mod(rx, n)
		if r.Sign() == 0 {
			continue
		}
		kInv := new(big.Int).ModInverse(k, n)
		s := new(big.Int).Mul(r, priv.D)
		s.Add(s, h)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}
		// Low-s normalization flips k's sign, so R's y flips with it.
		if s.Cmp(new(big.Int).Rsh(n, 1)) > 0 {
			s.Sub(n, s)
			ry = new(big.Int).Sub(curve.Params().P, ry)
		}
		return &Signature{R: Point{rx, ry}, S: s}, nil
	}
}

// Verify checks the standard ECDSA equation: with u1 = h*s⁻¹ and
// u2 = r*s⁻¹, accept iff (u1*G + u2*pub).x ≡ r (mod n).
func Verify(pub *PublicKey, msg []byte, sigma *Signature) bool {
	curve := secp256k1.S256()
	n := curve.Params().N
	if pub == nil || pub.Infinity() || !curve.IsOnCurve(pub.X, pub.Y) {
		return false
	}
	if sigma == nil || sigma.S == nil || sigma.R.Infinity() {
		return false
	}
	r := new(big.Int).Mod(sigma.R.X, n)
	if r.Sign() == 0 || sigma.S.Sign() <= 0 || sigma.S.Cmp(n) >= 0 {
		return false
	}

	h := hashToScalar(msg)
	w := new(big.Int).ModInverse(sigma.S, n)
	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	p := scalarBase(u1)
	q := scalarMult(Point{pub.X, pub.Y}, u2)
	sum := addPoints(p, q)
	if sum.Infinity() {
		return false
	}
	return new(big.Int).Mod(sum.X, n).Cmp(r) == 0
}

// EffectiveArgs are the circuit-facing precomputed points: T = r⁻¹·R and
// U = −(h·r⁻¹)·G. The circuit then verifies s·T + U == pub with two scalar
// multiplications and one addition, and no in-circuit modular inverse.
type EffectiveArgs struct {
	T Point
	U Point
}

// DeriveEffectiveArgs computes r⁻¹ once, off-circuit, and folds it into the
// supplied points. For every valid signature, VerifyEffective over these
// arguments accepts exactly when Verify accepts.
func DeriveEffectiveArgs(msg []byte, sigma *Signature) (*EffectiveArgs, error) {
	curve := secp256k1.S256()
	n := curve.Params().N
	if sigma == nil || sigma.S == nil || sigma.R.Infinity() {
		return nil, ErrInvalidSignature
	}
	if !curve.IsOnCurve(sigma.R.X, sigma.R.Y) {
		return nil, ErrPointNotOnCurve
	}
	r := new(big.Int).Mod(sigma.R.X, n)
	if r.Sign() == 0 {
		return nil, ErrInvalidSignature
	}
	rInv := new(big.Int).ModInverse(r, n)

	t := scalarMult(sigma.R, rInv)

	h := hashToScalar(msg)
	hrInv := new(big.Int).Mul(h, rInv)
	hrInv.Mod(hrInv, n)
	var u Point
	if hrInv.Sign() != 0 {
		u = scalarBase(new(big.Int).Sub(n, hrInv))
	}
	return &EffectiveArgs{T: t, U: u}, nil
}

// VerifyEffective checks s·T + U == pub.
func VerifyEffective(s *big.Int, args *EffectiveArgs, pub *PublicKey) bool {
	if s == nil || args == nil || pub == nil || pub.Infinity() {
		return false
	}
	curve := secp256k1.S256()
	n := curve.Params().N
	if s.Sign() <= 0 || s.Cmp(n) >= 0 || args.T.Infinity() {
		return false
	}
	if !curve.IsOnCurve(args.T.X, args.T.Y) {
		return false
	}
	if !args.U.Infinity() && !curve.IsOnCurve(args.U.X, args.U.Y) {
		return false
	}
	sum := addPoints(scalarMult(args.T, s), args.U)
	if sum.Infinity() {
		return false
	}
	return sum.X.Cmp(pub.X) == 0 && sum.Y.Cmp(pub.Y) == 0
}

func scalarBase(k *big.Int) Point {
	if k == nil || k.Sign() == 0 {
		return Point{}
	}
	x, y := secp256k1.S256().ScalarBaseMult(k.Bytes())
	return Point{x, y}
}

func scalarMult(p Point, k *big.Int) Point {
	if p.Infinity() || k == nil || k.Sign() == 0 {
		return Point{}
	}
	x, y := secp256k1.S256().ScalarMult(p.X, p.Y, k.Bytes())
	return Point{x, y}
}

func addPoints(p, q Point) Point {
	if p.Infinity() {
		return q
	}
	if q.Infinity() {
		return p
	}
	x, y := secp256k1.S256().Add(p.X, p.Y, q.X, q.Y)
	if x == nil || x.Sign() == 0 && y.Sign() == 0 {
		return Point{}
	}
	return Point{x, y}
}
