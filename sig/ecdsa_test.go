// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testMessage(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(i + 1)
	}
	return msg
}

func TestSignVerify(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(64)

	sigma, err := Sign(priv, msg)
	require.NoError(t, err)
	require.True(t, Verify(&priv.PublicKey, msg, sigma))
}

func TestSignDeterministic(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(32)

	a, err := Sign(priv, msg)
	require.NoError(t, err)
	b, err := Sign(priv, msg)
	require.NoError(t, err)
	require.Equal(t, a.S, b.S)
	require.Equal(t, a.R.X, b.R.X)
	require.Equal(t, a.R.Y, b.R.Y)
}

func TestVerifyRejectsFlippedByte(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(48)

	sigma, err := Sign(priv, msg)
	require.NoError(t, err)
	require.True(t, Verify(&priv.PublicKey, msg, sigma))

	// Flip one byte; signature and key are unchanged.
	msg[17] ^= 0x01
	require.False(t, Verify(&priv.PublicKey, msg, sigma))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	other, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(16)

	sigma, err := Sign(priv, msg)
	require.NoError(t, err)
	require.False(t, Verify(&other.PublicKey, msg, sigma))
}

func TestEffectiveAgreesWithStandard(t *testing.T) {
	for trial := 0; trial < 8; trial++ {
		priv, err := GenerateKey()
		require.NoError(t, err)
		msg := testMessage(100 + trial)

		sigma, err := Sign(priv, msg)
		require.NoError(t, err)

		args, err := DeriveEffectiveArgs(msg, sigma)
		require.NoError(t, err)

		std := Verify(&priv.PublicKey, msg, sigma)
		eff := VerifyEffective(sigma.S, args, &priv.PublicKey)
		require.True(t, std)
		require.Equal(t, std, eff, "trial %d", trial)
	}
}

func TestEffectiveRejectsWrongMessage(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(40)

	sigma, err := Sign(priv, msg)
	require.NoError(t, err)

	// Effective args derived for a different message must not verify the
	// original public key against this signature.
	tampered := testMessage(40)
	tampered[0] ^= 0xFF
	args, err := DeriveEffectiveArgs(tampered, sigma)
	require.NoError(t, err)
	require.False(t, VerifyEffective(sigma.S, args, &priv.PublicKey))

	// And both forms agree on the mismatch.
	require.False(t, Verify(&priv.PublicKey, tampered, sigma))
}

func TestEffectiveRejectsWrongKey(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	other, err := GenerateKey()
	require.NoError(t, err)
	msg := testMessage(24)

	sigma, err := Sign(priv, msg)
	require.NoError(t, err)
	args, err := DeriveEffectiveArgs(msg, sigma)
	require.NoError(t, err)
	require.False(t, VerifyEffective(sigma.S, args, &other.PublicKey))
}

func TestDeriveEffectiveArgsValidation(t *testing.T) {
	_, err := DeriveEffectiveArgs(testMessage(8), nil)
	require.ErrorIs(t, err, ErrInvalidSignature)

	_, err = DeriveEffectiveArgs(testMessage(8), &Signature{})
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSignRejectsBadKey(t *testing.T) {
	_, err := Sign(nil, testMessage(8))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = Sign(&PrivateKey{}, testMessage(8))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
}
