package authtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTripsValidToken(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	token := v.Sign("user-42", time.Now().Add(time.Hour))
	userID, err := v.Verify(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	token := v.Sign("user-42", time.Now().Add(-time.Minute))
	_, err = v.Verify(token, time.Now())
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_RejectsTamperedSignature(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	token := v.Sign("user-42", time.Now().Add(time.Hour))
	tampered := token[:len(token)-1] + "0"
	_, err = v.Verify(tampered, time.Now())
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_RejectsMalformedToken(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	_, err = v.Verify("not-a-token", time.Now())
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerify_DifferentSecretsDoNotCrossVerify(t *testing.T) {
	v1, _ := NewVerifier("secret-one")
	v2, _ := NewVerifier("secret-two")

	token := v1.Sign("user-42", time.Now().Add(time.Hour))
	_, err := v2.Verify(token, time.Now())
	assert.ErrorIs(t, err, ErrBadSignature)
}
