package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashSecret_And_CompareSecret(t *testing.T) {
	req := require.New(t)

	hash, err := HashSecret("pw1")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	t.Run("matching secret verifies", func(t *testing.T) {
		req := require.New(t)
		match, err := CompareSecret("pw1", hash)
		req.NoError(err)
		req.True(match)
	})

	t.Run("comparison is exact and case-sensitive", func(t *testing.T) {
		req := require.New(t)
		for _, candidate := range []string{"PW1", "pw1 ", " pw1", "pw2", ""} {
			match, err := CompareSecret(candidate, hash)
			req.NoError(err)
			req.False(match, "candidate %q must not verify", candidate)
		}
	})

	t.Run("same secret hashes differently each time", func(t *testing.T) {
		req := require.New(t)
		other, err := HashSecret("pw1")
		req.NoError(err)
		req.NotEqual(hash, other)
	})

	t.Run("garbage hash format is an error", func(t *testing.T) {
		req := require.New(t)
		_, err := CompareSecret("pw1", "not-a-hash")
		req.Error(err)
	})
}

func TestTokenIssuer(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-signing-key", time.Hour)

	token, err := issuer.Generate("alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
	req.Equal("alice", claims.Subject)

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		req := require.New(t)
		other := NewTokenIssuer("different-key", time.Hour)
		_, err := other.Validate(token)
		req.Error(err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		req := require.New(t)
		expired := NewTokenIssuer("test-signing-key", -time.Minute)
		token, err := expired.Generate("alice")
		req.NoError(err)
		_, err = issuer.Validate(token)
		req.Error(err)
	})
}

func TestValidateSignup(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateSignup(SignupRequest{Username: "alice", Secret: "pw1"}))
	req.Error(ValidateSignup(SignupRequest{Username: "", Secret: "pw1"}))
	req.Error(ValidateSignup(SignupRequest{Username: "alice", Secret: ""}))
}
