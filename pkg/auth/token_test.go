package auth_test

import (
	"context"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/auth"
)

func TestGenerateKeyShape(t *testing.T) {
	hex40 := regexp.MustCompile(`^[0-9a-f]{40}$`)

	a, err := auth.GenerateKey()
	require.NoError(t, err)
	b, err := auth.GenerateKey()
	require.NoError(t, err)

	assert.Regexp(t, hex40, a)
	assert.Regexp(t, hex40, b)
	assert.NotEqual(t, a, b)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc123":  "abc123",
		"bearer  abc123": "abc123",
		"Token abc123":   "",
		"Bearer":         "",
		"":               "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/users/retrieve", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, auth.BearerToken(r), "header %q", header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, auth.CheckPassword(hash, "s3cret!"))
	assert.False(t, auth.CheckPassword(hash, "guess"))
}

func TestIdentityContext(t *testing.T) {
	_, ok := auth.FromCtx(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 7, Username: "ana"})
	id, ok := auth.FromCtx(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(7), id.UserID)
}
