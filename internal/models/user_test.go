package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"alice@x.com", "alice@x.com"},
		{"Alice@X.com", "alice@x.com"},
		{"  a@x.com  ", "a@x.com"},
		{"\tMIXED@Case.COM\n", "mixed@case.com"},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.expected, NormalizeEmail(tt.input))
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	user := User{Password: "pw123456"}

	require.NoError(t, user.HashPassword())
	assert.NotEqual(t, "pw123456", user.Password)

	assert.True(t, user.CheckPassword("pw123456"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, user.CheckPassword(""))
}

func TestUserJSONNeverExposesPassword(t *testing.T) {
	user := User{ID: 1, Name: "Alice", Email: "alice@x.com", Password: "some-hash"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "some-hash")
	assert.NotContains(t, string(data), "password")

	data, err = json.Marshal(user.Projection())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "some-hash")
	assert.NotContains(t, string(data), "password")
}

func TestIsProtected(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsProtected())
	assert.False(t, (&User{Role: RoleUser}).IsProtected())
	assert.False(t, (&User{}).IsProtected())
}
