package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("hunter22"))

	assert.NotEqual(t, "hunter22", u.Password)
	assert.True(t, u.CheckPassword("hunter22"))
	assert.False(t, u.CheckPassword("hunter23"))
}

func TestIsAdmin(t *testing.T) {
	u := User{Role: &Role{Code: RoleAdmin}}
	assert.True(t, u.IsAdmin())

	u.Role = &Role{Code: RoleOperator}
	assert.False(t, u.IsAdmin())

	u.Role = nil
	assert.False(t, u.IsAdmin())
	assert.Empty(t, u.RoleCode())
}
