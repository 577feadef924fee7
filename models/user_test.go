package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	user := User{Password: "hunter22"}
	require.NoError(t, user.HashPassword())

	assert.NotEqual(t, "hunter22", user.Password)
	assert.True(t, user.ComparePassword("hunter22"))
	assert.False(t, user.ComparePassword("wrong"))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
}

func TestUserValid(t *testing.T) {
	assert.False(t, (&User{}).Valid())
	assert.True(t, (&User{Password: "hash"}).Valid())
	assert.True(t, (&User{GoogleID: "google-sub"}).Valid())
	assert.True(t, (&User{Password: "hash", GoogleID: "google-sub"}).Valid())
}
