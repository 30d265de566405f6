package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/models"
)

func TestNewUserHashesPassword(t *testing.T) {
	user, err := models.NewUser("u1", "u1@email.com", "password", "")
	require.NoError(t, err)

	assert.NotEqual(t, "password", user.Password)
	assert.True(t, user.CheckPassword("password"))
	assert.False(t, user.CheckPassword("notpassword"))
}

func TestNewUserImageDefaults(t *testing.T) {
	user, err := models.NewUser("u1", "u1@email.com", "password", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, user.HeaderImageURL)

	custom, err := models.NewUser("u2", "u2@email.com", "password", "https://example.com/me.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/me.png", custom.ImageURL)
}

func TestSetPassword(t *testing.T) {
	user, err := models.NewUser("u1", "u1@email.com", "password", "")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("newpassword"))
	assert.True(t, user.CheckPassword("newpassword"))
	assert.False(t, user.CheckPassword("password"))
}
