package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kushal-prime/kushalwearback/pkg/config"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-at-least-32-characters",
		Issuer:            "kushalwear",
		ExpirationMinutes: 60,
	}
}

func TestMintAndVerify(t *testing.T) {
	manager, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := manager.Mint(userID, enums.UserRoleAdmin)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)
	assert.Equal(t, "kushalwear", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.Secret = "a-completely-different-signing-secret"
	verifier, err := NewTokenManager(otherCfg)
	require.NoError(t, err)

	token, err := minter.Mint(uuid.New(), enums.UserRoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.ExpirationMinutes = -1
	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	token, err := manager.Mint(uuid.New(), enums.UserRoleUser)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager(config.JWTConfig{})
	assert.Error(t, err)
}
