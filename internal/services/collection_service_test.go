// internal/services/collection_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/marketplace-backend/internal/models"
)

type stubAccounts struct {
	known map[string]*models.User
}

func (s stubAccounts) GetUserByAccount(account string) (*models.User, error) {
	if user, ok := s.known[account]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func TestResolveRoyaltyRecipient(t *testing.T) {
	creator := &models.User{Username: "creator"}
	accounts := stubAccounts{known: map[string]*models.User{
		"artist": {Username: "artist"},
	}}

	t.Run("no royalty means no recipient", func(t *testing.T) {
		recipient, err := resolveRoyaltyRecipient(creator, &MintKindRequest{
			RoyaltyBps:       0,
			RoyaltyRecipient: "artist",
		}, accounts)
		require.NoError(t, err)
		assert.Empty(t, recipient)
	})

	t.Run("defaults to the creator", func(t *testing.T) {
		recipient, err := resolveRoyaltyRecipient(creator, &MintKindRequest{
			RoyaltyBps: 400,
		}, accounts)
		require.NoError(t, err)
		assert.Equal(t, "creator", recipient)
	})

	t.Run("registered recipient accepted", func(t *testing.T) {
		recipient, err := resolveRoyaltyRecipient(creator, &MintKindRequest{
			RoyaltyBps:       400,
			RoyaltyRecipient: "artist",
		}, accounts)
		require.NoError(t, err)
		assert.Equal(t, "artist", recipient)
	})

	t.Run("unknown recipient rejected", func(t *testing.T) {
		_, err := resolveRoyaltyRecipient(creator, &MintKindRequest{
			RoyaltyBps:       400,
			RoyaltyRecipient: "nobody",
		}, accounts)
		assert.ErrorContains(t, err, "not a registered user")
	})
}
