package syncer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreMintsAndPersistsToken(t *testing.T) {
	dir := t.TempDir()

	s := NewTokenStore(dir, nil)
	assert.False(t, s.Ephemeral())

	token := s.ClientToken()
	_, err := uuid.Parse(token)
	require.NoError(t, err)

	// A second store over the same directory sees the same token.
	again := NewTokenStore(dir, nil)
	assert.Equal(t, token, again.ClientToken())
}

func TestTokenStoreActiveConversationRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewTokenStore(dir, nil)
	assert.Empty(t, s.ActiveConversation())

	s.SetActiveConversation("conv-1")
	assert.Equal(t, "conv-1", s.ActiveConversation())

	reopened := NewTokenStore(dir, nil)
	assert.Equal(t, "conv-1", reopened.ActiveConversation())

	reopened.SetActiveConversation("")
	assert.Empty(t, reopened.ActiveConversation())
	assert.Empty(t, NewTokenStore(dir, nil).ActiveConversation())
}

func TestTokenStoreFallsBackToMemory(t *testing.T) {
	s := NewTokenStore("/proc/definitely-not-writable/redoma", nil)
	assert.True(t, s.Ephemeral())

	// Still usable, just not durable.
	token := s.ClientToken()
	assert.NotEmpty(t, token)
	assert.Equal(t, token, s.ClientToken())

	s.SetActiveConversation("conv-1")
	assert.Equal(t, "conv-1", s.ActiveConversation())
}
