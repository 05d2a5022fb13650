package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/models"
)

func TestConfirmationStore_SingleUse(t *testing.T) {
	store := NewConfirmationStore(time.Minute)

	token, err := store.Issue(42, 11)
	require.NoError(t, err)
	assert.Len(t, token, confirmationTokenLength)

	require.NoError(t, store.Consume(token, 42, 11))
	assert.ErrorIs(t, store.Consume(token, 42, 11), ErrConfirmationRequired)
}

func TestConfirmationStore_BoundToResidentAndVisitor(t *testing.T) {
	store := NewConfirmationStore(time.Minute)
	token, err := store.Issue(42, 11)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Consume(token, 42, 12), ErrConfirmationRequired)
	assert.ErrorIs(t, store.Consume(token, 43, 11), ErrConfirmationRequired)
	// A mismatched attempt does not burn the token.
	assert.NoError(t, store.Consume(token, 42, 11))
	assert.ErrorIs(t, store.Consume("", 42, 11), ErrConfirmationRequired)
}

func TestConfirmationStore_Expires(t *testing.T) {
	store := NewConfirmationStore(20 * time.Millisecond)
	token, err := store.Issue(42, 11)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	assert.ErrorIs(t, store.Consume(token, 42, 11), ErrConfirmationRequired)
}

func TestConfirmationStore_Confirmer(t *testing.T) {
	store := NewConfirmationStore(time.Minute)
	visitor := models.VisitorEntry{ID: 11}

	token, err := store.Issue(42, 11)
	require.NoError(t, err)
	ok, err := store.Confirmer(token, 42, true).Confirm(context.Background(), visitor)
	require.NoError(t, err)
	assert.True(t, ok)

	token, err = store.Issue(42, 11)
	require.NoError(t, err)
	ok, err = store.Confirmer(token, 42, false).Confirm(context.Background(), visitor)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Confirmer(token, 42, true).Confirm(context.Background(), visitor)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
}
