package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationTokenStates(t *testing.T) {
	token := NewCancellationToken()
	assert.False(t, token.IsCancelled())
	assert.NoError(t, token.Err())

	token.Cancel()
	assert.True(t, token.IsCancelled())
	assert.ErrorIs(t, token.Err(), ErrCancelled)

	// Idempotent: a second cancel is a no-op.
	token.Cancel()
	assert.True(t, token.IsCancelled())
}

func TestCancellationTokenDone(t *testing.T) {
	token := NewCancellationToken()

	select {
	case <-token.Done():
		t.Fatal("done channel closed before cancel")
	default:
	}

	token.Cancel()

	select {
	case <-token.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after cancel")
	}
}

func TestCancellationTokenLinkFuture(t *testing.T) {
	token := NewCancellationToken()
	fut := NewFuture()
	token.LinkFuture(fut)

	token.Cancel()

	require.True(t, fut.Completed())
	_, err := fut.Await(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCancellationTokenLinkAfterCancel(t *testing.T) {
	token := NewCancellationToken()
	token.Cancel()

	fut := NewFuture()
	token.LinkFuture(fut)

	require.True(t, fut.Completed())
	_, err := fut.Await(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCancellationTokenDoesNotAffectCompletedFuture(t *testing.T) {
	token := NewCancellationToken()
	fut := NewFuture()
	token.LinkFuture(fut)

	fut.Resolve("done")
	token.Cancel()

	value, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestCancellationTokenOnCancelledCallbackOrder(t *testing.T) {
	token := NewCancellationToken()

	var calls []int
	token.OnCancelled(func() { calls = append(calls, 1) })
	token.OnCancelled(func() { calls = append(calls, 2) })

	token.Cancel()
	assert.Equal(t, []int{1, 2}, calls)
}

func TestCancellationTokenOnCancelledRemove(t *testing.T) {
	token := NewCancellationToken()

	var removedRan, keptRan bool
	remove := token.OnCancelled(func() { removedRan = true })
	token.OnCancelled(func() { keptRan = true })
	remove()

	token.Cancel()
	assert.False(t, removedRan, "deregistered callback must not run")
	assert.True(t, keptRan)
}

func TestCancellationTokenRemoveAfterCancel(t *testing.T) {
	token := NewCancellationToken()
	token.Cancel()

	var called bool
	remove := token.OnCancelled(func() { called = true })
	assert.True(t, called)
	remove()
}

func TestWithTimeout(t *testing.T) {
	token := WithTimeout(10 * time.Millisecond)

	select {
	case <-token.Done():
	case <-time.After(time.Second):
		t.Fatal("timeout token did not self-cancel")
	}
	assert.True(t, token.IsCancelled())
}
