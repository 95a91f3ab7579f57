package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResolve(t *testing.T) {
	fut := NewFuture()
	assert.False(t, fut.Completed())

	fut.Resolve(42)

	assert.True(t, fut.Completed())
	value, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFutureReject(t *testing.T) {
	fut := NewFuture()
	boom := errors.New("boom")
	fut.Reject(boom)

	_, err := fut.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFutureSingleAssignment(t *testing.T) {
	fut := NewFuture()
	fut.Resolve("first")
	fut.Resolve("second")
	fut.Reject(errors.New("late"))

	value, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestFutureAwaitContextCancelled(t *testing.T) {
	fut := NewFuture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fut.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The future itself stays pending; other waiters are unaffected.
	assert.False(t, fut.Completed())
	fut.Resolve("later")
	value, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "later", value)
}
