package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotency_ClaimCompleteRelease(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	idem := store.NewIdempotency(rdb, time.Hour)
	ctx := context.Background()

	prev, err := idem.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, prev)

	_, err = idem.Claim(ctx, "k1")
	assert.ErrorIs(t, err, store.ErrInProgress)

	require.NoError(t, idem.Complete(ctx, "k1", "order-1"))
	prev, err = idem.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", prev)

	_, err = idem.Claim(ctx, "k2")
	require.NoError(t, err)
	require.NoError(t, idem.Release(ctx, "k2"))
	prev, err = idem.Claim(ctx, "k2")
	require.NoError(t, err)
	assert.Empty(t, prev)

	mr.FastForward(2 * time.Hour)
	prev, err = idem.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, prev, "expired keys can be claimed again")
}
