package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

type env struct {
	store *store.Store
	dir   *store.UserDirectory
	audit *audit.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := store.New(testutil.NewDB(t))
	logger := audit.New(audit.NewStoreSink(s), time.Hour, 100)
	t.Cleanup(logger.Stop)
	return &env{
		store: s,
		dir:   store.NewUserDirectory(s.Users, nil),
		audit: logger,
	}
}

func number(t *testing.T, raw string) dto.Number {
	t.Helper()
	var n dto.Number
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	return n
}

func ptr[T any](v T) *T { return &v }
