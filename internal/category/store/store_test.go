package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/category/store"
	"github.com/MrJamesThe3rd/aion/internal/database/dbtest"
)

func TestStore_Categories(t *testing.T) {
	s := store.New(dbtest.Postgres(t))
	ctx := context.Background()

	got, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.ReplaceCategories(ctx, []string{"Moradia", "Lazer", "Pets"}))

	got, err = s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moradia", "Lazer", "Pets"}, got)
}
