package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveList(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(0)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Save(ctx, RunRecord{ID: fmt.Sprintf("run-%d", i), Kind: KindEvent, Name: "deploy.finished"}))
	}

	records, err = s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run-3", records[0].ID, "newest first")
	assert.Equal(t, "run-1", records[2].ID)

	records, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-3", "run-2"}, []string{records[0].ID, records[1].ID})
}

func TestInMemoryStore_Limit(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(2)

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Save(ctx, RunRecord{ID: fmt.Sprintf("run-%d", i)}))
	}

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-5", records[0].ID)
	assert.Equal(t, "run-4", records[1].ID)
}

func TestInMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(0)
	require.NoError(t, s.Save(ctx, RunRecord{ID: "run-1"}))

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	records[0].ID = "changed"

	records, err = s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "run-1", records[0].ID)
}

func TestInMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(0)
	require.NoError(t, s.Save(ctx, RunRecord{ID: "run-1"}))

	require.NoError(t, s.Close())
	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
