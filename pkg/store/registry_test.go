package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

func TestNew(t *testing.T) {
	_, err := New(schema.HistoryConfig{}, "app")
	assert.ErrorIs(t, err, errUtils.ErrHistoryDisabled)

	s, err := New(schema.HistoryConfig{Enabled: true}, "app")
	require.NoError(t, err)
	mem, ok := s.(*InMemoryStore)
	require.True(t, ok)
	assert.Equal(t, DefaultLimit, mem.limit)

	mr := miniredis.RunT(t)
	s, err = New(schema.HistoryConfig{
		Enabled: true,
		Type:    TypeRedis,
		Limit:   10,
		Options: map[string]any{"url": "redis://" + mr.Addr(), "prefix": "sul"},
	}, "app")
	require.NoError(t, err)
	rs, ok := s.(*RedisStore)
	require.True(t, ok)
	assert.Equal(t, "sul:app:runs", rs.key)
	assert.Equal(t, 10, rs.limit)

	_, err = New(schema.HistoryConfig{Enabled: true, Type: TypeRedis, Options: map[string]any{"url": 42}}, "app")
	assert.ErrorIs(t, err, errUtils.ErrStoreOptions)

	_, err = New(schema.HistoryConfig{Enabled: true, Type: "consul"}, "app")
	assert.ErrorIs(t, err, errUtils.ErrUnknownStoreType)
}
