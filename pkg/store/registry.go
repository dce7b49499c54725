package store

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Store types for `history.type`.
const (
	TypeInMemory = "in-memory"
	TypeRedis    = "redis"
)

// DefaultLimit is how many records are kept when `history.limit` is unset.
const DefaultLimit = 100

// New builds the history store the configuration asks for.
func New(cfg schema.HistoryConfig, application string) (Store, error) {
	if !cfg.Enabled {
		return nil, errUtils.ErrHistoryDisabled
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	switch cfg.Type {
	case "", TypeInMemory:
		return NewInMemoryStore(limit), nil

	case TypeRedis:
		var opts RedisStoreOptions
		if err := parseOptions(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("%w: %w", errUtils.ErrStoreOptions, err)
		}
		s, err := NewRedisStore(opts, application, limit)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s", errUtils.ErrUnknownStoreType, cfg.Type)
	}
}

func parseOptions(options map[string]any, target any) error {
	return mapstructure.Decode(options, target)
}
