package infra

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/florist/internal/config"
)

func TestNewCacheClient(t *testing.T) {
	c := zerolog.Nop().WithContext(context.Background())

	t.Run("given reachable redis should return client", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)

		cache, err := NewCacheClient(c, config.Cache{Host: mr.Host(), Port: uint16(port)})
		require.NoError(t, err)
		defer cache.Close()

		assert.NoError(t, cache.Set(c, "florist:ping", "pong", 0).Err())
		assert.True(t, mr.Exists("florist:ping"))
	})

	t.Run("given unreachable redis should return error", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)
		host := mr.Host()
		mr.Close()

		_, err = NewCacheClient(c, config.Cache{Host: host, Port: uint16(port)})
		assert.Error(t, err)
	})
}
