package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	capacity int
	name     string
}

type testOption = Option[*testConfig]

func withCapacity(n int) testOption {
	return New(func(c *testConfig) error {
		if n <= 0 {
			return errors.New("capacity must be positive")
		}
		c.capacity = n

		return nil
	})
}

func withName(name string) testOption {
	return NoError(func(c *testConfig) {
		c.name = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withCapacity(8), withName("a"), withName("b"))
		require.NoError(t, err)
		require.Equal(t, 8, cfg.capacity)
		require.Equal(t, "b", cfg.name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withName("a"), withCapacity(0), withName("b"))
		require.Error(t, err)
		require.Equal(t, "a", cfg.name)
		require.Zero(t, cfg.capacity)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withName("x"))
		require.NoError(t, err)
		require.Equal(t, "x", cfg.name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{capacity: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.capacity)
	})
}
