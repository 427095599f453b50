package telegram_test

import (
	"testing"

	"tgfilebot/backend/internal/telegram"

	"github.com/stretchr/testify/assert"
)

func tagging(trace *[]string, name string) telegram.Middleware {
	return func(next telegram.Handler) telegram.Handler {
		return func(c *telegram.Context) error {
			*trace = append(*trace, name)
			return next(c)
		}
	}
}

func aborting(trace *[]string, name string) telegram.Middleware {
	return func(next telegram.Handler) telegram.Handler {
		return func(c *telegram.Context) error {
			*trace = append(*trace, name)
			return nil
		}
	}
}

// TestChain_OutermostFirst verifies middlewares run in the order they
// are passed, wrapping the handler last.
func TestChain_OutermostFirst(t *testing.T) {
	// Arrange
	var trace []string
	h := telegram.Chain(recorder(&trace, "handler"),
		tagging(&trace, "first"), tagging(&trace, "second"))

	// Act
	assert.NoError(t, h(&telegram.Context{}))

	// Assert
	assert.Equal(t, []string{"first", "second", "handler"}, trace)
}

// TestChain_ShortCircuit: a middleware that does not call next stops the
// chain without an error, and the handler never runs.
func TestChain_ShortCircuit(t *testing.T) {
	var trace []string
	h := telegram.Chain(recorder(&trace, "handler"),
		tagging(&trace, "identity"), aborting(&trace, "gate"), tagging(&trace, "typing"))

	assert.NoError(t, h(&telegram.Context{}))

	assert.Equal(t, []string{"identity", "gate"}, trace, "nothing after the aborting middleware may run")
}
