package logctx

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// These tests swap slog.Default() and must not run in parallel.

func TestFrom_DefaultWhenEmpty(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

func TestIntoFrom_RoundTrip(t *testing.T) {
	l := newSilent()
	ctx := Into(context.Background(), l)

	require.Same(t, l, From(ctx))
}

func TestFrom_NilLoggerFallsBack(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	var nilLogger *slog.Logger
	ctx := Into(context.Background(), nilLogger)

	require.Equal(t, def, From(ctx))
}

func TestInto_ChildDoesNotLeakToParent(t *testing.T) {
	parentLogger := newSilent()
	childLogger := newSilent()

	parent := Into(context.Background(), parentLogger)
	child := Into(parent, childLogger)

	require.Same(t, childLogger, From(child))
	require.Same(t, parentLogger, From(parent))
}
