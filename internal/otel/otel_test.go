package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPropagator(t *testing.T) {
	fields := newPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	assert.Contains(t, fields, "uber-trace-id")
	assert.Contains(t, fields, "ot-tracer-traceid")
}

func TestShutdownOtel(t *testing.T) {
	errExporter := errors.New("exporter unreachable")
	called := make(chan struct{}, 2)

	err := ShutdownOtel(context.Background(), []ShutdownFunc{
		func(context.Context) error { called <- struct{}{}; return nil },
		func(context.Context) error { called <- struct{}{}; return errExporter },
	})
	assert.ErrorIs(t, err, errExporter)
	assert.Len(t, called, 2)

	assert.NoError(t, ShutdownOtel(context.Background(), nil))
}
