package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupMetrics_Disabled(t *testing.T) {
	var buf bytes.Buffer

	shutdown, err := setupMetrics(false, &buf, time.Second)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestSetupMetrics_ExportsOnShutdown(t *testing.T) {
	var buf bytes.Buffer

	shutdown, err := setupMetrics(true, &buf, time.Hour)
	require.NoError(t, err)

	counter, err := otel.Meter("genfix.cmd.test").Int64Counter("genfix_test_counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "genfix_test_counter")
}
