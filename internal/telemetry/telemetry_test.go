package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	provider, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, provider)

	// A nil provider shuts down cleanly.
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestInit_StdoutExporter(t *testing.T) {
	provider, err := Init(context.Background(), Config{
		Enabled:     true,
		Environment: "test",
	})
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestGetTracers(t *testing.T) {
	assert.NotNil(t, GetHTTPTracer())
	assert.NotNil(t, GetAnalysisTracer())
}
