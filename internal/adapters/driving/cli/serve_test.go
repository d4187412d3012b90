package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
	assert.NotNil(t, serveCmd.Flags().Lookup("watch"))
	assert.NotNil(t, serveCmd.Flags().Lookup("no-scheduler"))
	assert.Contains(t, serveCmd.Long, "/api/admin/incremental-vectorize")
}

func TestServe_NoService(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)

	_, _, err := execute(t, "", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "memo service not configured")
}

func TestServe_StartsAndShutsDown(t *testing.T) {
	setupTestServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--no-scheduler"})

	err := rootCmd.ExecuteContext(ctx)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Serving memo API on http://127.0.0.1:")
	assert.Contains(t, stdout.String(), "Shutting down...")
}

func TestServe_ListenFailure(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "serve", "--addr", "256.0.0.1:bad")

	assert.Error(t, err)
}
