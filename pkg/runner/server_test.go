package runner

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var healthy = httphelpers.HandlerWithJSONResponse(map[string]string{"status": "healthy"}, nil)

func portOf(t *testing.T, addr string) string {
	t.Helper()
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return port
}

func TestEnsureServer_ReusesRunningServer(t *testing.T) {
	httphelpers.WithServer(healthy, func(srv *httptest.Server) {
		ws := WebServer{Port: portOf(t, srv.Listener.Addr().String()), ReuseExisting: true}

		stop, err := EnsureServer(context.Background(), ws, http.NotFoundHandler())
		require.NoError(t, err)
		assert.NoError(t, stop())

		ws.ReuseExisting = false
		_, err = EnsureServer(context.Background(), ws, http.NotFoundHandler())
		assert.ErrorIs(t, err, ErrServerRunning)
	})
}

func TestEnsureServer_StartsInProcess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := portOf(t, ln.Addr().String())
	require.NoError(t, ln.Close())

	stop, err := EnsureServer(context.Background(), WebServer{Port: port}, healthy)
	require.NoError(t, err)
	assert.True(t, Healthy(context.Background(), "http://localhost:"+port))

	require.NoError(t, stop())
	assert.False(t, Healthy(context.Background(), "http://localhost:"+port))
}
