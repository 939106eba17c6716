package runner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/e2esuite/internal/server"
	kashvihttp "github.com/shashiranjanraj/e2esuite/pkg/http"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
)

// HealthPath is probed to decide whether a server is already up.
const HealthPath = "/api/health"

// ErrServerRunning is returned when a server already answers on the port and
// the config forbids reusing it.
var ErrServerRunning = errors.New("runner: a server is already running")

// StopFunc shuts down a server started by EnsureServer.
type StopFunc func() error

// Healthy reports whether baseURL answers the health probe with 2xx.
func Healthy(ctx context.Context, baseURL string) bool {
	resp, err := kashvihttp.NewClient(baseURL).Get(HealthPath).
		WithContext(ctx).
		Timeout(2 * time.Second).
		Send()
	return err == nil && resp.OK()
}

// EnsureServer makes sure the mock server answers on ws.Port. A healthy
// server that is already running is reused when ws.ReuseExisting is set;
// otherwise h is served in-process until the returned StopFunc is called.
func EnsureServer(ctx context.Context, ws WebServer, h http.Handler) (StopFunc, error) {
	baseURL := "http://localhost:" + ws.Port
	if Healthy(ctx, baseURL) {
		if !ws.ReuseExisting {
			return nil, fmt.Errorf("%w on %s", ErrServerRunning, baseURL)
		}
		logger.Info("reusing running server", "url", baseURL)
		return func() error { return nil }, nil
	}

	ln, err := net.Listen("tcp", ":"+ws.Port)
	if err != nil {
		return nil, fmt.Errorf("runner: listen on %s: %w", ws.Port, err)
	}
	return serve(ctx, ln, ws, h)
}

func serve(ctx context.Context, ln net.Listener, ws WebServer, h http.Handler) (StopFunc, error) {
	srvCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(srvCtx, ln, h) }()

	stop := func() error {
		cancel()
		return <-done
	}

	timeout := time.Duration(ws.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	waitCtx, waitCancel := context.WithTimeout(ctx, timeout)
	defer waitCancel()

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	baseURL := "http://localhost:" + port
	for !Healthy(waitCtx, baseURL) {
		select {
		case <-waitCtx.Done():
			_ = stop()
			return nil, fmt.Errorf("runner: server on %s not healthy: %w", baseURL, waitCtx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}
	return stop, nil
}
