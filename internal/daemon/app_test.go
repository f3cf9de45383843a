// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sidevit/trainconf/internal/api"
	"github.com/sidevit/trainconf/internal/config"
	"github.com/sidevit/trainconf/internal/log"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestApp_RunAndShutdown(t *testing.T) {
	loader := config.NewLoader("", "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	holder := config.NewConfigHolder(cfg, loader, "")
	srv := api.NewServer(holder, "test")

	addr := freeAddr(t)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	app := NewApp(log.WithComponent("daemon"), holder, httpSrv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// Wait for the server to come up, then hit the health endpoint.
	var resp *http.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = http.Get(fmt.Sprintf("http://%s/healthz", addr))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not shut down")
	}
}
