package server_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/server"
)

func TestServer_Run(t *testing.T) {
	t.Run("stops when context is cancelled", func(t *testing.T) {
		srv := server.NewServer(server.ServerConfig{
			Port:            0,
			ShutdownTimeout: time.Second,
			Handler:         http.NotFoundHandler(),
			Logger:          zap.NewNop(),
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("reports listen errors", func(t *testing.T) {
		ln, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })

		srv := server.NewServer(server.ServerConfig{
			Port:            ln.Addr().(*net.TCPAddr).Port,
			ShutdownTimeout: time.Second,
			Handler:         http.NotFoundHandler(),
			Logger:          zap.NewNop(),
		})

		assert.Error(t, srv.Run(context.Background()))
	})
}
