package stub

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	client := dashboard.NewClient(srv.URL())
	require.NoError(t, client.Ping(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestServer_TLS(t *testing.T) {
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, TLS: true}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	assert.Contains(t, srv.URL(), "https://")

	client := dashboard.NewClient(srv.URL())
	err = client.Ping(context.Background())
	require.Error(t, err, "self-signed certificate must not verify")
	assert.True(t, dashboard.IsNetworkError(err))

	client.SetInsecure(true)
	require.NoError(t, client.Ping(context.Background()))
}

func TestGenerateSelfSigned(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSigned([]string{"localhost", "10.0.0.5", ""}, 30)
	require.NoError(t, err)
	assert.NotEmpty(t, keyPEM)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "10.0.0.5", cert.IPAddresses[0].String())
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), cert.NotAfter, time.Minute)
}
