package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cvhariharan/actordir/store"
	"github.com/cvhariharan/actordir/store/storetest"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "actordir",
				"POSTGRES_PASSWORD": "actordir",
				"POSTGRES_DB":       "actordir",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://actordir:actordir@%s/actordir?sslmode=disable", endpoint)
}

func TestStore(t *testing.T) {
	dsn := startPostgres(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(context.Background(), dsn)
		require.NoError(t, err)
		_, err = s.pool.Exec(context.Background(), `TRUNCATE actors, latency_samples`)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}
