//go:build integration

package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/diewo77/workshop-quotes/internal/models"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres and returns a config pointing at it.
// The password is passed as the service key, as in production.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "quotes",
			"POSTGRES_PASSWORD": "secret",
			"POSTGRES_DB":       "quotes",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Driver:     config.DriverPostgres,
		URL:        fmt.Sprintf("postgres://quotes@%s:%s/quotes?sslmode=disable", host, port.Port()),
		ServiceKey: "secret",
	}
}

func TestPostgresSQLMigrationsRoundTrip(t *testing.T) {
	cfg := startPostgres(t)
	log, _ := logtest.NewNullLogger()
	ctx := context.Background()

	conn, err := Open(ctx, cfg, log)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn, cfg, true, log))
	// Second run is a no-op.
	require.NoError(t, Migrate(conn, cfg, true, log))

	q := models.NewQuote("ORC-1", "2024-05-10T14:30:00.000Z",
		models.CompanySnapshot{Name: "Oficina"},
		models.ClientData{Name: "João"},
		[]models.Item{{ID: 1, Description: "Óleo", Quantity: 2, UnitPrice: 50}},
		100)
	require.NoError(t, conn.WithContext(ctx).Create(q).Error)

	var got models.Quote
	require.NoError(t, conn.WithContext(ctx).First(&got, "number = ?", "ORC-1").Error)
	assert.Equal(t, "João", got.Client.Data().Name)
	require.Len(t, got.Items.Data(), 1)
	assert.Equal(t, 50.0, got.Items.Data()[0].UnitPrice)
	assert.Equal(t, 0, got.ResendCount)

	row := &models.CompanySettings{Name: "Oficina"}
	require.NoError(t, conn.WithContext(ctx).Create(row).Error)
	assert.Len(t, row.ID, 36)
}
