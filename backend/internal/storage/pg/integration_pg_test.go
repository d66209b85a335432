//go:build integration

package pg

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/campusdesk/campusdesk/shared/config"
	"github.com/campusdesk/campusdesk/shared/domain"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var storage *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()
	var container *postgres.PostgresContainer
	storage, container = mustSetup(ctx)

	exitCode := m.Run()
	teardown(ctx, storage, container)
	os.Exit(exitCode)
}

func mustSetup(ctx context.Context) (*Storage, *postgres.PostgresContainer) {
	dbName := "campus"
	dbUser := "user"
	dbPassword := "password"
	container, err := postgres.Run(ctx,
		"postgres:15.3-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			// First, we wait for the container to log readiness twice.
			// This is because it will restart itself after the first startup.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	containerPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("failed to obtain container port: %s", err)
	}
	port, err := strconv.Atoi(containerPort.Port())
	if err != nil {
		log.Fatalf("failed to obtain int container port: %s", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("failed to obtain container host: %s", err)
	}

	cfg := &config.Config{
		Public:  config.Public{QueryTimeout: 5},
		Private: config.Private{Pg: config.Pg{Host: host, Port: port, User: dbUser, Password: dbPassword, Dbname: dbName}},
	}
	storage, err := New(ctx, cfg, shared_pg.LightweightConnectionConfig())
	if err != nil {
		log.Fatalf("failed to connect to postgres container: %s", err)
	}
	return storage, container
}

func teardown(ctx context.Context, storage *Storage, container *postgres.PostgresContainer) {
	if err := storage.Cleanup(); err != nil {
		log.Printf("failed to close storage connection: %s", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
}

// createFakeUsers registers n users with generated names and returns them.
func createFakeUsers(t *testing.T, n int) []domain.UserName {
	t.Helper()
	ctx := context.Background()
	names := make([]domain.UserName, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Username() + strconv.Itoa(gofakeit.Number(1000, 9999))
		code := gofakeit.LetterN(6)
		ok, err := storage.SaveInvitation(ctx, domain.Invitation{Code: code, Email: gofakeit.Email(), Roles: "Role2", CreatedAt: time.Now()})
		require.NoError(t, err)
		require.True(t, ok)

		id, err := storage.CreateUserFromInvitation(ctx, domain.User{
			UserName:  name,
			PassHash:  "hash",
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Email:     gofakeit.Email(),
			Roles:     domain.Roles{Student: true},
		}, code)
		require.NoError(t, err)
		require.NotEqual(t, domain.InvalidId, id)
		names = append(names, name)
	}
	return names
}
