package repositories

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-access/pkg/database/migrations"
)

var testPool *pgxpool.Pool

// TestMain connects to ACCESS_TEST_DATABASE_URL and applies the migrations.
// Without the variable every integration test is skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("ACCESS_TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to test database: %v", err)
	}

	migrator, err := migrations.New(testPool, zap.NewNop())
	if err != nil {
		log.Fatalf("open migrator: %v", err)
	}
	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	_ = migrator.Close()

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("ACCESS_TEST_DATABASE_URL not set")
	}
	cleanupTables(t, testPool)
	return testPool
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE access_requests, equipments, providers, persons RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "truncate tables")
}
