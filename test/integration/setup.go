package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"item-compare/internal/catalog"
	"item-compare/internal/config"
	"item-compare/internal/database"
	"item-compare/internal/handler"
	"item-compare/internal/metrics"
	"item-compare/internal/repository"
	"item-compare/internal/router"
	"item-compare/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	// Admin is a read-write pool for seeding.
	Admin *pgxpool.Pool
	// Pool is the read-only pool the service uses.
	Pool *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container with the products table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	admin, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create admin pool: %v", err)
	}
	t.Cleanup(admin.Close)

	if _, err := admin.Exec(ctx, repository.ProductSchema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create service pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{
		Container: postgresContainer,
		Admin:     admin,
		Pool:      pool,
	}
}

// SeedProduct is one row for SeedProducts.
type SeedProduct struct {
	ID     string
	Name   string
	Price  string
	Rating float64
	Specs  map[string]any
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool, products ...SeedProduct) {
	t.Helper()

	ctx := context.Background()

	for _, p := range products {
		specs, err := json.Marshal(p.Specs)
		if err != nil {
			t.Fatalf("failed to encode specs of %s: %v", p.ID, err)
		}
		if p.Specs == nil {
			specs = []byte("{}")
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO products (id, name, image_url, description, price, rating, specifications)
			VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::jsonb)`,
			p.ID, p.Name, "https://example.com/"+p.ID+".jpg", "Description of "+p.Name,
			p.Price, p.Rating, string(specs),
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}
}

// CleanupDB removes all products.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM products"); err != nil {
		t.Logf("failed to clean products table: %v", err)
	}
}

// WriteCatalogFile writes a catalog document into a temp dir and returns its path.
func WriteCatalogFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

// TestServer is a fully wired HTTP stack over a real catalog store.
type TestServer struct {
	Handler http.Handler
	Store   *catalog.Store
	Metrics *metrics.Metrics
}

// NewTestServer loads the catalog through loader and wires the router the
// same way cmd/api does.
func NewTestServer(t *testing.T, loader catalog.Loader, location string) *TestServer {
	t.Helper()

	logger := zerolog.Nop()

	store, err := catalog.NewStore(context.Background(), loader, location, "USD", logger)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	m.SetCatalogSize(store.Len())

	svc := service.NewProductService(store, service.CompareBounds{Min: 2, Max: 10}, logger)

	opts := router.Options{
		APIPrefix:      "/api/v1",
		AllowedOrigins: []string{"*"},
		APIKey:         testAPIKey,
		Metrics:        m,
	}
	app := config.AppConfig{Name: "Item Comparison API", Version: "test", APIVersion: "v1", Environment: "development"}

	h := router.New(router.Handlers{
		Product: handler.NewProductHandler(svc, logger),
		Admin:   handler.NewAdminHandler(svc, m, logger),
		Info:    handler.NewInfoHandler(app, router.Endpoints(opts)),
	}, opts, logger)

	return &TestServer{Handler: h, Store: store, Metrics: m}
}
