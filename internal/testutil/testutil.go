package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbeckett/visage/internal/api"
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/repository"
	repoPostgres "github.com/mbeckett/visage/internal/repository/postgres"
	"github.com/mbeckett/visage/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_visage"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.OTPCode{},
		&domain.GeneratedImage{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"generated_images",
		"otp_codes",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "0", // Random port
		Environment:          "test",
		JWTSecret:            "test-jwt-secret-key-for-testing-only",
		RefreshSecret:        "test-refresh-secret-key-for-testing-only",
		JWTExpirationHours:   1,
		OTPTTL:               10 * time.Minute,
		DailyGenerationLimit: 10,
		HuggingFaceModel:     "stabilityai/stable-diffusion-2-1",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	DB        *TestDB
	Repos     *repository.Repositories
	Services  *service.Services
	Config    *config.Config
	Notifier  *FakeNotifier
	Generator *FakeGenerator
	Blobs     *FakeBlobStore
}

// NewTestServer creates a complete test server with fake external
// collaborators
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	fakeNotifier := NewFakeNotifier()
	fakeGenerator := NewFakeGenerator()
	fakeBlobs := NewFakeBlobStore()

	services := service.NewServices(repos, cfg, fakeNotifier, fakeGenerator, fakeBlobs)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:    server,
		DB:        testDB,
		Repos:     repos,
		Services:  services,
		Config:    cfg,
		Notifier:  fakeNotifier,
		Generator: fakeGenerator,
		Blobs:     fakeBlobs,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return fmt.Sprintf("%s%s", ts.Server.URL, path)
}

// LoginToken mints a valid login token for the given user
func (ts *TestServer) LoginToken(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := ts.Services.Token.MintLoginToken(user)
	if err != nil {
		t.Fatalf("failed to mint login token: %v", err)
	}
	return token
}
