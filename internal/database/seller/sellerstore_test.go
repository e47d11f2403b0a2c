package seller

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"com.martdev.sellerhub/internal/util"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sellerhub_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	// Open the connection directly to avoid import cycles with the
	// 'database' package
	testDB, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	migrationsPath := filepath.Join("..", "..", "..", "cmd", "migrate", "migrations")

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	if err := goose.Up(testDB, migrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	code := m.Run()

	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}

	os.Exit(code)
}

// setupTest cleans the database between tests
func setupTest(t *testing.T) {
	_, err := testDB.Exec("TRUNCATE TABLE sellers CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func TestSellerStoreCreateSeller(t *testing.T) {
	setupTest(t)

	store := &SellerStore{DB: testDB}
	ctx := context.Background()

	t.Run("should create a verified seller", func(t *testing.T) {
		seller := &Seller{
			Fname:      "Ann",
			Lname:      "Lee",
			Email:      "container@example.com",
			Password:   "hashedpassword123",
			IsVerified: true,
		}

		err := store.CreateSeller(ctx, seller)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if seller.ID == "" {
			t.Error("expected seller ID to be set")
		}
		if seller.Role != RoleSeller {
			t.Errorf("expected default role %q, got %q", RoleSeller, seller.Role)
		}
		if seller.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}

		saved, err := store.GetSellerByID(ctx, seller.ID)
		if err != nil {
			t.Fatalf("failed to get seller: %v", err)
		}
		if saved.Email != seller.Email {
			t.Errorf("expected email %s, got %s", seller.Email, saved.Email)
		}
		if !saved.IsVerified {
			t.Error("expected seller to be verified")
		}
	})

	t.Run("should lowercase the email on write", func(t *testing.T) {
		seller := &Seller{
			Fname:    "Bob",
			Lname:    "Ray",
			Email:    "MiXeD@Example.COM",
			Password: "pw",
		}

		if err := store.CreateSeller(ctx, seller); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		saved, err := store.GetSellerByEmail(ctx, "mixed@example.com")
		if err != nil {
			t.Fatalf("failed to get seller: %v", err)
		}
		if saved.Email != "mixed@example.com" {
			t.Errorf("expected lowercased email, got %s", saved.Email)
		}
	})

	t.Run("should fail with duplicate email", func(t *testing.T) {
		seller1 := &Seller{
			Fname:    "First",
			Lname:    "Writer",
			Email:    "duplicate@example.com",
			Password: "pw1",
		}
		if err := store.CreateSeller(ctx, seller1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		seller2 := &Seller{
			Fname:    "Second",
			Lname:    "Writer",
			Email:    "Duplicate@Example.com",
			Password: "pw2",
		}
		err := store.CreateSeller(ctx, seller2)
		if err != util.ErrorDuplicateEmail {
			t.Errorf("expected ErrorDuplicateEmail, got %v", err)
		}
	})
}

func TestSellerStoreGetSeller(t *testing.T) {
	setupTest(t)

	store := &SellerStore{DB: testDB}
	ctx := context.Background()

	seller := &Seller{
		Fname:      "Ann",
		Lname:      "Lee",
		Email:      "a@x.com",
		Password:   "bcrypt-hash",
		IsVerified: true,
	}
	if err := store.CreateSeller(ctx, seller); err != nil {
		t.Fatalf("failed to create seller: %v", err)
	}

	t.Run("default email projection omits the password", func(t *testing.T) {
		saved, err := store.GetSellerByEmail(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved.Password != "" {
			t.Error("expected password to be omitted from the default projection")
		}
	})

	t.Run("opt-in projection includes the password hash", func(t *testing.T) {
		saved, err := store.GetSellerByEmailWithPassword(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved.Password != "bcrypt-hash" {
			t.Errorf("expected password hash, got %q", saved.Password)
		}
	})

	t.Run("id projection omits the password", func(t *testing.T) {
		saved, err := store.GetSellerByID(ctx, seller.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved.Password != "" {
			t.Error("expected password to be omitted")
		}
	})

	t.Run("unknown email yields not found", func(t *testing.T) {
		_, err := store.GetSellerByEmail(ctx, "nobody@example.com")
		if err != util.ErrorNotFound {
			t.Errorf("expected ErrorNotFound, got %v", err)
		}
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		_, err := store.GetSellerByID(ctx, uuid.New().String())
		if err != util.ErrorNotFound {
			t.Errorf("expected ErrorNotFound, got %v", err)
		}
	})
}
