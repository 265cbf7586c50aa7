package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestDatabaseSetup holds the connection shared by the integration tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 10, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every row written by a test
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	if _, err := t.DB.Exec(ctx, "TRUNCATE TABLE attendances, users CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

var testDB *TestDatabaseSetup

func TestMain(m *testing.M) {
	setup, err := NewTestDatabase(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = setup

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// requireDB skips the test without a database and resets the tables around it
func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, testDB.TruncateAllTables(ctx))
	t.Cleanup(func() {
		_ = testDB.TruncateAllTables(context.Background())
	})
	return testDB.DB
}

// createTestUser inserts a user fixture
func createTestUser(t *testing.T, ctx context.Context, db *database.DB, name, email string, role user.Role, status user.Status) user.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	id, err := uuid.NewV7()
	require.NoError(t, err)

	var u user.User
	err = db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, role, status, created_at
	`, id.String(), name, email, string(hashedPassword), string(role), string(status)).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedAt,
	)
	require.NoError(t, err)
	return u
}
