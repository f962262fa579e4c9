package utils

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger(t *testing.T) *zap.Logger {
	cfg := zap.NewProductionConfig()
	l, err := cfg.Build()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func ensureDB(t *testing.T) *sql.DB {
	l := testLogger(t)
	cfg := PostgresConfig{
		Host:     GetEnvOrDefault("POSTGRES_HOST", "localhost"),
		Port:     GetEnvOrDefault("POSTGRES_PORT", "5432"),
		User:     GetEnvOrDefault("POSTGRES_USER", "postgres"),
		Password: GetEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		DBName:   GetEnvOrDefault("POSTGRES_DB", "text_analysis"),
		SSLMode:  GetEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}
	if os.Getenv("SKIP_DB_TESTS") != "" {
		t.Skip("db tests disabled")
	}
	db, err := InitDB(l, cfg)
	if err != nil {
		t.Skip("db not available")
	}
	t.Cleanup(func() { CloseDB(l, db) })

	if err := CreateSchema(context.Background(), l, db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func TestLexiconUpsertAndLoad(t *testing.T) {
	db := ensureDB(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `DELETE FROM entity_lexicon`)
	require.NoError(t, err)

	require.NoError(t, UpsertLexiconEntry(ctx, db, "  Globex   Corporation ", "org"))
	require.NoError(t, UpsertLexiconEntry(ctx, db, "Springfield", "GPE"))
	require.NoError(t, UpsertLexiconEntry(ctx, db, "springfield", "loc"))

	lexicon, err := LoadLexicon(ctx, testLogger(t), db)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"globex corporation": "ORG",
		"springfield":        "LOC",
	}, lexicon)
}

func TestUpsertLexiconEntryRejectsBlank(t *testing.T) {
	db := ensureDB(t)

	assert.Error(t, UpsertLexiconEntry(context.Background(), db, "  ", "ORG"))
	assert.Error(t, UpsertLexiconEntry(context.Background(), db, "Globex", ""))
}

func TestCreateSchemaRequiresConnection(t *testing.T) {
	assert.Error(t, CreateSchema(context.Background(), zap.NewNop(), nil))
}

func TestSeedLexicon(t *testing.T) {
	db := ensureDB(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `DELETE FROM entity_lexicon`)
	require.NoError(t, err)

	l := testLogger(t)
	require.NoError(t, SeedLexicon(ctx, l, db, []string{"Initech=ORG", "Shelbyville=gpe"}))
	assert.Error(t, SeedLexicon(ctx, l, db, []string{"Initech"}))

	lexicon, err := LoadLexicon(ctx, l, db)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"initech": "ORG", "shelbyville": "GPE"}, lexicon)
}
