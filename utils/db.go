package utils

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// InitDB opens the PostgreSQL database holding the entity lexicon
func InitDB(logger *zap.Logger, cfg PostgresConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")

	return db, nil
}

// CreateSchema creates the lexicon table if it doesn't exist
func CreateSchema(ctx context.Context, logger *zap.Logger, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}

	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS entity_lexicon (
            id SERIAL PRIMARY KEY,
            phrase TEXT NOT NULL UNIQUE,
            label TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create entity_lexicon table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_entity_lexicon_label ON entity_lexicon(label);
    `)
	if err != nil {
		return fmt.Errorf("failed to create lexicon indexes: %w", err)
	}

	logger.Info("Database schema created successfully")
	return nil
}

// UpsertLexiconEntry adds or relabels a phrase. Phrases are stored lowercase and single-spaced.
func UpsertLexiconEntry(ctx context.Context, db *sql.DB, phrase, label string) error {
	phrase = strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	label = strings.ToUpper(strings.TrimSpace(label))
	if phrase == "" || label == "" {
		return fmt.Errorf("phrase and label are required")
	}

	_, err := db.ExecContext(ctx, `
        INSERT INTO entity_lexicon (phrase, label)
        VALUES ($1, $2)
        ON CONFLICT (phrase) DO UPDATE SET label = EXCLUDED.label
    `, phrase, label)
	if err != nil {
		return fmt.Errorf("failed to upsert lexicon entry: %w", err)
	}
	return nil
}

// SeedLexicon upserts "phrase=LABEL" entries
func SeedLexicon(ctx context.Context, logger *zap.Logger, db *sql.DB, entries []string) error {
	for _, entry := range entries {
		phrase, label, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("lexicon entry %q is not phrase=LABEL", entry)
		}
		if err := UpsertLexiconEntry(ctx, db, phrase, label); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		logger.Info("Entity lexicon seeded", zap.Int("entries", len(entries)))
	}
	return nil
}

// LoadLexicon reads every lexicon entry as phrase -> label
func LoadLexicon(ctx context.Context, logger *zap.Logger, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT phrase, label FROM entity_lexicon ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity lexicon: %w", err)
	}
	defer rows.Close()

	lexicon := make(map[string]string)
	for rows.Next() {
		var phrase, label string
		if err := rows.Scan(&phrase, &label); err != nil {
			return nil, fmt.Errorf("failed to scan lexicon row: %w", err)
		}
		lexicon[phrase] = label
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity lexicon: %w", err)
	}

	logger.Info("Entity lexicon loaded", zap.Int("entries", len(lexicon)))
	return lexicon, nil
}

// CloseDB closes the database connection
func CloseDB(logger *zap.Logger, db *sql.DB) error {
	if db != nil {
		logger.Info("Closing database connection")
		return db.Close()
	}
	return nil
}
