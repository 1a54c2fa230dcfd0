// Package sqlite persists knowledge-base data in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and the schema
// initialized.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS facts (
	key TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	args TEXT NOT NULL,
	confidence REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS signatures (
	name TEXT PRIMARY KEY,
	arg_types TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT,
	components TEXT
);

CREATE TABLE IF NOT EXISTS experiences (
	id TEXT PRIMARY KEY,
	predicates TEXT NOT NULL,
	actions TEXT NOT NULL,
	outcome TEXT,
	success INTEGER NOT NULL,
	observed TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
	key TEXT PRIMARY KEY,
	pattern TEXT NOT NULL,
	bindings TEXT NOT NULL,
	support INTEGER NOT NULL,
	negative INTEGER NOT NULL,
	confidence REAL NOT NULL,
	utility REAL NOT NULL,
	co_occurrence REAL NOT NULL,
	distinctiveness REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS promotions (
	id TEXT PRIMARY KEY,
	candidate_key TEXT NOT NULL,
	signature TEXT NOT NULL,
	definition TEXT NOT NULL,
	support INTEGER NOT NULL,
	confidence REAL NOT NULL,
	utility REAL NOT NULL,
	at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertFact inserts or updates a fact
func (s *sqliteStore) UpsertFact(ctx context.Context, f store.Fact) error {
	args, err := json.Marshal(f.Args)
	if err != nil {
		return err
	}
	const stmt = `
INSERT INTO facts (key, name, args, confidence)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	name=excluded.name,
	args=excluded.args,
	confidence=excluded.confidence`
	_, err = s.db.ExecContext(ctx, stmt, f.Key, f.Name, string(args), f.Confidence)
	return err
}

// GetFact fetches one fact by key
func (s *sqliteStore) GetFact(ctx context.Context, key string) (store.Fact, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT key, name, args, confidence FROM facts WHERE key = ?", key)

	var f store.Fact
	var args string
	if err := row.Scan(&f.Key, &f.Name, &args, &f.Confidence); err != nil {
		if err == sql.ErrNoRows {
			return store.Fact{}, fmt.Errorf("fact %q: %w", key, internalerr.ErrNotFound)
		}
		return store.Fact{}, err
	}
	if err := json.Unmarshal([]byte(args), &f.Args); err != nil {
		return store.Fact{}, err
	}
	return f, nil
}

// GetFacts returns all facts ordered by key
func (s *sqliteStore) GetFacts(ctx context.Context) ([]store.Fact, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, name, args, confidence FROM facts ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Fact
	for rows.Next() {
		var f store.Fact
		var args string
		if err := rows.Scan(&f.Key, &f.Name, &args, &f.Confidence); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(args), &f.Args); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFact removes a fact by key
func (s *sqliteStore) DeleteFact(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM facts WHERE key = ?", key)
	return err
}

// UpsertSignature inserts or updates a signature
func (s *sqliteStore) UpsertSignature(ctx context.Context, sig store.Signature) error {
	argTypes, err := json.Marshal(sig.ArgTypes)
	if err != nil {
		return err
	}
	components, err := json.Marshal(sig.Components)
	if err != nil {
		return err
	}
	const stmt = `
INSERT INTO signatures (name, arg_types, category, description, components)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	arg_types=excluded.arg_types,
	category=excluded.category,
	description=excluded.description,
	components=excluded.components`
	_, err = s.db.ExecContext(ctx, stmt,
		sig.Name, string(argTypes), sig.Category, sig.Description, string(components))
	return err
}

// GetSignatures returns all signatures ordered by name
func (s *sqliteStore) GetSignatures(ctx context.Context) ([]store.Signature, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, arg_types, category, description, components FROM signatures ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Signature
	for rows.Next() {
		var sig store.Signature
		var argTypes, components string
		if err := rows.Scan(&sig.Name, &argTypes, &sig.Category, &sig.Description, &components); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(argTypes), &sig.ArgTypes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(components), &sig.Components); err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// InsertExperience appends an episode
func (s *sqliteStore) InsertExperience(ctx context.Context, e store.Experience) error {
	predicates, err := json.Marshal(e.Predicates)
	if err != nil {
		return err
	}
	actions, err := json.Marshal(e.Actions)
	if err != nil {
		return err
	}
	const stmt = `
INSERT INTO experiences (id, predicates, actions, outcome, success, observed)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, stmt,
		e.ID, string(predicates), string(actions), e.Outcome,
		boolToInt(e.Success), e.Observed.UTC().Format(time.RFC3339Nano))
	return err
}

// GetExperiences returns the most recent episodes, newest first. A limit of
// 0 returns all.
func (s *sqliteStore) GetExperiences(ctx context.Context, limit int) ([]store.Experience, error) {
	query := "SELECT id, predicates, actions, outcome, success, observed FROM experiences ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Experience
	for rows.Next() {
		var e store.Experience
		var predicates, actions, observed string
		var success int
		if err := rows.Scan(&e.ID, &predicates, &actions, &e.Outcome, &success, &observed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(predicates), &e.Predicates); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(actions), &e.Actions); err != nil {
			return nil, err
		}
		e.Success = success != 0
		if e.Observed, err = time.Parse(time.RFC3339Nano, observed); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertCandidate inserts or updates candidate statistics
func (s *sqliteStore) UpsertCandidate(ctx context.Context, c store.Candidate) error {
	bindings, err := json.Marshal(c.Bindings)
	if err != nil {
		return err
	}
	const stmt = `
INSERT INTO candidates (key, pattern, bindings, support, negative, confidence, utility, co_occurrence, distinctiveness)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	pattern=excluded.pattern,
	bindings=excluded.bindings,
	support=excluded.support,
	negative=excluded.negative,
	confidence=excluded.confidence,
	utility=excluded.utility,
	co_occurrence=excluded.co_occurrence,
	distinctiveness=excluded.distinctiveness`
	_, err = s.db.ExecContext(ctx, stmt,
		c.Key, c.PatternName, string(bindings), c.Support, c.Negative,
		c.Confidence, c.Utility, c.CoOccurrence, c.Distinctiveness)
	return err
}

// GetCandidates returns all candidate statistics ordered by key
func (s *sqliteStore) GetCandidates(ctx context.Context) ([]store.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT key, pattern, bindings, support, negative, confidence, utility, co_occurrence, distinctiveness
FROM candidates ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Candidate
	for rows.Next() {
		var c store.Candidate
		var bindings string
		if err := rows.Scan(&c.Key, &c.PatternName, &bindings, &c.Support, &c.Negative,
			&c.Confidence, &c.Utility, &c.CoOccurrence, &c.Distinctiveness); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bindings), &c.Bindings); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCandidate removes candidate statistics by key
func (s *sqliteStore) DeleteCandidate(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM candidates WHERE key = ?", key)
	return err
}

// InsertPromotion appends a promotion event
func (s *sqliteStore) InsertPromotion(ctx context.Context, p store.Promotion) error {
	const stmt = `
INSERT INTO promotions (id, candidate_key, signature, definition, support, confidence, utility, at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt,
		p.ID, p.CandidateKey, p.Signature, p.Definition,
		p.Support, p.Confidence, p.Utility, p.At.UTC().Format(time.RFC3339Nano))
	return err
}

// GetPromotions returns all promotion events in order of occurrence
func (s *sqliteStore) GetPromotions(ctx context.Context) ([]store.Promotion, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, candidate_key, signature, definition, support, confidence, utility, at
FROM promotions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Promotion
	for rows.Next() {
		var p store.Promotion
		var at string
		if err := rows.Scan(&p.ID, &p.CandidateKey, &p.Signature, &p.Definition,
			&p.Support, &p.Confidence, &p.Utility, &at); err != nil {
			return nil, err
		}
		if p.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
