package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	owner TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(collection, owner, created_at);`

// SQLiteStore is a Backend persisting documents in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Printf("INFO: document store opened: %s", path)
	return &SQLiteStore{db: db}, nil
}

// Collection returns a view over the named collection.
func (s *SQLiteStore) Collection(name string) Collection {
	return &sqliteCollection{db: s.db, name: name}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteCollection struct {
	db   *sql.DB
	name string
}

func (c *sqliteCollection) Create(ctx context.Context, doc Document) error {
	now := formatTime(time.Now())
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO documents(collection, id, owner, body, created_at, updated_at) VALUES(?,?,?,?,?,?)
		 ON CONFLICT(collection, id) DO NOTHING`,
		c.name, doc.ID, doc.Owner, string(doc.Body), now, now)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.name, doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.name, doc.ID, err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (c *sqliteCollection) Get(ctx context.Context, id string) (Document, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, owner, body, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		c.name, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return doc, nil
}

func (c *sqliteCollection) Update(ctx context.Context, doc Document) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, owner = CASE WHEN ? = '' THEN owner ELSE ? END, updated_at = ?
		 WHERE collection = ? AND id = ?`,
		string(doc.Body), doc.Owner, doc.Owner, formatTime(time.Now()), c.name, doc.ID)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, doc.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *sqliteCollection) List(ctx context.Context, owner string) ([]Document, error) {
	query := `SELECT id, owner, body, created_at, updated_at FROM documents WHERE collection = ?`
	args := []interface{}{c.name}
	if owner != "" {
		query += " AND owner = ?"
		args = append(args, owner)
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (Document, error) {
	var (
		doc              Document
		body             string
		created, updated string
	)
	if err := row.Scan(&doc.ID, &doc.Owner, &body, &created, &updated); err != nil {
		return Document{}, err
	}
	doc.Body = []byte(body)
	doc.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return doc, nil
}

// dsn applies the pragmas to every pooled connection, not just the first.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// formatTime uses a fixed-width layout so created_at sorts lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
