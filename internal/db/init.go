package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    student_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    wallet_address TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL DEFAULT 'student'
);

CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    student_id TEXT REFERENCES users(student_id) ON DELETE CASCADE,
    course TEXT NOT NULL,
    grade TEXT NOT NULL,
    year INTEGER NOT NULL,
    institution TEXT NOT NULL,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    transaction_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS share_audit (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    issued_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
