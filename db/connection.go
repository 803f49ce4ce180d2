package db

import (
	"database/sql"
	"fmt"

	"permit-portal/config"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitDB() error {
	var err error
	connStr := config.GetDBConnString()

	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	err = DB.Ping()
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Create tables
	if err := createTables(); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	return nil
}

func createTables() error {
	studentTable := `
	CREATE TABLE IF NOT EXISTS students (
		student_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		course TEXT,
		level TEXT,
		semester TEXT,
		academic_year TEXT,
		phone TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	paymentAttemptTable := `
	CREATE TABLE IF NOT EXISTS payment_attempts (
		id SERIAL PRIMARY KEY,
		reference TEXT UNIQUE NOT NULL,
		student_id TEXT NOT NULL,
		amount REAL NOT NULL,
		currency TEXT NOT NULL,
		method TEXT,
		request_type TEXT,
		status TEXT DEFAULT 'PENDING',
		transaction_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

		CONSTRAINT fk_attempt_student
			FOREIGN KEY (student_id)
			REFERENCES students(student_id)
			ON DELETE CASCADE
	);`

	// The unique reference column enforces that a transaction reference
	// maps to at most one permit.
	permitTable := `
	CREATE TABLE IF NOT EXISTS permits (
		code TEXT PRIMARY KEY,
		reference TEXT UNIQUE,
		student_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		course TEXT,
		level TEXT,
		semester TEXT,
		academic_year TEXT,
		phone TEXT,
		status TEXT DEFAULT 'ACTIVE',
		issued_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	);`

	dlqTable := `
	CREATE TABLE IF NOT EXISTS dlq_messages (
		id SERIAL PRIMARY KEY,
		topic TEXT NOT NULL,
		key TEXT,
		payload TEXT,
		error_message TEXT,
		status TEXT DEFAULT 'UNRESOLVED',
		retry_count INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	// Students first so attempts can reference it
	if _, err := DB.Exec(studentTable); err != nil {
		return fmt.Errorf("error creating students table: %w", err)
	}

	if _, err := DB.Exec(paymentAttemptTable); err != nil {
		return fmt.Errorf("error creating payment_attempts table: %w", err)
	}

	if _, err := DB.Exec(permitTable); err != nil {
		return fmt.Errorf("error creating permits table: %w", err)
	}

	if _, err := DB.Exec(dlqTable); err != nil {
		return fmt.Errorf("error creating dlq_messages table: %w", err)
	}

	return nil
}
