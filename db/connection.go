package db

import (
	"database/sql"
	"fmt"

	"payments-module/config"

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
	userTable := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT,
		email TEXT,
		role TEXT DEFAULT 'student',
		referral_code TEXT UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	courseTable := `
	CREATE TABLE IF NOT EXISTS courses (
		id SERIAL PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL,
		title TEXT,
		price REAL NOT NULL,
		referral_price REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	paymentTable := `
	CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		purpose TEXT NOT NULL,
		purpose_id INTEGER,
		purpose_model TEXT DEFAULT '',
		course_slug TEXT DEFAULT '',
		amount_paise BIGINT NOT NULL,
		amount_inr REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'INR',
		status TEXT NOT NULL DEFAULT 'created',
		razorpay_order_id TEXT UNIQUE NOT NULL,
		razorpay_payment_id TEXT DEFAULT '',
		razorpay_signature TEXT DEFAULT '',
		receipt TEXT DEFAULT '',
		referral_code TEXT DEFAULT '',
		referral_applied BOOLEAN DEFAULT FALSE,
		refund_id TEXT DEFAULT '',
		refund_amount_paise BIGINT DEFAULT 0,
		amount_refunded_paise BIGINT DEFAULT 0,
		refund_status TEXT DEFAULT 'none',
		refund_reason TEXT DEFAULT '',
		refunded_at TIMESTAMP,
		webhook_verified BOOLEAN DEFAULT FALSE,
		webhook_event TEXT DEFAULT '',
		failure_reason TEXT DEFAULT '',
		failed_at TIMESTAMP,
		paid_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

		CONSTRAINT fk_payment_user
			FOREIGN KEY (user_id)
			REFERENCES users(id)
	);`

	enrollmentTable := `
	CREATE TABLE IF NOT EXISTS enrollments (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		course_slug TEXT NOT NULL,
		course_id INTEGER,
		payment_id INTEGER,
		razorpay_order_id TEXT DEFAULT '',
		amount_paid REAL DEFAULT 0,
		is_active BOOLEAN DEFAULT TRUE,
		enrolled_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP,

		CONSTRAINT uq_enrollment_user_course UNIQUE (user_id, course_slug),
		CONSTRAINT fk_enrollment_user
			FOREIGN KEY (user_id)
			REFERENCES users(id)
	);`

	webhookEventTable := `
	CREATE TABLE IF NOT EXISTS webhook_events (
		id SERIAL PRIMARY KEY,
		event_id TEXT,
		event TEXT,
		payload TEXT,
		signature_valid BOOLEAN DEFAULT FALSE,
		status TEXT DEFAULT 'received',
		error TEXT DEFAULT '',
		received_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	// Users and courses first so payments/enrollments can reference them
	tables := []string{userTable, courseTable, paymentTable, enrollmentTable, webhookEventTable}
	for _, stmt := range tables {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("error creating table: %w", err)
		}
	}

	// Secondary indexes for admin filtering and webhook lookups
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payment_id ON payments(razorpay_payment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_events_event_id ON webhook_events(event_id)`,
	}
	for _, stmt := range indexes {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("error creating index: %w", err)
		}
	}

	return nil
}
