package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the storefront tables when they do not exist yet.
// Orders keep line items and shipping embedded as JSON so each order is one
// row and every write is a single-record write.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id             VARCHAR(64)  NOT NULL PRIMARY KEY,
			order_number   VARCHAR(32)  NOT NULL,
			items          JSON         NOT NULL,
			shipping       JSON         NOT NULL,
			payment_method VARCHAR(16)  NOT NULL,
			transaction_id VARCHAR(64)  NULL,
			shipping_cost  INT          NOT NULL,
			total_amount   INT          NOT NULL,
			status         VARCHAR(16)  NOT NULL,
			notes          TEXT         NULL,
			created_at     DATETIME     NOT NULL,
			approved_at    DATETIME     NULL,
			KEY idx_orders_created_at (created_at)
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS settings (
			name       VARCHAR(64) NOT NULL PRIMARY KEY,
			value      JSON        NOT NULL,
			updated_at DATETIME    NOT NULL
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS gallery_images (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			title      VARCHAR(255) NOT NULL,
			url        VARCHAR(512) NOT NULL,
			created_at DATETIME     NOT NULL,
			KEY idx_gallery_created_at (created_at)
		) CHARACTER SET utf8mb4`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
