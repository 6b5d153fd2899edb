// Package dbtest opens throwaway sqlite databases shaped like the
// production schema.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// schema mirrors pkg/migrate/migrations with sqlite types; prices are TEXT
// so decimals round-trip exactly.
var schema = []string{
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		unit TEXT NOT NULL,
		colors TEXT NOT NULL DEFAULT '{}',
		currency TEXT NOT NULL,
		base_price TEXT NOT NULL,
		wholesale_base_price TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE product_price_tiers (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		mode TEXT NOT NULL,
		min_qty INTEGER NOT NULL CHECK (min_qty > 0),
		unit_price TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE (product_id, mode, min_qty)
	)`,
	`CREATE TABLE inquiries (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		product_slug TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		company TEXT,
		phone TEXT,
		message TEXT,
		mode TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		total_price TEXT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns a private in-memory database with the catalog schema applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}
