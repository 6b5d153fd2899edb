package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/textilehouse-backend/pkg/config"
)

// DefaultDir is where `-cmd=create` writes new postgres migrations. Every
// postgres migration needs a sqlite twin under migrations/sqlite with the
// same version.
const DefaultDir = "pkg/migrate/migrations/postgres"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// Dialect maps a config driver onto the goose dialect.
func Dialect(driver string) goose.Dialect {
	if strings.EqualFold(driver, config.DriverSQLite) {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

func embeddedDir(driver string) string {
	if strings.EqualFold(driver, config.DriverSQLite) {
		return path.Join("migrations", "sqlite")
	}
	return path.Join("migrations", "postgres")
}

// Sources returns the embedded migrations for driver, rooted at the
// migration files.
func Sources(driver string) (fs.FS, error) {
	sub, err := fs.Sub(embedded, embeddedDir(driver))
	if err != nil {
		return nil, fmt.Errorf("embedded migrations for %q: %w", driver, err)
	}
	return sub, nil
}

// Apply runs every pending embedded migration for driver.
func Apply(ctx context.Context, db *sql.DB, driver string) ([]*goose.MigrationResult, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	fsys, err := Sources(driver)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(Dialect(driver), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("goose up: %w", err)
	}
	return results, nil
}

// Run executes a standard goose command against the embedded migrations for driver.
func Run(ctx context.Context, db *sql.DB, driver string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if command == "" {
		return fmt.Errorf("command is required")
	}
	if err := useDialect(driver); err != nil {
		return err
	}
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, embeddedDir(driver), args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	if err := useDialect(driver); err != nil {
		return err
	}
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	dir := embeddedDir(driver)
	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

func useDialect(driver string) error {
	if err := goose.SetDialect(string(Dialect(driver))); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
