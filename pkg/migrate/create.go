package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
)

const sqlTemplate = `-- +goose Up
-- %[1]s (%[2]s)

-- +goose Down
-- rollback %[1]s
`

// CreateSQLMigration writes a goose migration into dir and, when sqliteDir
// is set, a twin with the same version into sqliteDir:
//
//	<dir>/<YYYYMMDDHHMMSS>_<name>.sql
func CreateSQLMigration(dir, sqliteDir, name string, now time.Time) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	safe, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), safe)
	targets := []struct{ dir, flavor string }{{dir, "postgres"}}
	if sqliteDir != "" {
		targets = append(targets, struct{ dir, flavor string }{sqliteDir, "sqlite"})
	}

	paths := make([]string, 0, len(targets))
	for _, target := range targets {
		fullpath := filepath.Join(target.dir, filename)
		if _, err := os.Stat(fullpath); err == nil {
			return paths, fmt.Errorf("migration already exists: %s", fullpath)
		}
		if err := os.MkdirAll(target.dir, 0o755); err != nil {
			return paths, fmt.Errorf("mkdir %q: %w", target.dir, err)
		}
		body := fmt.Sprintf(sqlTemplate, safe, target.flavor)
		if err := os.WriteFile(fullpath, []byte(body), 0o644); err != nil {
			return paths, fmt.Errorf("write migration %q: %w", fullpath, err)
		}
		paths = append(paths, fullpath)
	}
	return paths, nil
}

func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required")
	}
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}
