package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir validates migration filenames + basic SQL headers.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	_, err := scan(os.DirFS(dir), dir)
	return err
}

// ValidateTwins validates both directories and requires every version in
// one to exist in the other, so postgres and sqlite schemas move together.
func ValidateTwins(postgresDir, sqliteDir string) error {
	if postgresDir == "" || sqliteDir == "" {
		return fmt.Errorf("both dirs are required")
	}
	pg, err := scan(os.DirFS(postgresDir), postgresDir)
	if err != nil {
		return err
	}
	lite, err := scan(os.DirFS(sqliteDir), sqliteDir)
	if err != nil {
		return err
	}
	if missing := missingVersions(pg, lite); len(missing) > 0 {
		return fmt.Errorf("versions %s have no sqlite migration in %q", strings.Join(missing, ", "), sqliteDir)
	}
	if missing := missingVersions(lite, pg); len(missing) > 0 {
		return fmt.Errorf("versions %s have no postgres migration in %q", strings.Join(missing, ", "), postgresDir)
	}
	return nil
}

// scan returns version -> filename for every .sql file under fsys.
func scan(fsys fs.FS, label string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", label, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}
	return seen, nil
}

func missingVersions(from, in map[string]string) []string {
	var out []string
	for version := range from {
		if _, ok := in[version]; !ok {
			out = append(out, version)
		}
	}
	sort.Strings(out)
	return out
}
