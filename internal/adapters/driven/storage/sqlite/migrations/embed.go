// Package migrations holds the versioned SQL scripts for the SQLite
// artifact store. Scripts are named NNN_description.up.sql with a matching
// .down.sql.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed *.sql
var FS embed.FS

// Migration is one schema step.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// Load returns the up scripts in fsys ordered by version. Files that do
// not follow the naming scheme are ignored; two scripts claiming the same
// version, or an up script with no down script, are errors.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	downs := make(map[int]bool)
	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		version, kind, ok := parseName(name)
		if !ok {
			continue
		}
		if kind == "down" {
			downs[version] = true
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		out = append(out, Migration{Version: version, Name: name, Up: string(script)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	for i, m := range out {
		if i > 0 && out[i-1].Version == m.Version {
			return nil, fmt.Errorf("migrations %s and %s share version %d", out[i-1].Name, m.Name, m.Version)
		}
		if !downs[m.Version] {
			return nil, fmt.Errorf("migration %s has no down script", m.Name)
		}
	}
	return out, nil
}

// parseName splits "001_artifacts.up.sql" into (1, "up").
func parseName(name string) (int, string, bool) {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok {
		return 0, "", false
	}
	kind := strings.TrimPrefix(path.Ext(base), ".")
	if kind != "up" && kind != "down" {
		return 0, "", false
	}
	prefix, _, ok := strings.Cut(base, "_")
	if !ok {
		return 0, "", false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	return version, kind, true
}
