package application

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
)

// MigrationManager collects embedded goose migrations from modules and applies them.
type MigrationManager interface {
	RegisterSchema(fs ...*embed.FS)
	Run(ctx context.Context, db *sql.DB, command string) error
	Sources() []fs.FS
}

type migrationManager struct {
	schemas []*embed.FS
}

func NewMigrationManager() MigrationManager {
	return &migrationManager{}
}

func (m *migrationManager) RegisterSchema(fs ...*embed.FS) {
	m.schemas = append(m.schemas, fs...)
}

func (m *migrationManager) Sources() []fs.FS {
	out := make([]fs.FS, 0, len(m.schemas))
	for _, s := range m.schemas {
		out = append(out, s)
	}
	return out
}

// Run executes a goose command ("up", "down", "status") against every registered
// schema directory. Versions share one goose table, so file names are timestamped.
func (m *migrationManager) Run(ctx context.Context, db *sql.DB, command string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, schema := range m.schemas {
		dirs, err := migrationDirs(schema)
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			goose.SetBaseFS(schema)
			if err := goose.RunContext(ctx, command, db, dir); err != nil {
				return fmt.Errorf("migrate %s %s: %w", command, dir, err)
			}
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

func migrationDirs(fsys fs.FS) ([]string, error) {
	seen := map[string]bool{}
	var dirs []string
	files, err := listFiles(fsys, ".")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		dir := path.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
