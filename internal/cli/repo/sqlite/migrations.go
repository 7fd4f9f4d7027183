package sqlite

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Встроенные SQL-миграции черновика, применяются по порядку имён файлов.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

type migration struct {
	name string
	ddl  string
}

func migrations() ([]migration, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]migration, 0, len(names))
	for _, n := range names {
		b, err := migrationFS.ReadFile(n)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", n, err)
		}
		out = append(out, migration{name: n, ddl: string(b)})
	}
	return out, nil
}
