package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
)

var migrationName = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.up\.sql$`)

type migration struct {
	version int
	name    string
}

// Migrate применяет ещё не применённые *.up.sql из fsys по возрастанию версии.
// Каждая миграция выполняется в своей транзакции вместе с записью в schema_migrations.
func (s *Storage) Migrate(ctx context.Context, fsys fs.FS) (int, error) {
	const op = "storage.postgres.Migrate"

	const ddl = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	list, err := listMigrations(fsys)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	applied := 0
	for _, m := range list {
		body, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return applied, fmt.Errorf("%s: %w", op, err)
		}

		var done bool
		err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations(version) VALUES ($1) ON CONFLICT DO NOTHING`, m.version)
			if err != nil {
				return err
			}

			if tag.RowsAffected() == 0 {
				return nil
			}

			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("%s: %w", m.name, err)
			}

			done = true
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("%s: %w", op, err)
		}

		if done {
			applied++
		}
	}

	return applied, nil
}

func listMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var out []migration
	for _, e := range entries {
		m := migrationName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		v, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, err
		}

		out = append(out, migration{version: v, name: e.Name()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })

	return out, nil
}
