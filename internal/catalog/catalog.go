package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"

	"comboselect/internal/domain"
)

// ErrNotFound is returned when a collection has no option with the value
var ErrNotFound = errors.New("catalog: option not found")

const schema = `
CREATE TABLE IF NOT EXISTS options (
    collection TEXT NOT NULL,
    value      TEXT NOT NULL,
    label      TEXT NOT NULL,
    grp        TEXT NOT NULL DEFAULT '',
    disabled   INTEGER NOT NULL DEFAULT 0,
    position   INTEGER NOT NULL,
    PRIMARY KEY (collection, value)
);

CREATE INDEX IF NOT EXISTS idx_options_position ON options(collection, position);
`

// foldFunc is the SQL name of foldCase. SQLite's lower() only folds ASCII.
const foldFunc = "fold_case"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldCase)
}

// foldCase lowercases text the same way domain.OptionList.Filter does
func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	case nil:
		return nil, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Catalog stores named option collections in SQLite. Each collection backs
// one form field and is served through Collection.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the catalog database at path
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	log.Printf("catalog opened at %s", path)
	return &Catalog{db: db, path: path}, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file
func (c *Catalog) Path() string { return c.path }

// Collections lists the stored collection names
func (c *Catalog) Collections(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT collection FROM options ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of options in a collection
func (c *Catalog) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM options WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

// Seed stores list as collection when the collection is empty. It returns
// the number of options written; an existing collection is left alone.
func (c *Catalog) Seed(ctx context.Context, collection string, list domain.OptionList) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seeding %s: %w", collection, err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM options WHERE collection = ?`, collection).Scan(&existing); err != nil {
		return 0, fmt.Errorf("seeding %s: %w", collection, err)
	}
	if existing > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO options (collection, value, label, grp, disabled, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("seeding %s: %w", collection, err)
	}
	defer stmt.Close()

	pos := 0
	insert := func(o domain.Option, group string) error {
		pos++
		_, err := stmt.ExecContext(ctx, collection, o.Value, o.Label, group, o.Disabled, pos)
		return err
	}
	for _, e := range list {
		if !e.IsGroup() {
			if err := insert(e.Option, ""); err != nil {
				return 0, fmt.Errorf("seeding %s value %q: %w", collection, e.Option.Value, err)
			}
			continue
		}
		for _, o := range e.Group.Options {
			if err := insert(o, e.Group.Label); err != nil {
				return 0, fmt.Errorf("seeding %s value %q: %w", collection, o.Value, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seeding %s: %w", collection, err)
	}
	log.Printf("catalog: seeded %s with %d options", collection, pos)
	return pos, nil
}

// UpdateLabel changes the label of one option
func (c *Catalog) UpdateLabel(ctx context.Context, collection, value, label string) error {
	res, err := c.db.ExecContext(ctx, `UPDATE options SET label = ? WHERE collection = ? AND value = ?`, label, collection, value)
	if err != nil {
		return fmt.Errorf("updating label of %s/%s: %w", collection, value, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating label of %s/%s: %w", collection, value, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, value, ErrNotFound)
	}
	return nil
}

// Collection returns a provider over one collection. Search matches the
// given fields (label only when none are given).
func (c *Catalog) Collection(name string, fields ...string) *Collection {
	if len(fields) == 0 {
		fields = []string{domain.FieldLabel}
	}
	return &Collection{db: c.db, name: name, fields: fields}
}

// escapeLike escapes LIKE wildcards so the query matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
