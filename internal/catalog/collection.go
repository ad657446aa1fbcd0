package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"comboselect/internal/domain"
	"comboselect/internal/provider"
)

// Collection serves one catalog collection as a provider
type Collection struct {
	db     *sql.DB
	name   string
	fields []string
}

var _ provider.Provider = (*Collection)(nil)

// Name returns the collection name
func (c *Collection) Name() string { return c.name }

// FetchInitial returns the whole collection in stored order
func (c *Collection) FetchInitial(ctx context.Context) (domain.OptionList, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT value, label, grp, disabled FROM options WHERE collection = ? ORDER BY position`, c.name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}
	return assemble(rows)
}

// Search matches query as a case-insensitive substring of the searchable
// fields. An empty query returns the whole collection.
func (c *Collection) Search(ctx context.Context, query string) (domain.OptionList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.FetchInitial(ctx)
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var conds []string
	var args []any
	args = append(args, c.name)
	for _, f := range c.fields {
		switch f {
		case domain.FieldLabel:
			conds = append(conds, foldFunc+`(label) LIKE ? ESCAPE '\'`)
		case domain.FieldValue:
			conds = append(conds, foldFunc+`(value) LIKE ? ESCAPE '\'`)
		default:
			continue
		}
		args = append(args, pattern)
	}
	if len(conds) == 0 {
		return domain.OptionList{}, nil
	}

	q := fmt.Sprintf(`SELECT value, label, grp, disabled FROM options
		WHERE collection = ? AND (%s)
		ORDER BY position`, strings.Join(conds, " OR "))
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", c.name, err)
	}
	return assemble(rows)
}

// LabelFor returns the label of value, or "" when the value is unknown
func (c *Collection) LabelFor(ctx context.Context, value string) (string, error) {
	var label string
	err := c.db.QueryRowContext(ctx,
		`SELECT label FROM options WHERE collection = ? AND value = ?`, c.name, value).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("label of %s/%s: %w", c.name, value, err)
	}
	return label, nil
}

// LabelsFor returns the known options among values, in input order
func (c *Collection) LabelsFor(ctx context.Context, values []string) ([]domain.Option, error) {
	if len(values) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(values))
	args := make([]any, 0, len(values)+1)
	args = append(args, c.name)
	for i, v := range values {
		placeholders[i] = "?"
		args = append(args, v)
	}
	q := fmt.Sprintf(`SELECT value, label, disabled FROM options WHERE collection = ? AND value IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("labels of %s: %w", c.name, err)
	}
	defer rows.Close()

	byValue := make(map[string]domain.Option, len(values))
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.Value, &o.Label, &o.Disabled); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		byValue[o.Value] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("labels of %s: %w", c.name, err)
	}

	out := make([]domain.Option, 0, len(byValue))
	for _, v := range values {
		if o, ok := byValue[v]; ok {
			out = append(out, o)
			delete(byValue, v)
		}
	}
	return out, nil
}

// assemble rebuilds a grouped list from rows ordered by position. A group
// is placed where its first option appears.
func assemble(rows *sql.Rows) (domain.OptionList, error) {
	defer rows.Close()

	list := domain.OptionList{}
	groupAt := make(map[string]int)
	for rows.Next() {
		var o domain.Option
		var group string
		if err := rows.Scan(&o.Value, &o.Label, &group, &o.Disabled); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		if group == "" {
			list = append(list, domain.Entry{Option: o})
			continue
		}
		if i, ok := groupAt[group]; ok {
			list[i].Group.Options = append(list[i].Group.Options, o)
			continue
		}
		groupAt[group] = len(list)
		list = append(list, domain.NewGroup(group, o))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading options: %w", err)
	}
	return list, nil
}
