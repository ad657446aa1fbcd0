//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// formConfig has a static single select, a grouped multi select and a
// catalog-backed searchable field
const formConfig = `version = 1
source = "static"

[catalog]
path = "options.db"
seed = true

[ui]
show_status_bar = true

[[fields]]
name = "status"
label = "Status"
state_path = "data.status"
placeholder = "Select a status"

[[fields.options]]
value = "draft"
label = "Draft"

[[fields.options]]
value = "review"
label = "In review"

[[fields]]
name = "tags"
label = "Tags"
state_path = "data.tags"
multiple = true
searchable = true
max_items = 2

[[fields.options]]
value = "go"
label = "Go"
group = "Languages"

[[fields.options]]
value = "rust"
label = "Rust"
group = "Languages"

[[fields.options]]
value = "sqlite"
label = "SQLite"
group = "Databases"

[[fields]]
name = "author"
label = "Author"
state_path = "data.author_id"
source = "catalog"
placeholder = "Search authors"
searchable = true
dynamic_search = true
search_debounce_ms = 100
`

// CreateWorkspace makes a temp dir holding the form config and returns the
// config path
func (tf *TUITestFramework) CreateWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "comboselect-e2e-*")
	if err != nil {
		return "", fmt.Errorf("creating workspace: %w", err)
	}
	tf.workspace = dir

	path := filepath.Join(dir, ".comboselect.toml")
	if err := os.WriteFile(path, []byte(formConfig), 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

// ReadConfig returns the config file contents
func (tf *TUITestFramework) ReadConfig() string {
	tf.t.Helper()
	data, err := os.ReadFile(filepath.Join(tf.workspace, ".comboselect.toml"))
	if err != nil {
		tf.t.Fatalf("reading config: %v", err)
	}
	return string(data)
}
