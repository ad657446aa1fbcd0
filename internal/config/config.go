package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
)

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = ".comboselect.toml"

// DefaultCatalogFile is the SQLite catalog used when none is configured
const DefaultCatalogFile = "comboselect.db"

// Option sources a field can be bound to
const (
	SourceStatic  = "static"
	SourceCatalog = "catalog"
	SourceServer  = "server"
)

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	Source  string        `toml:"source"` // default source for fields that don't name one
	Catalog CatalogConfig `toml:"catalog"`
	Server  ServerConfig  `toml:"server"`
	Fields  []FieldConfig `toml:"fields"`
	UI      UISettings    `toml:"ui"`
}

// CatalogConfig points at the SQLite option catalog
type CatalogConfig struct {
	Path string `toml:"path"`
	Seed bool   `toml:"seed"`
}

// ServerConfig configures both the option server and the client side of it
type ServerConfig struct {
	Addr      string `toml:"addr"`
	URL       string `toml:"url"`
	CacheSize int    `toml:"cache_size"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	AutosaveOnExit bool `toml:"autosave_on_exit"`
	ShowStatusBar  bool `toml:"show_status_bar"`
}

// OptionConfig is one static option; Group places it under a group header
type OptionConfig struct {
	Value    string `toml:"value"`
	Label    string `toml:"label"`
	Group    string `toml:"group,omitempty"`
	Disabled bool   `toml:"disabled,omitempty"`
}

// FieldConfig describes one combobox on the form
type FieldConfig struct {
	Name      string         `toml:"name"`
	Label     string         `toml:"label"`
	StatePath string         `toml:"state_path"`
	Source    string         `toml:"source,omitempty"`
	Options   []OptionConfig `toml:"options,omitempty"`

	Placeholder          string `toml:"placeholder,omitempty"`
	Multiple             bool   `toml:"multiple,omitempty"`
	Searchable           bool   `toml:"searchable,omitempty"`
	HTMLAllowed          bool   `toml:"html_allowed,omitempty"`
	Autofocus            bool   `toml:"autofocus,omitempty"`
	Disabled             bool   `toml:"disabled,omitempty"`
	CanSelectPlaceholder bool   `toml:"can_select_placeholder,omitempty"`
	CanOptionLabelsWrap  bool   `toml:"can_option_labels_wrap,omitempty"`

	DynamicOptions bool `toml:"dynamic_options,omitempty"`
	DynamicSearch  bool `toml:"dynamic_search,omitempty"`

	SearchDebounceMs       int      `toml:"search_debounce_ms,omitempty"`
	SearchPrompt           string   `toml:"search_prompt,omitempty"`
	LoadingMessage         string   `toml:"loading_message,omitempty"`
	SearchingMessage       string   `toml:"searching_message,omitempty"`
	NoSearchResultsMessage string   `toml:"no_search_results_message,omitempty"`
	MaxItems               int      `toml:"max_items,omitempty"`
	MaxItemsMessage        string   `toml:"max_items_message,omitempty"`
	OptionsLimit           int      `toml:"options_limit,omitempty"`
	Position               string   `toml:"position,omitempty"`
	SearchableFields       []string `toml:"searchable_fields,omitempty"`

	Value  string   `toml:"value,omitempty"`
	Values []string `toml:"values,omitempty"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service bound to path.
// An empty path means DefaultFileName in the working directory.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultFileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file, falling back to defaults when it doesn't exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath, Fields: len(cfg.Fields)})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Source == "" {
		c.Source = SourceStatic
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 128
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = DefaultCatalogFile
	}
}

// Validate checks field names and sources; widget-level parameters are
// validated when the widget is built
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Fields))
	for i, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("field #%d has no name", i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true

		switch c.SourceFor(f) {
		case SourceStatic, SourceCatalog, SourceServer:
		default:
			return fmt.Errorf("field %q: unknown source %q", f.Name, c.SourceFor(f))
		}
	}
	return nil
}

// SourceFor resolves the effective source of a field
func (c *Config) SourceFor(f FieldConfig) string {
	if f.Source != "" {
		return f.Source
	}
	if len(f.Options) > 0 {
		return SourceStatic
	}
	return c.Source
}

// Field finds a field by name
func (c *Config) Field(name string) (*FieldConfig, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// DefaultConfig returns the default configuration: a small sample form
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Source:  SourceCatalog,
		Catalog: CatalogConfig{Path: DefaultCatalogFile, Seed: true},
		Server:  ServerConfig{Addr: "127.0.0.1:8088", URL: "http://127.0.0.1:8088", CacheSize: 128},
		UI: UISettings{
			AutosaveOnExit: false,
			ShowStatusBar:  true,
		},
		Fields: []FieldConfig{
			{
				Name:        "status",
				Label:       "Status",
				StatePath:   "data.status",
				Source:      SourceStatic,
				Placeholder: "Select a status",
				Options: []OptionConfig{
					{Value: "draft", Label: "Draft"},
					{Value: "review", Label: "In review"},
					{Value: "published", Label: "Published"},
					{Value: "archived", Label: "Archived", Disabled: true},
				},
				CanSelectPlaceholder: true,
			},
			{
				Name:        "tags",
				Label:       "Tags",
				StatePath:   "data.tags",
				Source:      SourceStatic,
				Placeholder: "Pick tags",
				Multiple:    true,
				Searchable:  true,
				MaxItems:    3,
				Options: []OptionConfig{
					{Value: "go", Label: "Go", Group: "Languages"},
					{Value: "rust", Label: "Rust", Group: "Languages"},
					{Value: "zig", Label: "Zig", Group: "Languages"},
					{Value: "postgres", Label: "PostgreSQL", Group: "Databases"},
					{Value: "sqlite", Label: "SQLite", Group: "Databases"},
					{Value: "misc", Label: "Miscellaneous"},
				},
			},
			{
				Name:             "author",
				Label:            "Author",
				StatePath:        "data.author_id",
				Source:           SourceCatalog,
				Placeholder:      "Search authors",
				Searchable:       true,
				DynamicSearch:    true,
				SearchDebounceMs: 300,
				SearchPrompt:     "Start typing to search...",
				OptionsLimit:     50,
			},
		},
	}
}
