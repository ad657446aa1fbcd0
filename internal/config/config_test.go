package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	tags, ok := cfg.Field("tags")
	require.True(t, ok)
	tags.SetSelection(domain.Selection{Multiple: true, Values: []string{"go", "sqlite"}})

	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Fields, loaded.Fields)

	field, _ := loaded.Field("tags")
	assert.Equal(t, []string{"go", "sqlite"}, field.Selection().Values)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[fields]]
name = "color"
[[fields.options]]
value = "red"
`), 0644))

	cfg, err := NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, SourceStatic, cfg.Source)
	assert.Equal(t, 128, cfg.Server.CacheSize)
	assert.Equal(t, DefaultCatalogFile, cfg.Catalog.Path)
	assert.Equal(t, SourceStatic, cfg.SourceFor(cfg.Fields[0]))
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "version = ["},
		{"unnamed field", "[[fields]]\nlabel = \"x\""},
		{"duplicate", "[[fields]]\nname = \"a\"\n[[fields]]\nname = \"a\""},
		{"unknown source", "[[fields]]\nname = \"a\"\nsource = \"ldap\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			_, err := NewConfigService(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestOptionListGroupsByFirstAppearance(t *testing.T) {
	f := FieldConfig{Options: []OptionConfig{
		{Value: "a", Group: "G1"},
		{Value: "b", Label: "B"},
		{Value: "c", Label: "C", Group: "G1", Disabled: true},
		{Value: "d", Label: "D", Group: "G2"},
	}}

	list := f.OptionList()
	require.Len(t, list, 3)
	require.True(t, list[0].IsGroup())
	assert.Equal(t, "G1", list[0].Group.Label)
	assert.Equal(t, []domain.Option{
		{Value: "a", Label: "a"},
		{Value: "c", Label: "C", Disabled: true},
	}, list[0].Group.Options)
	assert.Equal(t, "b", list[1].Option.Value)
	assert.Equal(t, "G2", list[2].Group.Label)
}

func TestBusReceivesConfigEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.EventType, 2)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { got <- e.Type() })
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) { got <- e.Type() })

	svc := NewConfigServiceWithBus(filepath.Join(t.TempDir(), "c.toml"), bus)
	cfg, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(cfg))

	seen := map[eventbus.EventType]bool{}
	for i := 0; i < 2; i++ {
		select {
		case et := <-got:
			seen[et] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for config events")
		}
	}
	assert.True(t, seen[eventbus.EventConfigLoaded])
	assert.True(t, seen[eventbus.EventConfigSaved])
}
