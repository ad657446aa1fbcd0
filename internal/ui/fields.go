package ui

import (
	"fmt"
	"time"

	"comboselect/internal/catalog"
	"comboselect/internal/combobox"
	"comboselect/internal/config"
	"comboselect/internal/eventbus"
	"comboselect/internal/provider"
	"comboselect/internal/transport/rest"
)

// BuildProviders creates one provider per field. Static fields are served
// from memory, catalog fields from cat, server fields over HTTP.
func BuildProviders(cfg *config.Config, cat *catalog.Catalog) (map[string]provider.Provider, error) {
	providers := make(map[string]provider.Provider, len(cfg.Fields))
	for _, f := range cfg.Fields {
		switch src := cfg.SourceFor(f); src {
		case config.SourceStatic:
			providers[f.Name] = provider.NewMemory(f.OptionList(), f.SearchableFields...)
		case config.SourceCatalog:
			if cat == nil {
				return nil, fmt.Errorf("field %q uses the catalog but none is open", f.Name)
			}
			providers[f.Name] = cat.Collection(f.Name, f.SearchableFields...)
		case config.SourceServer:
			if cfg.Server.URL == "" {
				return nil, fmt.Errorf("field %q uses the option server but server.url is empty", f.Name)
			}
			providers[f.Name] = rest.NewClient(cfg.Server.URL, f.Name, nil)
		default:
			return nil, fmt.Errorf("field %q: unknown source %q", f.Name, src)
		}
	}
	return providers, nil
}

// FieldParams maps a field config onto widget parameters. Non-static fields
// without dynamic search load their options from the provider on first open.
func FieldParams(cfg *config.Config, f config.FieldConfig, prov provider.Provider, bus eventbus.EventBus, hostID string) combobox.Params {
	static := cfg.SourceFor(f) == config.SourceStatic
	sel := f.Selection()

	p := combobox.Params{
		ID:                   hostID + ":" + f.Name,
		Placeholder:          f.Placeholder,
		Value:                sel.Value,
		Values:               sel.Values,
		InitialValue:         sel.Value,
		InitialValues:        sel.Values,
		CanOptionLabelsWrap:  f.CanOptionLabelsWrap,
		CanSelectPlaceholder: f.CanSelectPlaceholder,
		IsHTMLAllowed:        f.HTMLAllowed,
		IsAutofocused:        f.Autofocus,
		IsDisabled:           f.Disabled,
		IsMultiple:           f.Multiple,
		IsSearchable:         f.Searchable || f.DynamicSearch,

		Provider:                prov,
		HasDynamicOptions:       f.DynamicOptions || (!static && !f.DynamicSearch),
		HasDynamicSearchResults: f.DynamicSearch,

		SearchPrompt:           f.SearchPrompt,
		SearchDebounce:         time.Duration(f.SearchDebounceMs) * time.Millisecond,
		LoadingMessage:         f.LoadingMessage,
		SearchingMessage:       f.SearchingMessage,
		NoSearchResultsMessage: f.NoSearchResultsMessage,
		MaxItems:               f.MaxItems,
		MaxItemsMessage:        f.MaxItemsMessage,
		OptionsLimit:           f.OptionsLimit,
		Position:               f.Position,
		SearchableOptionFields: f.SearchableFields,

		HostID:    hostID,
		StatePath: f.StatePath,
		Bus:       bus,
	}
	if static {
		p.Options = f.OptionList()
	}
	if p.StatePath == "" {
		p.StatePath = f.Name
	}
	return p
}
