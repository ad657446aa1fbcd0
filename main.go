package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"comboselect/internal/catalog"
	"comboselect/internal/config"
	"comboselect/internal/eventbus"
	"comboselect/internal/logging"
	"comboselect/internal/transport/rest"
	"comboselect/internal/ui"
)

// e2eEnv makes the binary print a marker the PTY tests wait for
const e2eEnv = "COMBOSELECT_E2E_TEST"

type options struct {
	configPath string
	source     string
	dbPath     string
	serverURL  string
	logPath    string
	noListen   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "comboselect",
		Short: "Interactive combobox form in the terminal",
		Long: `comboselect shows a form of searchable comboboxes. Options come from the
config file, a SQLite catalog, or an option server (see optionserver).
Selections are written back to the config file with ctrl+s.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "config file")
	f.StringVar(&opts.source, "source", "", "default option source: static, catalog or server")
	f.StringVar(&opts.dbPath, "db", "", "SQLite catalog path (overrides catalog.path)")
	f.StringVar(&opts.serverURL, "server", "", "option server URL (overrides server.url)")
	f.StringVar(&opts.logPath, "log", logging.DefaultFile, `log file, "-" for stderr`)
	f.BoolVar(&opts.noListen, "no-listen", false, "don't subscribe to option server label changes")
	return cmd
}

func run(ctx context.Context, opts options) error {
	logCloser, err := logging.Setup(opts.logPath)
	if err != nil {
		return fmt.Errorf("setting up log: %w", err)
	}
	defer logCloser.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(opts.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	var cat *catalog.Catalog
	if usesSource(cfg, config.SourceCatalog) {
		cat, err = catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		defer cat.Close()
		if cfg.Catalog.Seed {
			if err := seedCatalog(ctx, cat, cfg); err != nil {
				return err
			}
		}
	}

	providers, err := ui.BuildProviders(cfg, cat)
	if err != nil {
		return err
	}

	log.Printf("Creating UI model with %d fields...", len(cfg.Fields))
	model, err := ui.NewModel(ui.Options{
		Config:        cfg,
		ConfigService: configSvc,
		ConfigPath:    opts.configPath,
		Bus:           bus,
		Providers:     providers,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward the events the status line reports
	forward := func(e eventbus.DomainEvent) { p.Send(ui.EventMsg{Event: e}) }
	for _, t := range []eventbus.EventType{
		eventbus.EventProviderFailed,
		eventbus.EventOptionLabelChanged,
		eventbus.EventConfigSaved,
	} {
		defer bus.Subscribe(t, forward)()
	}

	listenCtx, cancelListeners := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(listenCtx)
	if !opts.noListen {
		for _, f := range cfg.Fields {
			if cfg.SourceFor(f) != config.SourceServer {
				continue
			}
			target, _ := model.Target(f.Name)
			l := &rest.Listener{BaseURL: cfg.Server.URL, Source: f.Name, Bus: bus, Targets: []rest.Target{target}}
			g.Go(func() error { return l.Run(gctx) })
		}
	}

	if os.Getenv(e2eEnv) == "1" {
		fmt.Println("__READY__")
	}

	_, runErr := p.Run()
	cancelListeners()
	if err := g.Wait(); err != nil {
		log.Printf("Listener error: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running UI: %w", runErr)
	}
	log.Printf("comboselect exited")
	return nil
}

// applyOverrides lets flags win over the config file
func applyOverrides(cfg *config.Config, opts options) {
	if opts.source != "" {
		cfg.Source = opts.source
	}
	if opts.dbPath != "" {
		cfg.Catalog.Path = opts.dbPath
	}
	if opts.serverURL != "" {
		cfg.Server.URL = opts.serverURL
	}
}

func usesSource(cfg *config.Config, source string) bool {
	for _, f := range cfg.Fields {
		if cfg.SourceFor(f) == source {
			return true
		}
	}
	return false
}

// seedCatalog fills empty catalog collections from the field's static
// options, or the sample authors when the field lists none
func seedCatalog(ctx context.Context, cat *catalog.Catalog, cfg *config.Config) error {
	for _, f := range cfg.Fields {
		if cfg.SourceFor(f) != config.SourceCatalog {
			continue
		}
		list := f.OptionList()
		if len(list) == 0 {
			list = catalog.SampleAuthors()
		}
		if _, err := cat.Seed(ctx, f.Name, list); err != nil {
			return fmt.Errorf("seeding %s: %w", f.Name, err)
		}
	}
	return nil
}
