package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"comboselect/internal/catalog"
	"comboselect/internal/config"
	"comboselect/internal/logging"
	"comboselect/internal/provider"
	"comboselect/internal/transport/rest"
)

type options struct {
	configPath string
	dbPath     string
	addr       string
	logPath    string
	accessLog  string
	seed       bool
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
		Use:   "optionserver",
		Short: "Serve catalog option sources over HTTP",
		Long: `optionserver exposes every collection of a SQLite option catalog as a
source: options, search, label lookups and label updates over HTTP, and a
websocket stream that pushes label changes to connected forms.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "config file; server and catalog settings are read from it")
	f.StringVar(&opts.dbPath, "db", "", "SQLite catalog path (overrides catalog.path)")
	f.StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	f.StringVar(&opts.logPath, "log", "-", `log file, "-" for stderr`)
	f.StringVar(&opts.accessLog, "access-log", "", "rotated request log file")
	f.BoolVar(&opts.seed, "seed", true, "seed empty collections for the configured server and catalog fields")
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

	cfg, err := config.NewConfigService(opts.configPath).Load()
	if err != nil {
		return err
	}
	if opts.dbPath != "" {
		cfg.Catalog.Path = opts.dbPath
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	if opts.seed {
		if err := seed(ctx, cat, cfg); err != nil {
			return err
		}
	}

	names, err := cat.Collections(ctx)
	if err != nil {
		return err
	}
	sources := make(map[string]provider.Provider, len(names))
	for _, name := range names {
		var fields []string
		if f, ok := cfg.Field(name); ok {
			fields = f.SearchableFields
		}
		sources[name] = cat.Collection(name, fields...)
	}

	srvCfg := rest.Config{
		Addr:      cfg.Server.Addr,
		CacheSize: cfg.Server.CacheSize,
		Sources:   sources,
		Writer:    rest.LabelWriterFunc(cat.UpdateLabel),
	}
	if opts.accessLog != "" {
		srvCfg.AccessLog = logging.New(opts.accessLog, "")
	}
	srv, err := rest.NewServer(srvCfg)
	if err != nil {
		return err
	}

	log.Printf("Serving %d sources from %s on %s", len(sources), cat.Path(), cfg.Server.Addr)
	return srv.Run(ctx)
}

// seed fills the collections of fields bound to the server or the catalog
func seed(ctx context.Context, cat *catalog.Catalog, cfg *config.Config) error {
	for _, f := range cfg.Fields {
		switch cfg.SourceFor(f) {
		case config.SourceServer, config.SourceCatalog:
		default:
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
