package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/taxonsync/internal/cliconfig"
	logAdapter "github.com/bft-labs/taxonsync/pkg/log"
	"github.com/bft-labs/taxonsync/pkg/taxonsync"
)

const helpDescription = `
Upload the taxonomic names of an occurrence CSV to a remote taxon table.

Highlights:
  - Reads kingdom through scientificName, trims, normalizes and deduplicates names.
  - Uploads only the names the table is missing, with a pool of concurrent workers.
  - Retries transport failures with exponential backoff; rejected SQL is never retried.
  - Talks to the CARTO SQL API or directly to PostgreSQL; configure via file, env, or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  taxonsync --csv-file occurrences.csv --user my-account --api-key <api-key>
  taxonsync sync --store postgres --dsn postgres://localhost/gbif --csv-file occurrences.csv --watch
  taxonsync rewrite --csv-file occurrences.csv --source-table occurrence_raw
  taxonsync --config $HOME/.taxonsync/config.toml --strategy per-name
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var execute bool

	log := cliconfig.Logger()

	// load resolves file, env and flag values into cfg and returns the run logger.
	load := func(cmd *cobra.Command) (zerolog.Logger, error) {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return log, fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return log, err
			}
		}

		// Environment overrides the file but not explicit flags.
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return log, err
		}

		if err := cfg.Validate(); err != nil {
			return log, err
		}

		runLog, err := cliconfig.NewLogger(cfg)
		if err != nil {
			return log, err
		}
		runLog.Info().Interface("config", cfg.Masked()).Msg("configuration")
		return runLog, nil
	}

	newSyncer := func(runLog zerolog.Logger) (*taxonsync.Syncer, error) {
		return taxonsync.New(libConfig(cfg),
			taxonsync.WithLogger(logAdapter.NewZerologAdapterWithLogger(runLog)),
		)
	}

	runSync := func(cmd *cobra.Command, args []string) error {
		runLog, err := load(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateStore(); err != nil {
			return err
		}

		s, err := newSyncer(runLog)
		if err != nil {
			return fmt.Errorf("create syncer: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Watch {
			runLog.Info().Str("csv", cfg.CSVFile).Msg("watching for changes")
			return s.Watch(ctx)
		}

		report, err := s.Sync(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			runLog.Warn().Msg("interrupted, remaining uploads were abandoned")
		}
		if n := len(report.Unresolved); n > 0 {
			runLog.Warn().Int("unresolved", n).Msg("some names could not be uploaded; rerun to retry them")
		}
		return nil
	}

	root := &cobra.Command{
		Use:           "taxonsync",
		Short:         "Upload the taxonomic names of an occurrence CSV to a remote taxon table",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSync,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload missing names (default command)",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}

	rewriteCmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Print the statement copying the raw staging table into the typed occurrence table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runLog, err := load(cmd)
			if err != nil {
				return err
			}
			if execute {
				if err := cfg.ValidateStore(); err != nil {
					return err
				}
			}

			s, err := newSyncer(runLog)
			if err != nil {
				return fmt.Errorf("create syncer: %w", err)
			}
			stmt, err := s.Rewrite(cmd.Context(), execute)
			if stmt != "" {
				fmt.Fprintln(cmd.OutOrStdout(), stmt)
			}
			return err
		},
	}
	rewriteCmd.Flags().BoolVar(&execute, "execute", false, "also run the statement once against the store")

	root.AddCommand(syncCmd, rewriteCmd)

	// Flags
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.taxonsync/config.toml)")
	pf.StringVar(&cfg.CSVFile, "csv-file", cfg.CSVFile, "occurrence CSV to read names from")

	pf.StringVar(&cfg.Store, "store", cfg.Store, "remote store: carto or postgres")
	pf.StringVar(&cfg.User, "user", cfg.User, "CARTO account name")
	pf.StringVar(&cfg.Domain, "domain", cfg.Domain, "CARTO domain")
	pf.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "CARTO API key")
	pf.StringVar(&cfg.ConsumerKey, "consumer-key", cfg.ConsumerKey, "OAuth2 consumer key (used when no API key is set)")
	pf.StringVar(&cfg.ConsumerSecret, "consumer-secret", cfg.ConsumerSecret, "OAuth2 consumer secret")
	pf.StringVar(&cfg.Password, "password", cfg.Password, "CARTO account password for OAuth2")
	pf.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "SQL API URL (overrides user and domain)")
	pf.StringVar(&cfg.TokenURL, "token-url", cfg.TokenURL, "OAuth2 token URL")
	if err := pf.MarkHidden("token-url"); err != nil {
		log.Info().Err(err).Msg("failed to hide token-url flag")
	}
	pf.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL connection string (store=postgres)")

	pf.StringVar(&cfg.TaxonTable, "taxon-table", cfg.TaxonTable, "taxon table name")
	pf.StringVar(&cfg.NameColumn, "name-column", cfg.NameColumn, "taxon name column")
	pf.StringVar(&cfg.IDColumn, "id-column", cfg.IDColumn, "taxon id column")

	pf.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "upload strategy: bulk or per-name")
	pf.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of upload workers")
	pf.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "names per bulk upload")
	pf.IntVar(&cfg.RetryAttempts, "retry-attempts", cfg.RetryAttempts, "calls per job before giving up")
	pf.DurationVar(&cfg.RetryInitial, "retry-initial", cfg.RetryInitial, "first retry delay")
	pf.DurationVar(&cfg.RetryMax, "retry-max", cfg.RetryMax, "maximum retry delay")
	pf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	pf.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "maximum CARTO requests per second across workers (0 = unlimited)")

	pf.StringVar(&cfg.PushgatewayURL, "pushgateway-url", cfg.PushgatewayURL, "Prometheus Pushgateway to push upload metrics to")
	pf.BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-sync whenever the CSV file is rewritten")

	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")

	rewriteCmd.Flags().StringVar(&cfg.TargetTable, "target-table", cfg.TargetTable, "typed table rows are copied into")
	rewriteCmd.Flags().StringVar(&cfg.SourceTable, "source-table", cfg.SourceTable, "raw staging table rows are copied from")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("taxonsync")
		os.Exit(1)
	}
}

func libConfig(cfg cliconfig.Config) taxonsync.Config {
	return taxonsync.Config{
		CSVPath:           cfg.CSVFile,
		Store:             cfg.Store,
		User:              cfg.User,
		Domain:            cfg.Domain,
		APIKey:            cfg.APIKey,
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		Password:          cfg.Password,
		Endpoint:          cfg.Endpoint,
		TokenURL:          cfg.TokenURL,
		HTTPTimeout:       cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		DSN:               cfg.DSN,
		TaxonTable:        cfg.TaxonTable,
		NameColumn:        cfg.NameColumn,
		IDColumn:          cfg.IDColumn,
		Strategy:          cfg.Strategy,
		Workers:           cfg.Workers,
		BatchSize:         cfg.BatchSize,
		RetryAttempts:     cfg.RetryAttempts,
		RetryInitial:      cfg.RetryInitial,
		RetryMax:          cfg.RetryMax,
		PushgatewayURL:    cfg.PushgatewayURL,
		TargetTable:       cfg.TargetTable,
		SourceTable:       cfg.SourceTable,
	}
}
