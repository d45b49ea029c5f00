// Package cmd provides the command-line interface of gradlemeta.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"gradlemeta/internal/adapter/outbound/groovy"
	"gradlemeta/internal/adapter/outbound/messaging"
	"gradlemeta/internal/adapter/outbound/repository"
	"gradlemeta/internal/application/common/logging"
	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/application/service"
	"gradlemeta/internal/config"
	"gradlemeta/internal/domain/service/extraction"
	"gradlemeta/internal/port/outbound"
)

// envPrefix is prepended to every environment variable, e.g. GRADLEMETA_LOG_LEVEL.
const envPrefix = "GRADLEMETA"

// flagBindings maps configuration keys to the flags that override them.
// Flags a command does not define are ignored.
var flagBindings = map[string]string{
	"log.level":              "log-level",
	"log.format":             "log-format",
	"output.format":          "format",
	"extraction.max_depth":   "max-depth",
	"extraction.concurrency": "concurrency",
	"nats.enabled":           "publish",
	"nats.url":               "nats-url",
	"database.enabled":       "store",
}

// publisherFactory opens a report publisher.
type publisherFactory func(ctx context.Context, cfg config.NATSConfig) (outbound.ReportPublisher, error)

func natsPublisher(ctx context.Context, cfg config.NATSConfig) (outbound.ReportPublisher, error) {
	publisher, err := messaging.NewNATSReportPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

// storeFactory opens a report store.
type storeFactory func(ctx context.Context, cfg config.DatabaseConfig) (outbound.ReportStore, error)

func postgresStore(ctx context.Context, cfg config.DatabaseConfig) (outbound.ReportStore, error) {
	store, err := repository.OpenPostgreSQLReportStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile      string
	cfg          *config.Config
	newPublisher publisherFactory
	newStore     storeFactory
}

func newApp() *app {
	return &app{newPublisher: natsPublisher, newStore: postgresStore}
}

// newRootCmd builds the command tree.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gradlemeta",
		Short: "Extract metadata from Gradle Groovy scripts",
		Long: `gradlemeta reads Gradle build and settings scripts written in the Groovy DSL
and reports the dependencies, plugins, repositories, ext properties and
included subprojects they declare. Scripts are parsed, never executed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json, text)")
	rootCmd.PersistentFlags().StringP("format", "o", "json", "Report format (json, yaml, text)")
	rootCmd.PersistentFlags().Int("max-depth", groovy.DefaultMaxDepth, "Maximum nesting depth of a script")

	rootCmd.AddCommand(a.newExtractCmd())
	rootCmd.AddCommand(a.newScanCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads defaults, the config file, the environment and the flags
// of cmd, in increasing order of precedence, then installs the logger.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	config.SetDefaults(v)

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	for key, name := range flagBindings {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("error binding %s flag: %w", name, err)
			}
		}
	}

	cfg, err := config.New(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  strings.ToUpper(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}
	slogger.SetGlobalLogger(logger)
	return nil
}

// newService wires the extraction service from the loaded configuration.
func (a *app) newService() (*service.ExtractionService, error) {
	metrics, err := service.NewExtractionMetrics(otel.GetMeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	ec := a.cfg.Extraction
	return service.NewExtractionService(
		groovy.NewLoader(ec.MaxDepth),
		extraction.NewExtractor(ec.MaxDepth, ec.PathSeparator),
		ec,
		metrics,
	), nil
}

// publish sends report when publishing is enabled.
func (a *app) publish(ctx context.Context, report outbound.Report) error {
	if !a.cfg.NATS.Enabled {
		return nil
	}
	publisher, err := a.newPublisher(ctx, a.cfg.NATS)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slogger.ErrorWithError(ctx, err, "Failed to close report publisher", nil)
		}
	}()

	if err := publisher.Publish(ctx, report); err != nil {
		return err
	}
	slogger.Info(ctx, "Report published", slogger.Fields2("report_id", report.ReportID(), "subject", a.cfg.NATS.Subject))
	return nil
}

// store saves report when the report store is enabled.
func (a *app) store(ctx context.Context, report outbound.StorableReport) error {
	if !a.cfg.Database.Enabled {
		return nil
	}
	store, err := a.newStore(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, report); err != nil {
		return err
	}
	slogger.Info(ctx, "Report stored", slogger.Field("report_id", report.ReportID()))
	return nil
}

// deliver publishes and stores report as configured.
func (a *app) deliver(ctx context.Context, report outbound.StorableReport) error {
	if err := a.publish(ctx, report); err != nil {
		return err
	}
	return a.store(ctx, report)
}
