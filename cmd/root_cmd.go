// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xataio/searchadapter/cmd/config"
	"github.com/xataio/searchadapter/internal/log/zerolog"
	"github.com/xataio/searchadapter/internal/profiling"
	"github.com/xataio/searchadapter/pkg/indexer"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/search"
)

// Version is the searchadapter version
var (
	Version = "development"
	Env     string
)

const trueStr = "true"

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "searchadapter",
		Short:        "Index collections of records into Elasticsearch or OpenSearch",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	viper.SetEnvPrefix("SEARCHADAPTER")
	viper.AutomaticEnv()

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with searchadapter if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("log-format", zerolog.FormatConsole, "log format for the application. One of console, json")

	// create-index cmd
	createIndexCmd.Flags().Bool("yes", false, "Recreate the index without asking for confirmation if it already exists")

	// index cmd
	indexCmd.Flags().Bool("create-index", false, "Whether to (re)create the index and collection mappings before indexing")
	indexCmd.Flags().Bool("progress", false, "Whether to render a progress bar per collection")
	indexCmd.Flags().Bool("profile", false, "Whether to produce CPU and memory profile files, as well as exposing a /debug/pprof endpoint on localhost:6060")
	indexCmd.Flags().Bool("json", false, "Output the indexing results in JSON format")

	// search cmd
	searchCmd.Flags().Int("size", 10, "Maximum number of hits to return")
	searchCmd.Flags().Int("from", 0, "Offset of the first hit to return")
	searchCmd.Flags().Bool("json", false, "Output the hits in JSON format")

	// delete cmd
	deleteCmd.Flags().Bool("yes", false, "Delete the index without asking for confirmation")

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(createIndexCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(deleteCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

type commandFn func(ctx context.Context, cmd *cobra.Command, args []string) error

// withSignalWatcher cancels the command context on termination signals, so
// that in flight runs stop before their flush.
func withSignalWatcher(fn commandFn) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}

func withProfiling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("profile").Value.String() != trueStr {
			return fn(cmd, args)
		}

		profiler, err := profiling.Start(profiling.Config{
			Address:    "localhost:6060",
			CPUProfile: "cpu.prof",
			MemProfile: "mem.prof",
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := profiler.Stop(context.Background()); err != nil {
				fmt.Fprintln(os.Stderr, "stopping profiler:", err) //nolint:forbidigo
			}
		}()

		return fn(cmd, args)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("SEARCHADAPTER_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("SEARCHADAPTER_LOG_FORMAT", cmd.PersistentFlags().Lookup("log-format"))
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}

func newLogger() (loglib.Logger, error) {
	logger, err := zerolog.NewLogger(&zerolog.Config{
		LogLevel: config.LogLevel(),
		Format:   viper.GetString("SEARCHADAPTER_LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewStdLogger(logger), nil
}

func newInstrumentationProvider() (otel.InstrumentationProvider, error) {
	cfg, err := config.ParseInstrumentationConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing instrumentation config: %w", err)
	}

	p, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	return p, nil
}

// environment holds what every command needs to talk to the search engine.
type environment struct {
	logger          loglib.Logger
	config          *indexer.Config
	adapter         *search.Adapter
	instrumentation *otel.Instrumentation
	close           func() error
}

func newEnvironment(name string) (*environment, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ParseIndexerConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing indexer config: %w", err)
	}

	provider, err := newInstrumentationProvider()
	if err != nil {
		return nil, err
	}
	instrumentation := provider.NewInstrumentation(name)

	adapter, err := indexer.NewSearchAdapter(&cfg.Search, logger, instrumentation)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &environment{
		logger:          logger,
		config:          cfg,
		adapter:         adapter,
		instrumentation: instrumentation,
		close:           provider.Close,
	}, nil
}

func (e *environment) Close() {
	if err := e.close(); err != nil {
		e.logger.Warn(err, "closing instrumentation provider")
	}
}

func selectedCollections(args []string) ([]*indexer.Collection, error) {
	collections, err := config.ParseCollections()
	if err != nil {
		return nil, fmt.Errorf("parsing collections: %w", err)
	}
	return indexer.SelectCollections(collections, args)
}
