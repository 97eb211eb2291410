// Command gdl loads Graph Definition Language documents, reports on them and
// converts them to and from the framed binary element stream.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanonone/epgm/pkg/config"
	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/gdl"
	"github.com/sanonone/epgm/pkg/temporal"
)

func main() {
	if err := execute(&app{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command line against a and releases the log output
// whether or not the command succeeded.
func execute(a *app, args []string, stdout, stderr io.Writer) error {
	cmd := rootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// app carries the state shared by all subcommands once the configuration
// has been loaded.
type app struct {
	configPath string
	logLevel   string
	temporal   bool

	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gdl",
		Short:         "Load and convert GDL graph documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML or TOML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.temporal, "temporal", false, "Use the temporal element model")

	cmd.AddCommand(statsCmd(a), dumpCmd(a), inspectCmd(a))
	return cmd
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, closer, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	slog.SetDefault(log)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *app) epgmConfig() (gdl.Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge], error) {
	f, err := a.cfg.Factories()
	if err != nil {
		return gdl.Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge]{}, err
	}
	cfg := gdl.EPGMConfig(f)
	cfg.Logger = a.log
	return cfg, nil
}

func (a *app) temporalConfig() (gdl.Config[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge], error) {
	gen, err := a.cfg.Identifier.Generator()
	if err != nil {
		return gdl.Config[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge]{}, err
	}
	cfg := gdl.TemporalConfig(temporal.NewFactories(a.cfg.Labels, gen, nil))
	cfg.Logger = a.log
	return cfg, nil
}
