// Package main provides the pddls binary entry point.
// Pddls translates planning documents between the planning language and a
// JSON/YAML tree form and augments problems with facts from ontologies.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "pddls"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Planning documents with ontology-backed facts",
		Long: `Pddls translates planning domain and problem definitions between the
planning language and a JSON/YAML tree form.

It provides:
- pddl2json / json2pddl / convert translation
- augment: derive init facts from ontologies via SPARQL formulas
- solve: run an external planner and print the plan
- export-rdf: publish context bindings as Turtle, N-Triples or JSON-LD
- serve / watch: HTTP API and re-augmentation on file changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		pddlToTreeCmd(a),
		treeToPDDLCmd(a),
		convertCmd(a),
		augmentCmd(a),
		solveCmd(a),
		exportRDFCmd(a),
		serveCmd(a),
		watchCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads the layered configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	bootstrap := newLogger(cmd, a.logLevel)
	loader := config.NewLoader(bootstrap)

	var err error
	if a.configPath != "" {
		a.cfg, err = loader.LoadFile(a.configPath)
	} else {
		a.cfg, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := a.logLevel
	if level == "" {
		level = a.cfg.Log.Level
	}
	a.logger = newLogger(cmd, level)
	slog.SetDefault(a.logger)
	return nil
}

// newLogger writes text logs to the command's error stream.
func newLogger(cmd *cobra.Command, levelName string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
