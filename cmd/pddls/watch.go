package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/graph"
	"github.com/c360studio/pddls/metrics"
	"github.com/c360studio/pddls/watch"
)

func watchCmd(a *app) *cobra.Command {
	var (
		domains  []string
		ontology []string
		common   string
		output   string
		format   string
		publish  bool
	)

	cmd := &cobra.Command{
		Use:   "watch PROBLEM",
		Short: "Re-augment a problem whenever its inputs change",
		Long: `Watch runs augment once, then again after every change to the problem,
the domains or the ontology files. Ontology globs are re-expanded on each
run, so new matching files are picked up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := ontology
			if len(patterns) == 0 {
				for _, p := range a.cfg.Ontology.Files {
					if !filepath.IsAbs(p) && a.cfg.BaseDir != "" {
						p = filepath.Join(a.cfg.BaseDir, p)
					}
					patterns = append(patterns, p)
				}
			}
			if common == "" {
				common = a.cfg.CommonOntology()
			}
			if output != "" {
				if abs, err := filepath.Abs(output); err == nil {
					if problem, _ := filepath.Abs(args[0]); abs == problem {
						return fmt.Errorf("output must differ from the watched problem")
					}
				}
			}

			var publisher *graph.Publisher
			if publish {
				if a.cfg.NATS.URL == "" {
					return fmt.Errorf("publish: nats.url is not configured")
				}
				nc, err := graph.Connect(a.cfg.NATS.URL, a.logger)
				if err != nil {
					return err
				}
				defer nc.Drain()
				publisher = graph.NewPublisher(nc, a.cfg.NATS.Subject, a.logger)
			}

			w, err := watch.New(watch.Config{
				Problem:  args[0],
				Domains:  domains,
				Ontology: patterns,
				Common:   common,
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger,
				Recorder: metrics.NewCollector(),
			})
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if err := w.Start(ctx); err != nil {
				return err
			}

			opts := a.encodeOptions(false, 0)
			for event := range w.Events() {
				if event.Error != nil {
					continue
				}
				out, err := renderDocument(event.Result.Problem, format, opts)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, output, out); err != nil {
					return err
				}
				if publisher != nil {
					if _, err := publisher.PublishResult(ctx, event.Result); err != nil {
						a.logger.Warn("Failed to publish augmentation", "error", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&domains, "domain", "d", nil, "Domain file(s)")
	cmd.Flags().StringSliceVarP(&ontology, "ontology", "r", nil, "Ontology file(s) or globs")
	cmd.Flags().StringVar(&common, "common", "", "Common ontology unioned with the others")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output problem file, rewritten on each run (default stdout)")
	cmd.Flags().StringVar(&format, "format", "pddl", "Output format (pddl, json, yaml)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish each result to the configured NATS subject")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
