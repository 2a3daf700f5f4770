package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/graph"
	"github.com/c360studio/pddls/metrics"
	"github.com/c360studio/pddls/ontology"
	"github.com/c360studio/pddls/server"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation and augmentation HTTP API",
		Long: `Serve exposes /api/v1/pddl2json, /api/v1/json2pddl, /api/v1/augment and
/api/v1/health. The configured ontology is unioned into every augmentation.
Results are published to nats.subject when nats.url is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			onto, err := a.loadOntology()
			if err != nil {
				return err
			}

			opts := server.Options{
				Logger:   a.logger,
				Ontology: onto,
				Encode:   a.encodeOptions(false, 0),
				Version:  Version,
			}
			if !noMetrics {
				opts.Metrics = metrics.NewCollector()
			}

			if a.cfg.NATS.URL != "" {
				nc, err := graph.Connect(a.cfg.NATS.URL, a.logger)
				if err != nil {
					return err
				}
				defer nc.Drain()
				opts.Publisher = graph.NewPublisher(nc, a.cfg.NATS.Subject, a.logger)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return server.New(opts).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	return cmd
}

// loadOntology loads the configured ontology files and common ontology.
func (a *app) loadOntology() (*ontology.Graph, error) {
	files, err := a.cfg.OntologyFiles()
	if err != nil {
		return nil, err
	}
	if common := a.cfg.CommonOntology(); common != "" {
		files = append(files, common)
	}
	onto, err := ontology.LoadFiles(a.logger, files...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Loaded ontology", "files", len(files), "triples", onto.Len())
	return onto, nil
}

