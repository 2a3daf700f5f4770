package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/export"
	"github.com/c360studio/pddls/graph"
)

func augmentCmd(a *app) *cobra.Command {
	var (
		domains   []string
		ontology  []string
		common    string
		output    string
		domainDir string
		format    string
		publish   bool
	)

	cmd := &cobra.Command{
		Use:   "augment PROBLEM",
		Short: "Derive init facts for a problem from ontologies",
		Long: `Augment resolves every context-bound predicate of the domains against the
ontologies and appends the derived facts to the problem's init list. The
problem may be planning text or a JSON/YAML tree document. Context bindings
are removed from the output.

Ontology files default to the configured ontology.files patterns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.augmentFiles(args[0], domains, ontology, common)
			if err != nil {
				return err
			}

			result, err := augment.AugmentFiles(files, augment.Options{Logger: a.logger})
			if err != nil {
				return err
			}
			out, err := renderDocument(result.Problem, format, a.encodeOptions(false, 0))
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, out); err != nil {
				return err
			}

			if domainDir != "" {
				if err := writeDomains(domainDir, result.Domains); err != nil {
					return err
				}
			}

			if publish {
				return a.publishResult(cmd.Context(), result)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&domains, "domain", "d", nil, "Domain file(s)")
	cmd.Flags().StringSliceVarP(&ontology, "ontology", "r", nil, "Ontology file(s) or globs")
	cmd.Flags().StringVar(&common, "common", "", "Common ontology unioned with the others")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output problem file (default stdout)")
	cmd.Flags().StringVar(&domainDir, "domain-output", "", "Directory for the domains without context")
	cmd.Flags().StringVar(&format, "format", "pddl", "Output format (pddl, json, yaml)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the result to the configured NATS subject")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

// augmentFiles combines flags with the configured ontology. Flags win.
func (a *app) augmentFiles(problem string, domains, ontology []string, common string) (augment.Files, error) {
	files := augment.Files{Problem: problem, Domains: domains, Common: common}

	if len(ontology) > 0 {
		cfg := *a.cfg
		cfg.Ontology.Files = ontology
		cfg.BaseDir = ""
		expanded, err := cfg.OntologyFiles()
		if err != nil {
			return files, err
		}
		files.Ontology = expanded
	} else {
		expanded, err := a.cfg.OntologyFiles()
		if err != nil {
			return files, err
		}
		files.Ontology = expanded
	}

	if files.Common == "" {
		files.Common = a.cfg.CommonOntology()
	}
	return files, nil
}

func renderDocument(doc document.Document, format string, opts document.EncodeOptions) ([]byte, error) {
	switch format {
	case "pddl":
		text, err := export.PDDL(doc)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case "json", "yaml":
		opts.Format = document.Format(format)
		return document.Marshal(doc, opts)
	default:
		return nil, fmt.Errorf("unsupported output format %q (pddl, json, yaml)", format)
	}
}

func writeDomains(dir string, domains []*document.Domain) error {
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		if seen[d.Name] {
			return fmt.Errorf("write domains: two domains named %q", d.Name)
		}
		seen[d.Name] = true
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create domain output directory: %w", err)
	}
	for _, d := range domains {
		text, err := export.PDDL(d)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, d.Name+".pddl")
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("write domain: %w", err)
		}
	}
	return nil
}

// publishResult sends result to the configured subject.
func (a *app) publishResult(ctx context.Context, result *augment.Result) error {
	if a.cfg.NATS.URL == "" {
		return fmt.Errorf("publish: nats.url is not configured")
	}
	nc, err := graph.Connect(a.cfg.NATS.URL, a.logger)
	if err != nil {
		return err
	}
	defer nc.Close()

	publisher := graph.NewPublisher(nc, a.cfg.NATS.Subject, a.logger)
	if _, err := publisher.PublishResult(ctx, result); err != nil {
		return err
	}
	if err := nc.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}
	return nil
}
