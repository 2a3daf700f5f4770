package main

import (
	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/export"
)

func exportRDFCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export-rdf FILE...",
		Short: "Export document context bindings as RDF",
		Long: `Export-rdf describes each document and its context bindings with the
pddls vocabulary, so bindings can seed an ontology. Formats: turtle (ttl),
ntriples (nt), jsonld.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			exporter := export.NewRDFExporter()
			for _, path := range args {
				content, err := readInputFile(path)
				if err != nil {
					return err
				}
				doc, err := readDocument(path, content)
				if err != nil {
					return err
				}
				if err := exporter.AddDocument(doc); err != nil {
					return err
				}
			}

			out, err := exporter.Export(f)
			if err != nil {
				return err
			}
			a.logger.Debug("Exported bindings", "documents", len(args), "entities", len(exporter.Entities()), "format", f)
			return writeOutput(cmd, output, []byte(out))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "RDF format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
