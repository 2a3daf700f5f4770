package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/export"
	"github.com/c360studio/pddls/parser"
)

func pddlToTreeCmd(a *app) *cobra.Command {
	var (
		asYAML bool
		indent int
		output string
	)

	cmd := &cobra.Command{
		Use:   "pddl2json [file]",
		Short: "Translate planning text to the JSON/YAML tree form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, argOrStdin(args))
			if err != nil {
				return err
			}
			doc, err := parser.Parse(content)
			if err != nil {
				return fmt.Errorf("parse %s: %w", argOrStdin(args), err)
			}
			out, err := document.Marshal(doc, a.encodeOptions(asYAML, indent))
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Emit YAML instead of JSON")
	cmd.Flags().IntVar(&indent, "indent", 0, "Indentation width (0 = configured default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func treeToPDDLCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json2pddl [file]",
		Short: "Translate a JSON/YAML tree document (.json, .jsonld, .yaml) to planning text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, argOrStdin(args))
			if err != nil {
				return err
			}
			doc, err := document.Decode(content)
			if err != nil {
				return fmt.Errorf("decode %s: %w", argOrStdin(args), err)
			}
			text, err := export.PDDL(doc)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(text))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func convertCmd(a *app) *cobra.Command {
	var (
		to     string
		indent int
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document between planning text, JSON and YAML",
		Long: `Convert reads planning text or a tree document (detected from the file
extension, or from the content on stdin) and writes it in the --to format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOrStdin(args)
			content, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			doc, err := readDocument(path, content)
			if err != nil {
				return err
			}

			var out []byte
			switch to {
			case "pddl":
				text, err := export.PDDL(doc)
				if err != nil {
					return err
				}
				out = []byte(text)
			case "json", "yaml":
				opts := a.encodeOptions(false, indent)
				opts.Format = document.Format(to)
				if out, err = document.Marshal(doc, opts); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported target format %q (pddl, json, yaml)", to)
			}
			return writeOutput(cmd, output, out)
		},
	}

	cmd.Flags().StringVar(&to, "to", "json", "Target format (pddl, json, yaml)")
	cmd.Flags().IntVar(&indent, "indent", 0, "Indentation width (0 = configured default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// encodeOptions applies command flags over the configured tree output.
func (a *app) encodeOptions(asYAML bool, indent int) document.EncodeOptions {
	opts := document.EncodeOptions{
		Format: document.Format(a.cfg.Output.Format),
		Indent: a.cfg.Output.Indent,
	}
	if asYAML {
		opts.Format = document.FormatYAML
	}
	if indent > 0 {
		opts.Indent = indent
	}
	return opts
}

const stdinPath = "-"

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}
	return args[0]
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	return readInputFile(path)
}

func readInputFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return content, nil
}

// readDocument picks a reader by extension, or by content for stdin.
func readDocument(path string, content []byte) (document.Document, error) {
	var (
		doc document.Document
		err error
	)
	if path == stdinPath {
		doc, err = parser.DefaultRegistry.ReadContent(content)
	} else {
		doc, err = parser.DefaultRegistry.Read(path, content)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
