package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/solver"
)

func solveCmd(a *app) *cobra.Command {
	var (
		command string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "solve DOMAIN PROBLEM",
		Short: "Run the external planner and print the plan as JSON",
		Long: `Solve writes the domain and problem as planning text, runs the configured
solver (solver.command, default ff) and prints the plan with the merged
context bindings. Documents may be planning text or tree documents.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, problem, err := readPair(args[0], args[1])
			if err != nil {
				return err
			}

			cfg := solver.Config{
				Command: a.cfg.Solver.Command,
				Args:    a.cfg.Solver.Args,
				Timeout: a.cfg.Solver.Timeout,
				Logger:  a.logger,
			}
			if command != "" {
				cfg.Command = command
			}

			plan, err := solver.NewRunner(cfg).SolveDocuments(cmd.Context(), domain, problem)
			if err != nil {
				var se *solver.Error
				if errors.As(err, &se) && se.Output != "" {
					a.logger.Debug("Solver output", "run_id", se.RunID, "output", se.Output)
				}
				return err
			}

			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal plan: %w", err)
			}
			return writeOutput(cmd, output, append(data, '\n'))
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Solver executable (overrides solver.command)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// readPair loads a domain and a problem document.
func readPair(domainPath, problemPath string) (*document.Domain, *document.Problem, error) {
	content, err := readInputFile(domainPath)
	if err != nil {
		return nil, nil, err
	}
	doc, err := readDocument(domainPath, content)
	if err != nil {
		return nil, nil, err
	}
	domain, ok := doc.(*document.Domain)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not a domain document", domainPath)
	}

	if content, err = readInputFile(problemPath); err != nil {
		return nil, nil, err
	}
	if doc, err = readDocument(problemPath, content); err != nil {
		return nil, nil, err
	}
	problem, ok := doc.(*document.Problem)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not a problem document", problemPath)
	}
	return domain, problem, nil
}
