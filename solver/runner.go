// Package solver runs an external planner on a domain and problem and
// reads the resulting plan.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/export"
)

// Argument placeholders replaced by the written file paths.
const (
	DomainPlaceholder  = "{domain}"
	ProblemPlaceholder = "{problem}"
)

// DefaultArgs are the Metric-FF style arguments: no search
// configuration, domain after -o and problem after -f.
var DefaultArgs = []string{"-s", "0", "-o", DomainPlaceholder, "-f", ProblemPlaceholder}

// Config configures a Runner.
type Config struct {
	// Command is the solver executable.
	Command string

	// Args default to DefaultArgs.
	Args []string

	// Timeout bounds one run. Zero means no limit beyond the context.
	Timeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Runner invokes the solver in a fresh temporary directory per run.
type Runner struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a runner from cfg.
func NewRunner(cfg Config) *Runner {
	args := cfg.Args
	if len(args) == 0 {
		args = DefaultArgs
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		command: cfg.Command,
		args:    args,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Solve runs the solver on the domain and problem text and returns the
// plan. Symbols are restored to the case used in bindings.
func (r *Runner) Solve(ctx context.Context, domain, problem string, bindings document.Context) (*Plan, error) {
	runID := uuid.New().String()
	output, err := r.run(ctx, runID, domain, problem)
	if err != nil {
		return nil, err
	}

	steps, err := ParseSteps(output)
	if err != nil {
		return nil, &Error{RunID: runID, Output: output, Err: err}
	}

	plan := NewPlan(steps, bindings)
	plan.RunID = runID
	r.logger.Info("Solver found plan", "run_id", runID, "steps", len(plan.Actions))
	return plan, nil
}

// SolveDocuments renders the documents as text, solves them and restores
// symbol case from the union of their bindings.
func (r *Runner) SolveDocuments(ctx context.Context, domain *document.Domain, problem *document.Problem) (*Plan, error) {
	domainText, err := export.PDDL(domain)
	if err != nil {
		return nil, fmt.Errorf("render domain: %w", err)
	}
	problemText, err := export.PDDL(problem)
	if err != nil {
		return nil, fmt.Errorf("render problem: %w", err)
	}

	var bindings document.Context
	for _, b := range domain.Context {
		bindings = bindings.Bind(b.Symbol, b.URI)
	}
	for _, b := range problem.Context {
		bindings = bindings.Bind(b.Symbol, b.URI)
	}
	return r.Solve(ctx, domainText, problemText, bindings)
}

func (r *Runner) run(ctx context.Context, runID, domain, problem string) (string, error) {
	if r.command == "" {
		return "", &Error{RunID: runID, Err: fmt.Errorf("%w: no solver command configured", ErrSolverFailed)}
	}

	dir, err := os.MkdirTemp("", "pddls-"+runID[:8]+"-")
	if err != nil {
		return "", fmt.Errorf("create solver workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	domainPath := filepath.Join(dir, "domain.pddl")
	problemPath := filepath.Join(dir, "problem.pddl")
	if err := os.WriteFile(domainPath, []byte(domain), 0644); err != nil {
		return "", fmt.Errorf("write domain: %w", err)
	}
	if err := os.WriteFile(problemPath, []byte(problem), 0644); err != nil {
		return "", fmt.Errorf("write problem: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := make([]string, len(r.args))
	for i, a := range r.args {
		a = strings.ReplaceAll(a, DomainPlaceholder, domainPath)
		args[i] = strings.ReplaceAll(a, ProblemPlaceholder, problemPath)
	}

	r.logger.Debug("Running solver", "run_id", runID, "command", r.command, "args", args)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := stdout.String() + stderr.String()
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) || errors.Is(ctxErr, context.Canceled) {
			err = ctxErr
		}
		r.logger.Warn("Solver failed", "run_id", runID, "error", err)
		return "", &Error{RunID: runID, Output: output, Err: fmt.Errorf("%w: %w", ErrSolverFailed, err)}
	}
	return stdout.String(), nil
}
