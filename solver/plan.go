package solver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360studio/pddls/document"
)

// Action is one plan step: an action symbol and its ordered arguments.
type Action struct {
	Symbol string
	Args   []string
}

// MarshalJSON encodes the action as a single-entry object {symbol: args}.
func (a Action) MarshalJSON() ([]byte, error) {
	args := a.Args
	if args == nil {
		args = []string{}
	}
	return json.Marshal(map[string][]string{a.Symbol: args})
}

// UnmarshalJSON decodes a single-entry object {symbol: args}.
func (a *Action) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("action must have exactly one symbol, got %d", len(m))
	}
	for sym, args := range m {
		a.Symbol, a.Args = sym, args
	}
	return nil
}

// Plan is a solver result with the bindings used to restore symbol case.
type Plan struct {
	RunID   string            `json:"run_id,omitempty"`
	Context map[string]string `json:"@context"`
	Actions []Action          `json:"actions"`
}

// ParseSteps extracts the step block from solver output. The block starts
// at the first line beginning with "step" and ends at the next blank line
// or the end of the output. Each line has the form "N: SYMBOL ARG...".
func ParseSteps(output string) ([][]string, error) {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "step") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoPlan
	}

	var steps [][]string
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		_, body, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("%w: malformed step line %q", ErrNoPlan, line)
		}
		fields := strings.Fields(body)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty step line %q", ErrNoPlan, line)
		}
		steps = append(steps, fields)
	}
	return steps, nil
}

// NewPlan converts steps into actions, restoring the case of every token
// that matches a binding symbol case-insensitively.
func NewPlan(steps [][]string, bindings document.Context) *Plan {
	norm := make(map[string]string, len(bindings))
	for _, b := range bindings {
		norm[strings.ToUpper(b.Symbol)] = b.Symbol
	}
	restore := func(tok string) string {
		if sym, ok := norm[strings.ToUpper(tok)]; ok {
			return sym
		}
		return tok
	}

	plan := &Plan{Context: bindings.Map(), Actions: make([]Action, 0, len(steps))}
	for _, step := range steps {
		args := make([]string, 0, len(step)-1)
		for _, tok := range step[1:] {
			args = append(args, restore(tok))
		}
		plan.Actions = append(plan.Actions, Action{Symbol: restore(step[0]), Args: args})
	}
	return plan
}
