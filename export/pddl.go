package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/pddls/document"
)

const indent = "    "

// PDDL renders doc as planning language text. Typed names are emitted
// before untyped ones and action clauses follow a fixed order, so parsing
// the output yields a model equal to doc up to that canonicalisation.
func PDDL(doc document.Document) (string, error) {
	var sb strings.Builder
	switch d := doc.(type) {
	case *document.Domain:
		if d == nil {
			return "", document.ErrIllegalDocument
		}
		writeDomain(&sb, d)
	case *document.Problem:
		if d == nil {
			return "", document.ErrIllegalDocument
		}
		writeProblem(&sb, d)
	default:
		return "", document.ErrIllegalDocument
	}
	return sb.String(), nil
}

// WritePDDL renders doc to w. Nothing is written if rendering fails.
func WritePDDL(w io.Writer, doc document.Document) error {
	text, err := PDDL(doc)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write pddl: %w", err)
	}
	return nil
}

func writeDomain(sb *strings.Builder, d *document.Domain) {
	fmt.Fprintf(sb, "(define (domain %s)\n", d.Name)
	if d.Requirements != nil {
		writeRequirements(sb, d.Requirements)
	}
	if d.Types != nil {
		sb.WriteString(indent + "(:types")
		writeTypedNames(sb, d.Types)
		sb.WriteString(")\n")
	}
	if d.Constants != nil {
		sb.WriteString(indent + "(:constants")
		writeTypedNames(sb, d.Constants)
		sb.WriteString(")\n")
	}
	if d.Predicates != nil {
		writeDeclarations(sb, ":predicates", d.Predicates)
	}
	if d.Functions != nil {
		writeDeclarations(sb, ":functions", d.Functions)
	}
	for _, entry := range d.Structure {
		writeEntry(sb, entry)
	}
	if d.Context != nil {
		writeContext(sb, d.Context)
	}
	sb.WriteString(")\n")
}

func writeProblem(sb *strings.Builder, p *document.Problem) {
	fmt.Fprintf(sb, "(define (problem %s)\n", p.Name)
	fmt.Fprintf(sb, "%s(:domain %s)\n", indent, p.Domain)
	if p.Requirements != nil {
		writeRequirements(sb, p.Requirements)
	}
	if p.Objects != nil {
		sb.WriteString(indent + "(:objects")
		writeTypedNames(sb, p.Objects)
		sb.WriteString(")\n")
	}
	sb.WriteString(indent + "(:init\n")
	for _, fact := range p.Init {
		sb.WriteString(indent + indent + fact + "\n")
	}
	sb.WriteString(indent + ")\n")
	fmt.Fprintf(sb, "%s(:goal %s)\n", indent, p.Goal)
	if p.Metric != "" {
		fmt.Fprintf(sb, "%s(:metric %s)\n", indent, p.Metric)
	}
	if p.Context != nil {
		writeContext(sb, p.Context)
	}
	sb.WriteString(")\n")
}

func writeRequirements(sb *strings.Builder, reqs []string) {
	fmt.Fprintf(sb, "%s(:requirements %s)\n", indent, strings.Join(reqs, " "))
}

func writeTypedNames(sb *strings.Builder, names document.TypedNameList) {
	for _, tn := range names.Typed() {
		fmt.Fprintf(sb, " %s - %s", tn.Name, tn.Type)
	}
	if untyped := names.Untyped(); len(untyped) > 0 {
		sb.WriteString(" " + strings.Join(untyped, " "))
	}
}

func writeDeclarations(sb *strings.Builder, keyword string, decls []document.Declaration) {
	fmt.Fprintf(sb, "%s(%s\n", indent, keyword)
	for _, d := range decls {
		sb.WriteString(indent + indent)
		writeSkeleton(sb, d)
		sb.WriteString("\n")
	}
	sb.WriteString(indent + ")\n")
}

func writeSkeleton(sb *strings.Builder, d document.Declaration) {
	sb.WriteString("(" + d.Symbol)
	if len(d.Parameters) > 0 {
		sb.WriteString(" " + parameterList(d.Parameters))
	}
	sb.WriteString(")")
}

func parameterList(params []document.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Typed() {
			parts[i] = p.Name + " - " + p.Type
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, " ")
}

func writeEntry(sb *strings.Builder, entry document.StructureEntry) {
	switch e := entry.(type) {
	case *document.Action:
		fmt.Fprintf(sb, "%s(:action %s\n", indent, e.Symbol)
		fmt.Fprintf(sb, "%s:parameters (%s)\n", indent+indent, parameterList(e.Parameters))
		writeSlot(sb, ":precondition", e.Precondition)
		writeSlot(sb, ":effect", e.Effect)
		sb.WriteString(indent + ")\n")
	case *document.DurativeAction:
		fmt.Fprintf(sb, "%s(:durative-action %s\n", indent, e.Symbol)
		fmt.Fprintf(sb, "%s:parameters (%s)\n", indent+indent, parameterList(e.Parameters))
		writeSlot(sb, ":duration", e.Duration)
		writeSlot(sb, ":condition", e.Condition)
		writeSlot(sb, ":effect", e.Effect)
		sb.WriteString(indent + ")\n")
	case *document.DerivedPredicate:
		sb.WriteString(indent + "(:derived ")
		writeSkeleton(sb, e.Skeleton)
		fmt.Fprintf(sb, " %s)\n", e.Body)
	}
}

func writeSlot(sb *strings.Builder, keyword, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%s%s %s\n", indent+indent, keyword, value)
	}
}

func writeContext(sb *strings.Builder, ctx document.Context) {
	sb.WriteString(indent + "(:context")
	for _, b := range ctx {
		fmt.Fprintf(sb, "\n%s%s = <%s>", indent+indent, b.Symbol, b.URI)
	}
	sb.WriteString(")\n")
}
