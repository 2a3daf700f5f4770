package augment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	travelDomainText = `(define (domain travel)
  (:predicates (adjacent ?x ?y) (visited ?x))
  (:context adjacent = <http://example.org/geo#adjacentTo>))
`
	tripProblemYAML = `problem: trip
"@context":
    a: http://example.org/geo#A
    b: http://example.org/geo#B
pddl:problem_domain: travel
pddl:objects:
    a:
    b:
pddl:init:
    - (visited a)
pddl:goal: (visited b)
`
	adjacencyNT = `<http://example.org/geo#A> <http://example.org/geo#adjacentTo> <http://example.org/geo#B> .
`
	formulaNT = `<http://example.org/geo#adjacentTo> <uri:pddls#establishedWith> "SELECT ?a ?b WHERE { ?a <http://example.org/geo#adjacentTo> ?b }"@sparql .
`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAugmentFiles(t *testing.T) {
	dir := t.TempDir()
	files := Files{
		Problem:  writeFile(t, dir, "trip.yaml", tripProblemYAML),
		Domains:  []string{writeFile(t, dir, "travel.pddl", travelDomainText)},
		Ontology: []string{writeFile(t, dir, "edges.nt", adjacencyNT)},
		Common:   writeFile(t, dir, "common.nt", formulaNT),
	}

	result, err := AugmentFiles(files, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"(visited a)", "(adjacent a b)"}, result.Problem.Init)
	assert.Nil(t, result.Problem.Context)
	require.Len(t, result.Domains, 1)
	assert.Nil(t, result.Domains[0].Context)
}

func TestAugmentFilesWithoutCommon(t *testing.T) {
	dir := t.TempDir()
	files := Files{
		Problem: writeFile(t, dir, "trip.yaml", tripProblemYAML),
		Domains: []string{writeFile(t, dir, "travel.pddl", travelDomainText)},
	}

	result, err := AugmentFiles(files, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Axioms)
	assert.Equal(t, []string{"(visited a)"}, result.Problem.Init)
}

func TestFilesLoadErrors(t *testing.T) {
	dir := t.TempDir()
	domain := writeFile(t, dir, "travel.pddl", travelDomainText)
	problem := writeFile(t, dir, "trip.yaml", tripProblemYAML)

	tests := []struct {
		name  string
		files Files
		is    error
	}{
		{"domain as problem", Files{Problem: domain}, ErrNotProblem},
		{"problem as domain", Files{Problem: problem, Domains: []string{problem}}, ErrNotDomain},
		{"missing problem", Files{Problem: filepath.Join(dir, "none.pddl")}, os.ErrNotExist},
		{"missing ontology", Files{Problem: problem, Ontology: []string{filepath.Join(dir, "none.nt")}}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.files.Load(nil)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}
