// Package pddls provides vocabulary predicates and IRIs for planning
// documents and their ontology bindings.
//
// The established-with relation links a predicate URI in an ontology to
// the formula that derives its ground facts:
//
//	<http://example.org/geo#adjacentTo>
//	    <uri:pddls#establishedWith>
//	    "SELECT ?a ?b WHERE { ?a <http://example.org/geo#borders> ?b }"@sparql .
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/pddls/vocabulary/pddls"
package pddls
