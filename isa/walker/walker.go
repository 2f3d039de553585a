// Package walker implements a schema-agnostic reference walk over the raw
// decoded document tree.
//
// Declarations and usages of the same conceptual entity are scattered
// across study-level, assay-level and process-level subtrees, so the walk
// recognizes objects by key-set shape rather than by field name or
// position: an object is classified by exactly which keys it carries,
// wherever it occurs. Occurrences accumulate into order-insensitive sets;
// duplicates collapse.
package walker

import (
	"fmt"
	"strconv"
)

// Annotation is one ontology-annotation occurrence found during a walk.
type Annotation struct {
	Term          string
	TermSource    string
	TermAccession string
}

// Usage holds everything one walk collects.
type Usage struct {
	// Declarations are identifiers of objects carrying @id plus at least
	// one other key: the canonical definitions.
	Declarations map[string]struct{}
	// References are identifiers of bare {"@id": ...} objects.
	References map[string]struct{}
	// TermSources are the non-empty termSource values of annotation
	// occurrences. The empty string is the "no source" sentinel and is
	// never recorded.
	TermSources map[string]struct{}
	// Annotations are all annotation-shaped occurrences, in walk order.
	Annotations []Annotation
}

// Collect walks the raw document tree and gathers every declaration,
// reference, term-source usage and annotation occurrence.
func Collect(root interface{}) *Usage {
	u := &Usage{
		Declarations: make(map[string]struct{}),
		References:   make(map[string]struct{}),
		TermSources:  make(map[string]struct{}),
	}
	u.walk(root)
	return u
}

func (u *Usage) walk(node interface{}) {
	switch n := node.(type) {
	case map[string]interface{}:
		if annotation, ok := asAnnotation(n); ok {
			u.Annotations = append(u.Annotations, annotation)
			if annotation.TermSource != "" {
				u.TermSources[annotation.TermSource] = struct{}{}
			}
		}
		if source, ok := asTermSourceSite(n); ok && source != "" {
			u.TermSources[source] = struct{}{}
		}
		if id, ok := asReference(n); ok {
			u.References[id] = struct{}{}
		}
		if id, ok := asDeclaration(n); ok {
			u.Declarations[id] = struct{}{}
		}
		for _, value := range n {
			u.walk(value)
		}
	case []interface{}:
		for _, value := range n {
			u.walk(value)
		}
	}
}

// asAnnotation recognizes an ontology-annotation occurrence: key set
// exactly {annotationValue, termAccession, termSource}, with or without an
// @id.
func asAnnotation(m map[string]interface{}) (Annotation, bool) {
	size := len(m)
	if size != 3 && size != 4 {
		return Annotation{}, false
	}
	if size == 4 {
		if _, ok := m["@id"]; !ok {
			return Annotation{}, false
		}
	}
	term, okTerm := m["annotationValue"]
	source, okSource := m["termSource"]
	accession, okAccession := m["termAccession"]
	if !okTerm || !okSource || !okAccession {
		return Annotation{}, false
	}
	return Annotation{
		Term:          coerceString(term),
		TermSource:    coerceString(source),
		TermAccession: coerceString(accession),
	}, true
}

// coerceString renders a scalar annotation field as text. Annotation
// values are occasionally numeric in the wild; the key set alone decides
// the shape.
func coerceString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// asTermSourceSite recognizes any three-key object carrying termSource,
// whether or not it is a full annotation. Term-source usage is counted
// even for shapes with renamed sibling keys.
func asTermSourceSite(m map[string]interface{}) (string, bool) {
	if len(m) != 3 {
		return "", false
	}
	return stringKey(m, "termSource")
}

// asReference recognizes a bare identifier usage: key set exactly {@id}.
func asReference(m map[string]interface{}) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	return stringKey(m, "@id")
}

// asDeclaration recognizes an identifier declaration: @id plus at least
// one other key.
func asDeclaration(m map[string]interface{}) (string, bool) {
	if len(m) < 2 {
		return "", false
	}
	return stringKey(m, "@id")
}

func stringKey(m map[string]interface{}, key string) (string, bool) {
	value, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
