package walker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data string) interface{} {
	t.Helper()
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &raw))
	return raw
}

func TestCollectRecognizesShapes(t *testing.T) {
	raw := decode(t, `{
		"protocols": [
			{"@id": "#protocol/P1", "name": "extraction",
			 "protocolType": {"annotationValue": "material separation", "termSource": "OBI", "termAccession": "obo:0001"}}
		],
		"processSequence": [
			{"@id": "#process/1", "executesProtocol": {"@id": "#protocol/P1"},
			 "inputs": [{"@id": "#source/1"}]}
		]
	}`)

	u := Collect(raw)

	assert.Contains(t, u.Declarations, "#protocol/P1")
	assert.Contains(t, u.Declarations, "#process/1")
	assert.NotContains(t, u.Declarations, "#source/1")

	assert.Contains(t, u.References, "#protocol/P1")
	assert.Contains(t, u.References, "#source/1")
	assert.NotContains(t, u.References, "#process/1")

	require.Len(t, u.Annotations, 1)
	assert.Equal(t, "material separation", u.Annotations[0].Term)
	assert.Contains(t, u.TermSources, "OBI")
}

func TestCollectAnnotationVariants(t *testing.T) {
	tests := []struct {
		name       string
		fragment   string
		annotation bool
	}{
		{
			name:       "three key annotation",
			fragment:   `{"annotationValue": "dose", "termSource": "EFO", "termAccession": ""}`,
			annotation: true,
		},
		{
			name:       "four key annotation with id",
			fragment:   `{"@id": "#unit/mg", "annotationValue": "mg", "termSource": "UO", "termAccession": ""}`,
			annotation: true,
		},
		{
			name:       "numeric annotation value",
			fragment:   `{"annotationValue": 42, "termSource": "UO", "termAccession": ""}`,
			annotation: true,
		},
		{
			name:       "extra key disqualifies",
			fragment:   `{"annotationValue": "dose", "termSource": "EFO", "termAccession": "", "comments": []}`,
			annotation: false,
		},
		{
			name:       "missing term accession disqualifies",
			fragment:   `{"annotationValue": "dose", "termSource": "EFO", "other": ""}`,
			annotation: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := Collect(decode(t, tc.fragment))
			if tc.annotation {
				assert.Len(t, u.Annotations, 1)
			} else {
				assert.Empty(t, u.Annotations)
			}
		})
	}
}

func TestCollectNumericAnnotationValueCoerced(t *testing.T) {
	u := Collect(decode(t, `{"annotationValue": 42, "termSource": "UO", "termAccession": ""}`))
	require.Len(t, u.Annotations, 1)
	assert.Equal(t, "42", u.Annotations[0].Term)
	assert.Contains(t, u.TermSources, "UO")
}

func TestCollectEmptyTermSourceSkipped(t *testing.T) {
	u := Collect(decode(t, `{"annotationValue": "dose", "termSource": "", "termAccession": ""}`))
	require.Len(t, u.Annotations, 1)
	assert.Empty(t, u.TermSources)
}

func TestCollectTermSourceSiteWithoutAnnotationShape(t *testing.T) {
	// Any three-key object carrying termSource counts as a usage site even
	// when it is not annotation-shaped.
	u := Collect(decode(t, `{"label": "x", "termSource": "NCBITaxon", "extra": 1}`))
	assert.Empty(t, u.Annotations)
	assert.Contains(t, u.TermSources, "NCBITaxon")
}

func TestCollectDeepNestingAndDuplicates(t *testing.T) {
	raw := decode(t, `{
		"a": [[{"@id": "#sample/1"}], {"b": {"c": {"@id": "#sample/1"}}}],
		"d": {"@id": "#sample/1", "name": "s1"}
	}`)

	u := Collect(raw)
	assert.Len(t, u.References, 1)
	assert.Len(t, u.Declarations, 1)
}

func TestCollectDeclarationIsAlsoWalkedInto(t *testing.T) {
	raw := decode(t, `{"@id": "#sample/1", "characteristics": [
		{"category": {"@id": "#cc/organism"}}
	]}`)

	u := Collect(raw)
	assert.Contains(t, u.Declarations, "#sample/1")
	assert.Contains(t, u.References, "#cc/organism")
}
