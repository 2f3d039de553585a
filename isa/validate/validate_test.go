package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "identifier": "BII-I-1",
  "title": "Test investigation",
  "submissionDate": "2024-06-01",
  "publicReleaseDate": "2024-06-15",
  "ontologySourceReferences": [
    {"name": "OBI", "file": "", "version": "21", "description": "OBI ontology"}
  ],
  "publications": [
    {"pubMedID": "18725995", "doi": "10.1371/journal.pone.0003042", "title": "A paper",
     "status": {"annotationValue": "published", "termSource": "OBI", "termAccession": ""}}
  ],
  "studies": [
    {
      "identifier": "BII-S-1",
      "filename": "s_BII-S-1.txt",
      "characteristicCategories": [
        {"@id": "#cc/organism", "characteristicType": {"annotationValue": "organism", "termSource": "OBI", "termAccession": ""}}
      ],
      "protocols": [
        {"@id": "#protocol/growth", "name": "growth protocol", "protocolType": {"annotationValue": "growth"}}
      ],
      "materials": {
        "sources": [
          {"@id": "#source/1", "name": "source-c1", "characteristics": [
            {"category": {"@id": "#cc/organism"}, "value": "Saccharomyces cerevisiae"}
          ]}
        ],
        "samples": [
          {"@id": "#sample/1", "name": "sample-c1-a1", "derivesFrom": [{"@id": "#source/1"}]}
        ]
      },
      "processSequence": [
        {"@id": "#process/1", "executesProtocol": {"@id": "#protocol/growth"}, "date": "2024-06-02",
         "inputs": [{"@id": "#source/1"}], "outputs": [{"@id": "#sample/1"}]}
      ]
    }
  ]
}`

func TestBytesValidDocument(t *testing.T) {
	r, err := Bytes([]byte(validDocument), "i_test.json", Options{})
	require.NoError(t, err)

	for _, d := range r.Diagnostics {
		t.Logf("%s: %s", d.Severity, d.Message)
	}
	assert.True(t, r.Valid())
	assert.False(t, r.HasFatal())
}

func TestBytesSchemaViolationIsFatal(t *testing.T) {
	r, err := Bytes([]byte(`{"identifier": "x", "bogusProperty": true}`), "i_test.json", Options{})
	require.NoError(t, err)

	assert.True(t, r.HasFatal())
	// Schema failure short-circuits: no other checks ran.
	for _, d := range r.Diagnostics {
		assert.Equal(t, SeverityFatal, d.Severity)
	}
}

func TestBytesMalformedJSONIsFatal(t *testing.T) {
	r, err := Bytes([]byte(`{"identifier": `), "i_test.json", Options{})
	require.NoError(t, err)
	assert.True(t, r.HasFatal())
}

func TestBytesNonUTF8IsFatal(t *testing.T) {
	r, err := Bytes([]byte{0xff, 0xfe, '{', '}'}, "i_test.json", Options{})
	require.NoError(t, err)
	assert.True(t, r.HasFatal())
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0].Message, "UTF-8")
}

func TestBytesCrossReferenceErrorsAreNotFatal(t *testing.T) {
	const doc = `{"studies": [{"identifier": "S1", "filename": "s.txt",
		"protocols": [{"@id": "#protocol/P1", "name": "p1"}],
		"materials": {"sources": [], "samples": []},
		"processSequence": [{"@id": "#process/1", "executesProtocol": {"@id": "#protocol/P2"}}]
	}]}`

	r, err := Bytes([]byte(doc), "i_test.json", Options{})
	require.NoError(t, err)

	assert.False(t, r.Valid())
	assert.False(t, r.HasFatal())
	assert.Greater(t, r.Count(SeverityError), 0)
}

func TestFileValidatesFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "i_test.json")
	require.NoError(t, os.WriteFile(path, []byte(validDocument), 0o644))

	r, err := File(path, Options{})
	require.NoError(t, err)
	assert.True(t, r.Valid())
	assert.Equal(t, path, r.File)
}

func TestFileMissingInput(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.json"), Options{})
	require.Error(t, err)
}

func TestNewSchemaValidatorOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "object", "required": ["identifier"]}`), 0o644))

	v, err := NewSchemaValidator(path)
	require.NoError(t, err)

	assert.Nil(t, v.Validate(map[string]interface{}{"identifier": "x"}))
	assert.NotEmpty(t, v.Validate(map[string]interface{}{}))
}

func TestNewSchemaValidatorMissingFile(t *testing.T) {
	_, err := NewSchemaValidator(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
