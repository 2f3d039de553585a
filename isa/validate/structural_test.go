package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openisa/isakit/isa/document"
)

func parseDoc(t *testing.T, data string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(data))
	require.NoError(t, err)
	return doc
}

func TestCheckDates(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		warnings int
	}{
		{name: "plain date", date: "2024-06-01", warnings: 0},
		{name: "datetime", date: "2024-06-01T10:30:00Z", warnings: 0},
		{name: "empty is fine", date: "", warnings: 0},
		{name: "impossible date", date: "2024-13-40", warnings: 1},
		{name: "free text", date: "June 1st", warnings: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, `{"submissionDate": "`+tc.date+`"}`)
			r := NewReport("test")
			CheckDates(doc, r)
			assert.Equal(t, tc.warnings, r.Count(SeverityWarning))
			if tc.warnings > 0 {
				assert.Contains(t, r.Diagnostics[0].Message, tc.date)
			}
		})
	}
}

func TestCheckDatesWalksProcesses(t *testing.T) {
	doc := parseDoc(t, `{"studies": [{"processSequence": [
		{"@id": "#process/1", "date": "not-a-date"}
	]}]}`)
	r := NewReport("test")
	CheckDates(doc, r)
	assert.Equal(t, 1, r.Count(SeverityWarning))
}

func TestCheckDOIs(t *testing.T) {
	tests := []struct {
		name     string
		doi      string
		warnings int
	}{
		{name: "valid doi", doi: "10.1371/journal.pone.0003042", warnings: 0},
		{name: "empty skipped", doi: "", warnings: 0},
		{name: "short prefix", doi: "10.12/x", warnings: 1},
		{name: "no suffix", doi: "10.1371/", warnings: 1},
		{name: "forbidden character", doi: "10.1371/a b", warnings: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, `{"publications": [{"doi": "`+tc.doi+`", "title": "t"}]}`)
			r := NewReport("test")
			CheckDOIs(doc, r)
			assert.Equal(t, tc.warnings, r.Count(SeverityWarning))
		})
	}
}

func TestCheckPubMedIDs(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		warnings int
	}{
		{name: "eight digits", id: "18725995", warnings: 0},
		{name: "pmc prefixed", id: "PMC12345678", warnings: 0},
		{name: "empty skipped", id: "", warnings: 0},
		{name: "seven digit pmc", id: "PMC1234567", warnings: 1},
		{name: "too short", id: "1234567", warnings: 1},
		{name: "too long", id: "123456789", warnings: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, `{"publications": [{"pubMedID": "`+tc.id+`", "title": "t"}]}`)
			r := NewReport("test")
			CheckPubMedIDs(doc, r)
			assert.Equal(t, tc.warnings, r.Count(SeverityWarning))
		})
	}
}

func TestCheckNames(t *testing.T) {
	doc := parseDoc(t, `{
		"ontologySourceReferences": [{"name": ""}],
		"studies": [{"identifier": "S1",
			"protocols": [{"@id": "#protocol/1", "name": "",
				"parameters": [{"@id": "#parameter/1", "parameterName": {"annotationValue": ""}}]}],
			"factors": [{"@id": "#factor/1", "factorName": ""}]
		}]
	}`)
	r := NewReport("test")
	CheckNames(doc, r)
	assert.Equal(t, 4, r.Count(SeverityWarning))
}

func TestCheckFilenames(t *testing.T) {
	doc := parseDoc(t, `{"studies": [{"identifier": "S1", "filename": "",
		"assays": [{"filename": ""}]}]}`)
	r := NewReport("test")
	CheckFilenames(doc, r)
	assert.Equal(t, 2, r.Count(SeverityWarning))
}

func TestCheckDataFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.cel"), []byte("x"), 0o644))

	doc := parseDoc(t, `{"studies": [{"assays": [{"filename": "a.txt", "dataFiles": [
		{"@id": "#data/1", "name": "present.cel"},
		{"@id": "#data/2", "name": "missing.cel"}
	]}]}]}`)
	r := NewReport("test")
	CheckDataFiles(doc, dir, r)

	require.Equal(t, 1, r.Count(SeverityWarning))
	assert.Contains(t, r.Diagnostics[0].Message, "missing.cel")
}

func TestCheckEncoding(t *testing.T) {
	r := NewReport("test")
	assert.True(t, CheckEncoding([]byte(`{"identifier": "ok"}`), r))
	assert.True(t, r.Valid())

	r = NewReport("test")
	assert.False(t, CheckEncoding([]byte{0xff, 0xfe, 0x00}, r))
	assert.True(t, r.HasFatal())
}
