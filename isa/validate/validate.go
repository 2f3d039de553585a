package validate

import (
	"os"
	"path/filepath"
	"time"

	"github.com/openisa/isakit/isa/document"
	"github.com/openisa/isakit/isa/loader"
	"github.com/openisa/isakit/logger"
)

// Options configures one validation run.
type Options struct {
	// SchemaPath overrides the embedded investigation schema.
	SchemaPath string
	// CheckDataFiles enables on-disk existence checks for declared data
	// files, resolved relative to the document's directory.
	CheckDataFiles bool
	// DataFileDir overrides the directory data files are resolved against.
	DataFileDir string
}

// File validates the document at path and returns the complete report. The
// returned error covers environmental failures only (unreadable input,
// uncompilable schema); document problems land in the report.
func File(path string, opts Options) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if opts.CheckDataFiles && opts.DataFileDir == "" {
		opts.DataFileDir = filepath.Dir(path)
	}
	return Bytes(data, path, opts)
}

// Bytes validates a document already in memory. Validation is exhaustive:
// every check runs and appends to the report, except that schema
// non-conformance is fatal and short-circuits everything downstream of it.
func Bytes(data []byte, name string, opts Options) (*Report, error) {
	started := time.Now()
	r := NewReport(name)
	logger.Debugw("validation started",
		logger.FieldFile, name,
		logger.FieldRunID, r.RunID)

	if !CheckEncoding(data, r) {
		return r, nil
	}

	raw, err := document.ParseRaw(data)
	if err != nil {
		r.Fatalf("there was an error when trying to parse the JSON: %v", err)
		return r, nil
	}

	schemaValidator, err := NewSchemaValidator(opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	if violations := schemaValidator.Validate(raw); len(violations) > 0 {
		for _, violation := range violations {
			r.Fatalf("schema violation: %s", violation)
		}
		return r, nil
	}

	doc, err := document.Parse(data)
	if err != nil {
		r.Fatalf("there was an error when trying to parse the JSON: %v", err)
		return r, nil
	}

	CheckFilenames(doc, r)
	CheckDates(doc, r)
	CheckDOIs(doc, r)
	CheckPubMedIDs(doc, r)
	CheckNames(doc, r)
	CheckCrossReferences(doc, raw, r)
	if opts.CheckDataFiles {
		CheckDataFiles(doc, opts.DataFileDir, r)
	}

	// A full load exercises the link checks the set-based reconciliation
	// cannot express, such as value typing and namespace collisions.
	if _, err := loader.Load(doc); err != nil {
		r.Errorf("document does not load into a linked object graph: %v", err)
	}

	logger.Debugw("validation finished",
		logger.FieldFile, name,
		logger.FieldRunID, r.RunID,
		logger.FieldCount, len(r.Diagnostics),
		logger.FieldDurationMS, time.Since(started).Milliseconds())
	return r, nil
}
