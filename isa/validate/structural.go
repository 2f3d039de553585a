package validate

import (
	"os"
	"path/filepath"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/openisa/isakit/isa/document"
)

var (
	doiPattern   = regexp.MustCompile(`^10\.[0-9]{4,}(?:\.[0-9]+)*/[^%"#?\s]+$`)
	pmidPattern  = regexp.MustCompile(`^[0-9]{8}$`)
	pmcidPattern = regexp.MustCompile(`^PMC[0-9]{8}$`)
	dateLayouts  = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}
)

// CheckEncoding verifies the input byte stream is valid UTF-8. Failure is
// fatal: decoding a mis-encoded stream produces garbage identifiers.
func CheckEncoding(data []byte, r *Report) bool {
	if !utf8.Valid(data) {
		r.Fatalf("file is not valid UTF-8, not proceeding")
		return false
	}
	return true
}

// CheckDates verifies every date-bearing field parses as ISO-8601. Dates
// are not identifiers, so failures never affect the load path.
func CheckDates(doc *document.Document, r *Report) {
	checkDate := func(value string) {
		if value == "" {
			return
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				return
			}
		}
		r.Warnf("date %q does not conform to ISO-8601 format", value)
	}

	checkDate(doc.SubmissionDate)
	checkDate(doc.PublicReleaseDate)
	for i := range doc.Studies {
		study := &doc.Studies[i]
		checkDate(study.SubmissionDate)
		checkDate(study.PublicReleaseDate)
		for j := range study.ProcessSequence {
			checkDate(study.ProcessSequence[j].Date)
		}
		for j := range study.Assays {
			for k := range study.Assays[j].ProcessSequence {
				checkDate(study.Assays[j].ProcessSequence[k].Date)
			}
		}
	}
}

// CheckDOIs verifies publication DOIs against the DOI syntax.
func CheckDOIs(doc *document.Document, r *Report) {
	checkDOI := func(doi string) {
		if doi != "" && !doiPattern.MatchString(doi) {
			r.Warnf("DOI %q does not conform to DOI format", doi)
		}
	}

	for i := range doc.Publications {
		checkDOI(doc.Publications[i].DOI)
	}
	for i := range doc.Studies {
		for j := range doc.Studies[i].Publications {
			checkDOI(doc.Studies[i].Publications[j].DOI)
		}
	}
}

// CheckPubMedIDs verifies publication PubMed IDs: either an eight-digit
// numeric ID or a PMC-prefixed eight-digit ID.
func CheckPubMedIDs(doc *document.Document, r *Report) {
	checkPubMedID := func(id string) {
		if id == "" {
			return
		}
		if !pmidPattern.MatchString(id) && !pmcidPattern.MatchString(id) {
			r.Warnf("PubMed ID %q is not valid format", id)
		}
	}

	for i := range doc.Publications {
		checkPubMedID(doc.Publications[i].PubMedID)
	}
	for i := range doc.Studies {
		for j := range doc.Studies[i].Publications {
			checkPubMedID(doc.Studies[i].Publications[j].PubMedID)
		}
	}
}

// CheckNames flags unnamed declarations: entities without a name cannot be
// referenced when converting to the tabular form.
func CheckNames(doc *document.Document, r *Report) {
	for i := range doc.OntologySources {
		if doc.OntologySources[i].Name == "" {
			r.Warnf("an ontology source reference is missing its name, so it cannot be referenced")
		}
	}
	for i := range doc.Studies {
		study := &doc.Studies[i]
		for j := range study.Protocols {
			protocol := &study.Protocols[j]
			if protocol.Name == "" {
				r.Warnf("protocol %q is missing its name, so it cannot be referenced", protocol.ID)
			}
			for k := range protocol.Parameters {
				if protocol.Parameters[k].ParameterName.Value == "" {
					r.Warnf("a parameter of protocol %q is missing its name, so it cannot be referenced", protocol.ID)
				}
			}
		}
		for j := range study.Factors {
			if study.Factors[j].Name == "" {
				r.Warnf("study factor %q is missing its name, so it cannot be referenced", study.Factors[j].ID)
			}
		}
	}
}

// CheckFilenames flags studies and assays without the filename needed to
// round-trip to the tabular form.
func CheckFilenames(doc *document.Document, r *Report) {
	for i := range doc.Studies {
		if doc.Studies[i].Filename == "" {
			r.Warnf("study %q filename is missing", doc.Studies[i].Identifier)
		}
		for j := range doc.Studies[i].Assays {
			if doc.Studies[i].Assays[j].Filename == "" {
				r.Warnf("an assay filename is missing in study %q", doc.Studies[i].Identifier)
			}
		}
	}
}

// CheckDataFiles verifies that every declared data file exists on disk,
// resolved relative to dir.
func CheckDataFiles(doc *document.Document, dir string, r *Report) {
	for i := range doc.Studies {
		for j := range doc.Studies[i].Assays {
			assay := &doc.Studies[i].Assays[j]
			for k := range assay.DataFiles {
				name := assay.DataFiles[k].Name
				if name == "" {
					continue
				}
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					r.Warnf("data file %q declared in assay %q not found", name, assay.Filename)
				}
			}
		}
	}
}
