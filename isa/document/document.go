// Package document defines the ISA-JSON wire format and its decoding.
//
// The types here mirror the investigation schema field-for-field and stay
// string-and-reference shaped: @id references are not resolved, and
// polymorphic values (characteristic, parameter and factor values) are kept
// as raw JSON for the loader to type. Optional fields decode to zero values;
// absence is a normal case, not an error path.
package document

import (
	"encoding/json"
	"os"

	"github.com/openisa/isakit/errors"
)

// Ref is a bare identifier reference: an object whose only key is @id.
type Ref struct {
	ID string `json:"@id"`
}

// Annotation is the wire form of an ontology annotation. The @id is present
// only when the annotation is itself a declaration (unit categories).
type Annotation struct {
	ID            string `json:"@id,omitempty"`
	Value         string `json:"annotationValue"`
	TermSource    string `json:"termSource"`
	TermAccession string `json:"termAccession"`
}

// Comment is a free-form name/value pair.
type Comment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OntologySource declares a term source, keyed by name.
type OntologySource struct {
	Name        string    `json:"name"`
	File        string    `json:"file"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Publication is an investigation- or study-level publication.
type Publication struct {
	PubMedID   string     `json:"pubMedID"`
	DOI        string     `json:"doi"`
	AuthorList string     `json:"authorList"`
	Title      string     `json:"title"`
	Status     Annotation `json:"status"`
	Comments   []Comment  `json:"comments,omitempty"`
}

// Person is an investigation- or study-level contact.
type Person struct {
	LastName    string       `json:"lastName"`
	FirstName   string       `json:"firstName"`
	MidInitials string       `json:"midInitials"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Fax         string       `json:"fax"`
	Address     string       `json:"address"`
	Affiliation string       `json:"affiliation"`
	Roles       []Annotation `json:"roles,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
}

// CharacteristicCategory declares a characteristic category.
type CharacteristicCategory struct {
	ID                 string     `json:"@id"`
	CharacteristicType Annotation `json:"characteristicType"`
}

// ProtocolParameter declares a parameter of a protocol.
type ProtocolParameter struct {
	ID            string     `json:"@id"`
	ParameterName Annotation `json:"parameterName"`
}

// ProtocolComponent declares a component of a protocol.
type ProtocolComponent struct {
	Name string     `json:"componentName"`
	Type Annotation `json:"componentType"`
}

// Protocol declares a study protocol.
type Protocol struct {
	ID          string              `json:"@id"`
	Name        string              `json:"name"`
	URI         string              `json:"uri"`
	Description string              `json:"description"`
	Version     string              `json:"version"`
	Type        Annotation          `json:"protocolType"`
	Parameters  []ProtocolParameter `json:"parameters,omitempty"`
	Components  []ProtocolComponent `json:"components,omitempty"`
}

// Factor declares a study factor.
type Factor struct {
	ID   string     `json:"@id"`
	Name string     `json:"factorName"`
	Type Annotation `json:"factorType"`
}

// PropertyValue is the wire form shared by characteristics, parameter
// values and factor values. Value stays raw JSON: its shape (annotation
// object, number, or plain scalar) decides its typing during load.
type PropertyValue struct {
	Category Ref             `json:"category"`
	Value    json.RawMessage `json:"value"`
	Unit     *Ref            `json:"unit,omitempty"`
}

// Source declares a study source material.
type Source struct {
	ID              string          `json:"@id"`
	Name            string          `json:"name"`
	Characteristics []PropertyValue `json:"characteristics,omitempty"`
}

// Sample declares a study sample material.
type Sample struct {
	ID              string          `json:"@id"`
	Name            string          `json:"name"`
	DerivesFrom     []Ref           `json:"derivesFrom,omitempty"`
	Characteristics []PropertyValue `json:"characteristics,omitempty"`
	FactorValues    []PropertyValue `json:"factorValues,omitempty"`
}

// OtherMaterial declares an assay-level material (extract, labeled extract).
type OtherMaterial struct {
	ID              string          `json:"@id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Characteristics []PropertyValue `json:"characteristics,omitempty"`
}

// DataFile declares an assay data file.
type DataFile struct {
	ID       string    `json:"@id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Comments []Comment `json:"comments,omitempty"`
}

// Process is one step of a process sequence. PreviousProcess and
// NextProcess may reference processes declared later in document order.
type Process struct {
	ID               string          `json:"@id"`
	Name             string          `json:"name"`
	ExecutesProtocol Ref             `json:"executesProtocol"`
	Date             string          `json:"date"`
	Performer        string          `json:"performer"`
	ParameterValues  []PropertyValue `json:"parameterValues,omitempty"`
	Inputs           []Ref           `json:"inputs,omitempty"`
	Outputs          []Ref           `json:"outputs,omitempty"`
	PreviousProcess  *Ref            `json:"previousProcess,omitempty"`
	NextProcess      *Ref            `json:"nextProcess,omitempty"`
	Comments         []Comment       `json:"comments,omitempty"`
}

// StudyMaterials groups a study's declared materials.
type StudyMaterials struct {
	Sources []Source `json:"sources,omitempty"`
	Samples []Sample `json:"samples,omitempty"`
}

// AssayMaterials groups an assay's materials. Samples are references back
// to study-level declarations.
type AssayMaterials struct {
	Samples        []Ref           `json:"samples,omitempty"`
	OtherMaterials []OtherMaterial `json:"otherMaterials,omitempty"`
}

// Assay is a study assay.
type Assay struct {
	Filename                 string                   `json:"filename"`
	MeasurementType          Annotation               `json:"measurementType"`
	TechnologyType           Annotation               `json:"technologyType"`
	TechnologyPlatform       string                   `json:"technologyPlatform"`
	DataFiles                []DataFile               `json:"dataFiles,omitempty"`
	Materials                AssayMaterials           `json:"materials"`
	CharacteristicCategories []CharacteristicCategory `json:"characteristicCategories,omitempty"`
	UnitCategories           []Annotation             `json:"unitCategories,omitempty"`
	ProcessSequence          []Process                `json:"processSequence,omitempty"`
}

// Study is one study block of the investigation document.
type Study struct {
	Identifier               string                   `json:"identifier"`
	Title                    string                   `json:"title"`
	Description              string                   `json:"description"`
	SubmissionDate           string                   `json:"submissionDate"`
	PublicReleaseDate        string                   `json:"publicReleaseDate"`
	Filename                 string                   `json:"filename"`
	Comments                 []Comment                `json:"comments,omitempty"`
	Publications             []Publication            `json:"publications,omitempty"`
	People                   []Person                 `json:"people,omitempty"`
	DesignDescriptors        []Annotation             `json:"studyDesignDescriptors,omitempty"`
	Protocols                []Protocol               `json:"protocols,omitempty"`
	Factors                  []Factor                 `json:"factors,omitempty"`
	CharacteristicCategories []CharacteristicCategory `json:"characteristicCategories,omitempty"`
	UnitCategories           []Annotation             `json:"unitCategories,omitempty"`
	Materials                StudyMaterials           `json:"materials"`
	ProcessSequence          []Process                `json:"processSequence,omitempty"`
	Assays                   []Assay                  `json:"assays,omitempty"`
}

// Document is the root of an ISA-JSON investigation file.
type Document struct {
	Identifier        string           `json:"identifier"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	SubmissionDate    string           `json:"submissionDate"`
	PublicReleaseDate string           `json:"publicReleaseDate"`
	Comments          []Comment        `json:"comments,omitempty"`
	OntologySources   []OntologySource `json:"ontologySourceReferences,omitempty"`
	Publications      []Publication    `json:"publications,omitempty"`
	People            []Person         `json:"people,omitempty"`
	Studies           []Study          `json:"studies,omitempty"`
}

// Parse decodes an ISA-JSON investigation document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse ISA-JSON document")
	}
	return &doc, nil
}

// ParseRaw decodes the document into the generic tree the reference walker
// and the schema validator operate on.
func ParseRaw(data []byte) (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse ISA-JSON document")
	}
	return raw, nil
}

// ReadFile reads and decodes both views of a document from disk.
func ReadFile(path string) (*Document, interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	raw, err := ParseRaw(data)
	if err != nil {
		return nil, nil, err
	}
	return doc, raw, nil
}
