// Package model defines the resolved ISA entity graph: an Investigation
// containing Studies, each with Protocols, Materials and Assays linked by
// Process Sequences. All cross-entity links are live object references;
// resolving them from the wire format is the loader's job.
package model

// Comment is a free-form name/value annotation carried by most entities.
type Comment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OntologySource is a named authority (ontology) that annotation accession
// terms are drawn from. Term sources are keyed by name, not @id.
type OntologySource struct {
	Name        string    `json:"name"`
	File        string    `json:"file"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Comments    []Comment `json:"comments,omitempty"`
}

// OntologyAnnotation is a term drawn from an ontology source. Annotations
// used as characteristic or unit categories carry a declaration @id.
type OntologyAnnotation struct {
	ID            string          `json:"@id,omitempty"`
	Term          string          `json:"annotationValue"`
	TermSource    *OntologySource `json:"termSource,omitempty"`
	TermAccession string          `json:"termAccession,omitempty"`
}

// Person is an investigation or study contact.
type Person struct {
	LastName    string               `json:"lastName"`
	FirstName   string               `json:"firstName"`
	MidInitials string               `json:"midInitials,omitempty"`
	Email       string               `json:"email,omitempty"`
	Phone       string               `json:"phone,omitempty"`
	Fax         string               `json:"fax,omitempty"`
	Address     string               `json:"address,omitempty"`
	Affiliation string               `json:"affiliation,omitempty"`
	Roles       []OntologyAnnotation `json:"roles,omitempty"`
	Comments    []Comment            `json:"comments,omitempty"`
}

// Publication is a publication associated with an investigation or study.
type Publication struct {
	PubMedID   string              `json:"pubMedID,omitempty"`
	DOI        string              `json:"doi,omitempty"`
	AuthorList string              `json:"authorList,omitempty"`
	Title      string              `json:"title"`
	Status     *OntologyAnnotation `json:"status,omitempty"`
	Comments   []Comment           `json:"comments,omitempty"`
}

// ProtocolParameter is a declared parameter of a protocol, referenced by
// process parameter values.
type ProtocolParameter struct {
	ID            string              `json:"@id"`
	ParameterName *OntologyAnnotation `json:"parameterName"`
}

// ProtocolComponent is a named piece of equipment or software used by a
// protocol.
type ProtocolComponent struct {
	Name          string              `json:"componentName"`
	ComponentType *OntologyAnnotation `json:"componentType,omitempty"`
}

// Protocol is an experimental procedure declared by a study and executed by
// processes.
type Protocol struct {
	ID           string               `json:"@id"`
	Name         string               `json:"name"`
	URI          string               `json:"uri,omitempty"`
	Description  string               `json:"description,omitempty"`
	Version      string               `json:"version,omitempty"`
	ProtocolType *OntologyAnnotation  `json:"protocolType,omitempty"`
	Parameters   []*ProtocolParameter `json:"parameters,omitempty"`
	Components   []ProtocolComponent  `json:"components,omitempty"`
}

// StudyFactor is an experimental variable declared by a study and referenced
// by sample factor values.
type StudyFactor struct {
	ID         string              `json:"@id"`
	Name       string              `json:"factorName"`
	FactorType *OntologyAnnotation `json:"factorType,omitempty"`
}

// Source is a starting material of a study.
type Source struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	Characteristics []Characteristic `json:"characteristics,omitempty"`
}

// NodeID returns the source's declared @id.
func (s *Source) NodeID() string { return s.ID }

// NodeName returns the source's name.
func (s *Source) NodeName() string { return s.Name }

// Sample is a material derived from sources during a study.
type Sample struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	DerivesFrom     []string         `json:"derivesFrom,omitempty"`
	Characteristics []Characteristic `json:"characteristics,omitempty"`
	FactorValues    []FactorValue    `json:"factorValues,omitempty"`
}

// NodeID returns the sample's declared @id.
func (s *Sample) NodeID() string { return s.ID }

// NodeName returns the sample's name.
func (s *Sample) NodeName() string { return s.Name }

// Material is an assay-level material that is neither a source, a sample
// nor a data file (extracts, labeled extracts).
type Material struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	Characteristics []Characteristic `json:"characteristics,omitempty"`
}

// NodeID returns the material's declared @id.
func (m *Material) NodeID() string { return m.ID }

// NodeName returns the material's name.
func (m *Material) NodeName() string { return m.Name }

// DataFile is a file produced by an assay. Data files are sinks in the
// provenance graph.
type DataFile struct {
	ID       string    `json:"@id"`
	Filename string    `json:"name"`
	Label    string    `json:"type"`
	Comments []Comment `json:"comments,omitempty"`
}

// NodeID returns the data file's declared @id.
func (d *DataFile) NodeID() string { return d.ID }

// NodeName returns the data file's filename.
func (d *DataFile) NodeName() string { return d.Filename }

// Process is one executed experimental step: a protocol application turning
// inputs into outputs. PreviousProcess and NextProcess are weak back-links
// used only for traversal; they never own the processes they point to.
type Process struct {
	ID               string
	ExecutesProtocol *Protocol
	Inputs           []Node
	Outputs          []Node
	PreviousProcess  *Process
	NextProcess      *Process
	Performer        string
	Date             string
	ParameterValues  []ParameterValue
	// AdditionalProperties holds technology-specific name fields keyed by
	// the protocol type, e.g. "Scan Name" for microarray data collection.
	AdditionalProperties map[string]string
	Comments             []Comment
}

// NodeID returns the process's declared @id.
func (p *Process) NodeID() string { return p.ID }

// NodeName returns the name of the executed protocol.
func (p *Process) NodeName() string {
	if p.ExecutesProtocol == nil {
		return ""
	}
	return p.ExecutesProtocol.Name
}

// Assay is a measurement performed on study samples.
type Assay struct {
	Filename                 string
	MeasurementType          *OntologyAnnotation
	TechnologyType           *OntologyAnnotation
	TechnologyPlatform       string
	DataFiles                []*DataFile
	Samples                  []*Sample
	OtherMaterials           []*Material
	CharacteristicCategories []*OntologyAnnotation
	UnitCategories           []*OntologyAnnotation
	ProcessSequence          []*Process
	Graph                    ProvenanceGraph
}

// Study is one experimental unit of an investigation.
type Study struct {
	Identifier               string
	Title                    string
	Description              string
	SubmissionDate           string
	PublicReleaseDate        string
	Filename                 string
	Comments                 []Comment
	Publications             []Publication
	Contacts                 []Person
	DesignDescriptors        []*OntologyAnnotation
	Protocols                []*Protocol
	Factors                  []*StudyFactor
	CharacteristicCategories []*OntologyAnnotation
	UnitCategories           []*OntologyAnnotation
	Sources                  []*Source
	Samples                  []*Sample
	ProcessSequence          []*Process
	Assays                   []*Assay
	Graph                    ProvenanceGraph
}

// Investigation is the root of the resolved object graph.
type Investigation struct {
	Identifier        string
	Title             string
	Description       string
	SubmissionDate    string
	PublicReleaseDate string
	OntologySources   []*OntologySource
	Publications      []Publication
	Contacts          []Person
	Comments          []Comment
	Studies           []*Study
}
