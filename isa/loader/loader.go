// Package loader resolves a parsed ISA-JSON document into a fully linked
// object graph rooted at one Investigation, and derives the per-Study and
// per-Assay provenance graphs.
//
// Resolution is eager and fails fast: entities are declared in dependency
// order (term sources, characteristic categories, unit categories,
// protocols, factors, then materials and processes), and any reference to
// an undeclared identifier aborts the load. The single exception is process
// chaining: previousProcess/nextProcess may point forward in document
// order, so processes are built in two passes with the links deferred to
// the second.
package loader

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/openisa/isakit/errors"
	"github.com/openisa/isakit/isa/document"
	"github.com/openisa/isakit/isa/graph"
	"github.com/openisa/isakit/isa/model"
)

// ArrayDesignRefParameter is the reserved parameter identifier whose value
// becomes the "Array Design REF" additional property instead of a regular
// parameter value.
const ArrayDesignRefParameter = "#parameter/Array_Design_REF"

// Wire names carry a material-type prefix for round-tripping to the tabular
// form; the resolved entities store the bare name.
var materialNamePrefixes = []string{"source-", "sample-", "labeledextract-", "extract-"}

// Loader builds the resolved object graph for one document. It owns the
// identifier registry for the duration of the load.
type Loader struct {
	registry *Registry
	log      *zap.SugaredLogger
}

// New creates a loader. A nil logger disables logging.
func New(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{registry: NewRegistry(), log: log}
}

// Registry exposes the loader's identifier registry. It is only meaningful
// after Load returns; it exists for inspection and tests.
func (l *Loader) Registry() *Registry { return l.registry }

// Load resolves a parsed document with a fresh loader.
func Load(doc *document.Document) (*model.Investigation, error) {
	return New(nil).Load(doc)
}

// Load builds the Investigation object graph from doc.
func (l *Loader) Load(doc *document.Document) (*model.Investigation, error) {
	investigation := &model.Investigation{
		Identifier:        doc.Identifier,
		Title:             doc.Title,
		Description:       doc.Description,
		SubmissionDate:    doc.SubmissionDate,
		PublicReleaseDate: doc.PublicReleaseDate,
		Comments:          buildComments(doc.Comments),
	}

	for i := range doc.OntologySources {
		src := &doc.OntologySources[i]
		entity := &model.OntologySource{
			Name:        src.Name,
			File:        src.File,
			Version:     src.Version,
			Description: src.Description,
			Comments:    buildComments(src.Comments),
		}
		// An unnamed term source cannot be referenced; it is kept on the
		// investigation but not registered.
		if src.Name != "" {
			if err := l.registry.Declare(model.NamespaceTermSources, src.Name, entity); err != nil {
				return nil, err
			}
		}
		investigation.OntologySources = append(investigation.OntologySources, entity)
	}

	for i := range doc.Publications {
		publication, err := l.buildPublication(doc.Publications[i])
		if err != nil {
			return nil, err
		}
		investigation.Publications = append(investigation.Publications, publication)
	}
	for i := range doc.People {
		person, err := l.buildPerson(doc.People[i])
		if err != nil {
			return nil, err
		}
		investigation.Contacts = append(investigation.Contacts, person)
	}

	// Characteristic categories are declared up front across every study
	// and assay: a category declared at assay level may be referenced by a
	// study-level material.
	if err := l.declareCharacteristicCategories(doc); err != nil {
		return nil, err
	}

	for i := range doc.Studies {
		study, err := l.buildStudy(&doc.Studies[i])
		if err != nil {
			return nil, errors.Wrapf(err, "loading study %q", doc.Studies[i].Identifier)
		}
		investigation.Studies = append(investigation.Studies, study)
	}

	l.log.Infow("investigation loaded",
		"investigation", investigation.Identifier,
		"count", len(investigation.Studies))
	return investigation, nil
}

func (l *Loader) declareCharacteristicCategories(doc *document.Document) error {
	declare := func(categories []document.CharacteristicCategory) error {
		for i := range categories {
			cat := &categories[i]
			term, err := l.buildAnnotation(cat.CharacteristicType)
			if err != nil {
				return err
			}
			term.ID = cat.ID
			if err := l.registry.Declare(model.NamespaceCharacteristicCategories, cat.ID, term); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range doc.Studies {
		study := &doc.Studies[i]
		if err := declare(study.CharacteristicCategories); err != nil {
			return err
		}
		for j := range study.Assays {
			if err := declare(study.Assays[j].CharacteristicCategories); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) buildStudy(src *document.Study) (*model.Study, error) {
	study := &model.Study{
		Identifier:        src.Identifier,
		Title:             src.Title,
		Description:       src.Description,
		SubmissionDate:    src.SubmissionDate,
		PublicReleaseDate: src.PublicReleaseDate,
		Filename:          src.Filename,
		Comments:          buildComments(src.Comments),
	}

	for i := range src.Publications {
		publication, err := l.buildPublication(src.Publications[i])
		if err != nil {
			return nil, err
		}
		study.Publications = append(study.Publications, publication)
	}
	for i := range src.People {
		person, err := l.buildPerson(src.People[i])
		if err != nil {
			return nil, err
		}
		study.Contacts = append(study.Contacts, person)
	}
	for i := range src.DesignDescriptors {
		descriptor, err := l.buildAnnotation(src.DesignDescriptors[i])
		if err != nil {
			return nil, err
		}
		study.DesignDescriptors = append(study.DesignDescriptors, descriptor)
	}

	for i := range src.CharacteristicCategories {
		category, err := resolveAs[*model.OntologyAnnotation](
			l.registry, model.NamespaceCharacteristicCategories, src.CharacteristicCategories[i].ID)
		if err != nil {
			return nil, err
		}
		study.CharacteristicCategories = append(study.CharacteristicCategories, category)
	}
	units, err := l.declareUnitCategories(src.UnitCategories)
	if err != nil {
		return nil, err
	}
	study.UnitCategories = units

	for i := range src.Protocols {
		protocol, err := l.buildProtocol(src.Protocols[i])
		if err != nil {
			return nil, err
		}
		study.Protocols = append(study.Protocols, protocol)
	}
	for i := range src.Factors {
		factor, err := l.buildFactor(src.Factors[i])
		if err != nil {
			return nil, err
		}
		study.Factors = append(study.Factors, factor)
	}

	for i := range src.Materials.Sources {
		source, err := l.buildSource(src.Materials.Sources[i])
		if err != nil {
			return nil, err
		}
		study.Sources = append(study.Sources, source)
	}
	for i := range src.Materials.Samples {
		sample, err := l.buildSample(src.Materials.Samples[i])
		if err != nil {
			return nil, err
		}
		study.Samples = append(study.Samples, sample)
	}

	sequence, err := l.buildProcessSequence(src.ProcessSequence, nil)
	if err != nil {
		return nil, err
	}
	study.ProcessSequence = sequence
	study.Graph, err = graph.Build(sequence)
	if err != nil {
		return nil, err
	}

	for i := range src.Assays {
		assay, err := l.buildAssay(&src.Assays[i], study)
		if err != nil {
			return nil, errors.Wrapf(err, "loading assay %q", src.Assays[i].Filename)
		}
		study.Assays = append(study.Assays, assay)
	}

	l.log.Debugw("study loaded",
		"study", study.Identifier,
		"node_count", study.Graph.Order(),
		"edge_count", study.Graph.Size())
	return study, nil
}

func (l *Loader) buildAssay(src *document.Assay, study *model.Study) (*model.Assay, error) {
	measurementType, err := l.buildAnnotation(src.MeasurementType)
	if err != nil {
		return nil, err
	}
	technologyType, err := l.buildAnnotation(src.TechnologyType)
	if err != nil {
		return nil, err
	}
	assay := &model.Assay{
		Filename:           src.Filename,
		MeasurementType:    measurementType,
		TechnologyType:     technologyType,
		TechnologyPlatform: src.TechnologyPlatform,
	}

	units, err := l.declareUnitCategories(src.UnitCategories)
	if err != nil {
		return nil, err
	}
	assay.UnitCategories = units

	for i := range src.DataFiles {
		df := &src.DataFiles[i]
		dataFile := &model.DataFile{
			ID:       df.ID,
			Filename: df.Name,
			Label:    df.Type,
			Comments: buildComments(df.Comments),
		}
		if err := l.registry.Declare(model.NamespaceDataFiles, df.ID, dataFile); err != nil {
			return nil, err
		}
		assay.DataFiles = append(assay.DataFiles, dataFile)
	}

	for _, ref := range src.Materials.Samples {
		sample, err := resolveAs[*model.Sample](l.registry, model.NamespaceSamples, ref.ID)
		if err != nil {
			return nil, err
		}
		assay.Samples = append(assay.Samples, sample)
	}

	for i := range src.CharacteristicCategories {
		category, err := resolveAs[*model.OntologyAnnotation](
			l.registry, model.NamespaceCharacteristicCategories, src.CharacteristicCategories[i].ID)
		if err != nil {
			return nil, err
		}
		assay.CharacteristicCategories = append(assay.CharacteristicCategories, category)
		study.CharacteristicCategories = append(study.CharacteristicCategories, category)
	}

	for i := range src.Materials.OtherMaterials {
		material, err := l.buildOtherMaterial(src.Materials.OtherMaterials[i])
		if err != nil {
			return nil, err
		}
		assay.OtherMaterials = append(assay.OtherMaterials, material)
	}

	sequence, err := l.buildProcessSequence(src.ProcessSequence, assay)
	if err != nil {
		return nil, err
	}
	assay.ProcessSequence = sequence
	assay.Graph, err = graph.Build(sequence)
	if err != nil {
		return nil, err
	}
	return assay, nil
}

// buildProcessSequence builds one process sequence in two passes: the first
// constructs and declares every process, the second resolves the deferred
// previousProcess/nextProcess links, which may point forward in document
// order. A non-nil assay selects assay-scoped behaviour (technology-specific
// name properties, the Array Design REF special case).
func (l *Loader) buildProcessSequence(src []document.Process, assay *model.Assay) ([]*model.Process, error) {
	sequence := make([]*model.Process, 0, len(src))
	for i := range src {
		process, err := l.buildProcess(&src[i], assay)
		if err != nil {
			return nil, err
		}
		if err := l.registry.Declare(model.NamespaceProcesses, process.ID, process); err != nil {
			return nil, err
		}
		sequence = append(sequence, process)
	}

	for i := range src {
		process := sequence[i]
		if ref := src[i].PreviousProcess; ref != nil {
			previous, err := resolveAs[*model.Process](l.registry, model.NamespaceProcesses, ref.ID)
			if err != nil {
				return nil, err
			}
			process.PreviousProcess = previous
		}
		if ref := src[i].NextProcess; ref != nil {
			next, err := resolveAs[*model.Process](l.registry, model.NamespaceProcesses, ref.ID)
			if err != nil {
				return nil, err
			}
			process.NextProcess = next
		}
	}
	return sequence, nil
}

func (l *Loader) buildProcess(src *document.Process, assay *model.Assay) (*model.Process, error) {
	protocol, err := resolveAs[*model.Protocol](l.registry, model.NamespaceProtocols, src.ExecutesProtocol.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "process %q", src.ID)
	}
	process := &model.Process{
		ID:                   src.ID,
		ExecutesProtocol:     protocol,
		Performer:            src.Performer,
		Date:                 src.Date,
		AdditionalProperties: make(map[string]string),
		Comments:             buildComments(src.Comments),
	}

	if assay != nil {
		if key := assayNameProperty(protocol, assay.TechnologyType); key != "" {
			process.AdditionalProperties[key] = src.Name
		}
	}

	for i := range src.ParameterValues {
		pv := &src.ParameterValues[i]
		if assay != nil && pv.Category.ID == ArrayDesignRefParameter {
			process.AdditionalProperties["Array Design REF"] = rawString(pv.Value)
			continue
		}
		parameterValue, err := l.buildParameterValue(*pv)
		if err != nil {
			return nil, errors.Wrapf(err, "process %q", src.ID)
		}
		process.ParameterValues = append(process.ParameterValues, parameterValue)
	}

	for _, ref := range src.Inputs {
		input, err := l.resolveIO(ref, src.ID)
		if err != nil {
			return nil, err
		}
		process.Inputs = append(process.Inputs, input)
	}
	for _, ref := range src.Outputs {
		output, err := l.resolveIO(ref, src.ID)
		if err != nil {
			return nil, err
		}
		process.Outputs = append(process.Outputs, output)
	}
	return process, nil
}

// resolveIO resolves a process input or output reference, walking the
// material namespaces in their fixed priority order. A hit in more than one
// namespace is rejected: identifiers must not collide across namespaces.
func (l *Loader) resolveIO(ref document.Ref, processID string) (model.Node, error) {
	var found model.Node
	var matched []model.Namespace
	for _, ns := range model.MaterialNamespaces {
		if entity, ok := l.registry.Lookup(ns, ref.ID); ok {
			found = entity.(model.Node)
			matched = append(matched, ns)
		}
	}
	switch len(matched) {
	case 0:
		return nil, errors.Wrapf(errors.ErrUnresolvedIO,
			"%q in process %q not found in any material namespace", ref.ID, processID)
	case 1:
		return found, nil
	default:
		return nil, errors.Wrapf(errors.ErrAmbiguousIdentifier,
			"%q in process %q declared in %d namespaces", ref.ID, processID, len(matched))
	}
}

func (l *Loader) buildProtocol(src document.Protocol) (*model.Protocol, error) {
	protocolType, err := l.buildAnnotation(src.Type)
	if err != nil {
		return nil, err
	}
	protocol := &model.Protocol{
		ID:           src.ID,
		Name:         src.Name,
		URI:          src.URI,
		Description:  src.Description,
		Version:      src.Version,
		ProtocolType: protocolType,
	}
	for i := range src.Parameters {
		p := &src.Parameters[i]
		name, err := l.buildAnnotation(p.ParameterName)
		if err != nil {
			return nil, err
		}
		parameter := &model.ProtocolParameter{ID: p.ID, ParameterName: name}
		if err := l.registry.Declare(model.NamespaceProtocolParameters, p.ID, parameter); err != nil {
			return nil, err
		}
		protocol.Parameters = append(protocol.Parameters, parameter)
	}
	for i := range src.Components {
		componentType, err := l.buildAnnotation(src.Components[i].Type)
		if err != nil {
			return nil, err
		}
		protocol.Components = append(protocol.Components, model.ProtocolComponent{
			Name:          src.Components[i].Name,
			ComponentType: componentType,
		})
	}
	if err := l.registry.Declare(model.NamespaceProtocols, src.ID, protocol); err != nil {
		return nil, err
	}
	return protocol, nil
}

func (l *Loader) buildFactor(src document.Factor) (*model.StudyFactor, error) {
	factorType, err := l.buildAnnotation(src.Type)
	if err != nil {
		return nil, err
	}
	factor := &model.StudyFactor{ID: src.ID, Name: src.Name, FactorType: factorType}
	if err := l.registry.Declare(model.NamespaceStudyFactors, src.ID, factor); err != nil {
		return nil, err
	}
	return factor, nil
}

func (l *Loader) declareUnitCategories(src []document.Annotation) ([]*model.OntologyAnnotation, error) {
	units := make([]*model.OntologyAnnotation, 0, len(src))
	for i := range src {
		unit, err := l.buildAnnotation(src[i])
		if err != nil {
			return nil, err
		}
		if err := l.registry.Declare(model.NamespaceUnitCategories, src[i].ID, unit); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func (l *Loader) buildSource(src document.Source) (*model.Source, error) {
	source := &model.Source{ID: src.ID, Name: trimMaterialPrefix(src.Name)}
	for i := range src.Characteristics {
		characteristic, err := l.buildCharacteristic(src.Characteristics[i])
		if err != nil {
			return nil, errors.Wrapf(err, "source %q", src.ID)
		}
		source.Characteristics = append(source.Characteristics, characteristic)
	}
	if err := l.registry.Declare(model.NamespaceSources, src.ID, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (l *Loader) buildSample(src document.Sample) (*model.Sample, error) {
	sample := &model.Sample{ID: src.ID, Name: trimMaterialPrefix(src.Name)}
	for _, ref := range src.DerivesFrom {
		sample.DerivesFrom = append(sample.DerivesFrom, ref.ID)
	}
	for i := range src.Characteristics {
		characteristic, err := l.buildCharacteristic(src.Characteristics[i])
		if err != nil {
			return nil, errors.Wrapf(err, "sample %q", src.ID)
		}
		sample.Characteristics = append(sample.Characteristics, characteristic)
	}
	for i := range src.FactorValues {
		factorValue, err := l.buildFactorValue(src.FactorValues[i])
		if err != nil {
			return nil, errors.Wrapf(err, "sample %q", src.ID)
		}
		sample.FactorValues = append(sample.FactorValues, factorValue)
	}
	if err := l.registry.Declare(model.NamespaceSamples, src.ID, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

func (l *Loader) buildOtherMaterial(src document.OtherMaterial) (*model.Material, error) {
	material := &model.Material{
		ID:   src.ID,
		Name: trimMaterialPrefix(src.Name),
		Type: src.Type,
	}
	for i := range src.Characteristics {
		characteristic, err := l.buildCharacteristic(src.Characteristics[i])
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", src.ID)
		}
		material.Characteristics = append(material.Characteristics, characteristic)
	}
	if err := l.registry.Declare(model.NamespaceMaterials, src.ID, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (l *Loader) buildCharacteristic(src document.PropertyValue) (model.Characteristic, error) {
	category, err := resolveAs[*model.OntologyAnnotation](
		l.registry, model.NamespaceCharacteristicCategories, src.Category.ID)
	if err != nil {
		return model.Characteristic{}, err
	}
	value, err := l.resolveValue(src.Value, src.Unit)
	if err != nil {
		return model.Characteristic{}, err
	}
	return model.Characteristic{Category: category, Value: value}, nil
}

func (l *Loader) buildParameterValue(src document.PropertyValue) (model.ParameterValue, error) {
	category, err := resolveAs[*model.ProtocolParameter](
		l.registry, model.NamespaceProtocolParameters, src.Category.ID)
	if err != nil {
		return model.ParameterValue{}, err
	}
	value, err := l.resolveValue(src.Value, src.Unit)
	if err != nil {
		return model.ParameterValue{}, err
	}
	return model.ParameterValue{Category: category, Value: value}, nil
}

func (l *Loader) buildFactorValue(src document.PropertyValue) (model.FactorValue, error) {
	factor, err := resolveAs[*model.StudyFactor](
		l.registry, model.NamespaceStudyFactors, src.Category.ID)
	if err != nil {
		return model.FactorValue{}, err
	}
	value, err := l.resolveValue(src.Value, src.Unit)
	if err != nil {
		return model.FactorValue{}, err
	}
	return model.FactorValue{Factor: factor, Value: value}, nil
}

// resolveValue implements the three-way typing shared by characteristics,
// parameter values and factor values: an annotation-shaped object becomes a
// term, a number requires a unit reference, and any other scalar is kept
// raw.
func (l *Loader) resolveValue(raw json.RawMessage, unit *document.Ref) (model.Value, error) {
	if len(raw) == 0 {
		return model.RawValue(nil), nil
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return model.Value{}, errors.Wrap(err, "malformed value")
	}

	switch v := decoded.(type) {
	case map[string]interface{}:
		var wire document.Annotation
		if err := json.Unmarshal(raw, &wire); err != nil {
			return model.Value{}, errors.Wrap(err, "cannot build value as annotation")
		}
		term, err := l.buildAnnotation(wire)
		if err != nil {
			return model.Value{}, err
		}
		return model.TermValue(term), nil
	case float64:
		if unit == nil {
			return model.Value{}, errors.Wrapf(errors.ErrMissingUnit, "numeric value %v has no unit reference", v)
		}
		unitTerm, err := resolveAs[*model.OntologyAnnotation](
			l.registry, model.NamespaceUnitCategories, unit.ID)
		if err != nil {
			return model.Value{}, err
		}
		return model.QuantityValue(v, unitTerm), nil
	default:
		return model.RawValue(decoded), nil
	}
}

func (l *Loader) buildAnnotation(src document.Annotation) (*model.OntologyAnnotation, error) {
	annotation := &model.OntologyAnnotation{
		ID:            src.ID,
		Term:          src.Value,
		TermAccession: src.TermAccession,
	}
	// An empty termSource is the "no source" sentinel, not a reference.
	if src.TermSource != "" {
		source, err := resolveAs[*model.OntologySource](
			l.registry, model.NamespaceTermSources, src.TermSource)
		if err != nil {
			return nil, err
		}
		annotation.TermSource = source
	}
	return annotation, nil
}

func (l *Loader) buildPublication(src document.Publication) (model.Publication, error) {
	status, err := l.buildAnnotation(src.Status)
	if err != nil {
		return model.Publication{}, err
	}
	return model.Publication{
		PubMedID:   src.PubMedID,
		DOI:        src.DOI,
		AuthorList: src.AuthorList,
		Title:      src.Title,
		Status:     status,
		Comments:   buildComments(src.Comments),
	}, nil
}

func (l *Loader) buildPerson(src document.Person) (model.Person, error) {
	person := model.Person{
		LastName:    src.LastName,
		FirstName:   src.FirstName,
		MidInitials: src.MidInitials,
		Email:       src.Email,
		Phone:       src.Phone,
		Fax:         src.Fax,
		Address:     src.Address,
		Affiliation: src.Affiliation,
		Comments:    buildComments(src.Comments),
	}
	for i := range src.Roles {
		role, err := l.buildAnnotation(src.Roles[i])
		if err != nil {
			return model.Person{}, err
		}
		person.Roles = append(person.Roles, *role)
	}
	return person, nil
}

func buildComments(src []document.Comment) []model.Comment {
	if len(src) == 0 {
		return nil
	}
	comments := make([]model.Comment, len(src))
	for i, c := range src {
		comments[i] = model.Comment{Name: c.Name, Value: c.Value}
	}
	return comments
}

// assayNameProperty maps a protocol type to the ISA-Tab column its process
// name belongs under. Data collection names only apply to DNA microarray
// technology (Scan Name).
func assayNameProperty(protocol *model.Protocol, technologyType *model.OntologyAnnotation) string {
	if protocol == nil || protocol.ProtocolType == nil {
		return ""
	}
	switch protocol.ProtocolType.Term {
	case "data collection":
		if technologyType != nil && technologyType.Term == "DNA microarray" {
			return "Scan Name"
		}
	case "nucleic acid sequencing":
		return "Assay Name"
	case "nucleic acid hybridization":
		return "Hybridization Assay Name"
	case "data transformation":
		return "Data Transformation Name"
	case "data normalization":
		return "Normalization Name"
	}
	return ""
}

func trimMaterialPrefix(name string) string {
	for _, prefix := range materialNamePrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// rawString renders a raw JSON scalar as its string form, unquoting JSON
// strings.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
