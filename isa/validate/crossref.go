package validate

import (
	"fmt"
	"sort"

	"github.com/openisa/isakit/isa/document"
	"github.com/openisa/isakit/isa/loader"
	"github.com/openisa/isakit/isa/walker"
)

type stringSet map[string]struct{}

func (s stringSet) add(v string)      { s[v] = struct{}{} }
func (s stringSet) has(v string) bool { _, ok := s[v]; return ok }

// minus returns s − other, sorted for deterministic diagnostics.
func (s stringSet) minus(other stringSet) []string {
	var diff []string
	for v := range s {
		if !other.has(v) {
			diff = append(diff, v)
		}
	}
	sort.Strings(diff)
	return diff
}

// CheckCrossReferences reconciles declared and used identifiers across
// every namespace category. Each category is checked independently: a
// reference to an undeclared identifier is an error, a declaration that is
// never referenced is a warning, and no category's diagnostics suppress
// another's. The check is purely additive and never halts processing.
func CheckCrossReferences(doc *document.Document, raw interface{}, r *Report) {
	usage := walker.Collect(raw)
	checkObjectReferences(usage, r)
	checkTermSources(doc, usage, r)

	for i := range doc.Studies {
		study := &doc.Studies[i]
		label := studyLabel(i, study)
		checkProtocolUsage(study, label, r)
		checkParameterUsage(study, label, r)
		checkFactorUsage(study, label, r)
		checkCharacteristicCategoryUsage(study, label, r)
		checkUnitCategoryUsage(study, label, r)
		checkMaterialIO(study, label, r)
		checkProcessLinks(study, label, r)
	}
}

func studyLabel(index int, study *document.Study) string {
	if study.Identifier != "" {
		return study.Identifier
	}
	return fmt.Sprintf("study #%d", index+1)
}

// checkObjectReferences is the global direction of the check: every bare
// {"@id"} usage anywhere in the tree must have a declaration somewhere.
// The empty identifier and the reserved array-design parameter are
// sentinels, not references.
func checkObjectReferences(usage *walker.Usage, r *Report) {
	var unresolved []string
	for id := range usage.References {
		if id == "" || id == loader.ArrayDesignRefParameter {
			continue
		}
		if _, declared := usage.Declarations[id]; !declared {
			unresolved = append(unresolved, id)
		}
	}
	sort.Strings(unresolved)
	for _, id := range unresolved {
		r.Errorf("reference %q not declared anywhere", id)
	}
}

func checkTermSources(doc *document.Document, usage *walker.Usage, r *Report) {
	declared := stringSet{}
	for i := range doc.OntologySources {
		if doc.OntologySources[i].Name != "" {
			declared.add(doc.OntologySources[i].Name)
		}
	}

	for _, annotation := range usage.Annotations {
		if annotation.TermSource != "" && !declared.has(annotation.TermSource) {
			r.Errorf("annotation %q references term source %q that has not been declared",
				annotation.Term, annotation.TermSource)
		}
		if annotation.TermAccession != "" && annotation.TermSource == "" {
			r.Warnf("annotation %q carries term accession %q without a term source",
				annotation.Term, annotation.TermAccession)
		}
	}

	used := stringSet{}
	for source := range usage.TermSources {
		used.add(source)
	}
	for _, name := range declared.minus(used) {
		r.Warnf("term source %q declared but never referenced", name)
	}
}

func checkProtocolUsage(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.Protocols {
		declared.add(study.Protocols[i].ID)
	}
	used := stringSet{}
	forEachProcess(study, func(process *document.Process) {
		if process.ExecutesProtocol.ID != "" {
			used.add(process.ExecutesProtocol.ID)
		}
	})

	for _, id := range used.minus(declared) {
		r.Errorf("protocol %q used in a process of %s but never declared", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("protocol %q declared in %s but never used in any process", id, label)
	}
}

func checkParameterUsage(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.Protocols {
		for j := range study.Protocols[i].Parameters {
			declared.add(study.Protocols[i].Parameters[j].ID)
		}
	}
	used := stringSet{}
	forEachProcess(study, func(process *document.Process) {
		for i := range process.ParameterValues {
			used.add(process.ParameterValues[i].Category.ID)
		}
	})

	for _, id := range used.minus(declared) {
		if id == "" || id == loader.ArrayDesignRefParameter {
			continue
		}
		r.Errorf("protocol parameter %q used in a process of %s but never declared", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("protocol parameter %q declared in %s but never used in any process", id, label)
	}
}

func checkFactorUsage(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.Factors {
		declared.add(study.Factors[i].ID)
	}
	used := stringSet{}
	for i := range study.Materials.Samples {
		for j := range study.Materials.Samples[i].FactorValues {
			used.add(study.Materials.Samples[i].FactorValues[j].Category.ID)
		}
	}

	for _, id := range used.minus(declared) {
		r.Errorf("study factor %q used in a sample factor value of %s but never declared", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("study factor %q declared in %s but never used in any sample factor value", id, label)
	}
}

func checkCharacteristicCategoryUsage(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.CharacteristicCategories {
		declared.add(study.CharacteristicCategories[i].ID)
	}
	used := stringSet{}
	for i := range study.Materials.Sources {
		for j := range study.Materials.Sources[i].Characteristics {
			used.add(study.Materials.Sources[i].Characteristics[j].Category.ID)
		}
	}
	for i := range study.Materials.Samples {
		for j := range study.Materials.Samples[i].Characteristics {
			used.add(study.Materials.Samples[i].Characteristics[j].Category.ID)
		}
	}

	for _, id := range used.minus(declared) {
		r.Errorf("characteristic category %q used in a material of %s but never declared", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("characteristic category %q declared in %s but never used in any material", id, label)
	}

	for i := range study.Assays {
		assay := &study.Assays[i]
		assayDeclared := stringSet{}
		for j := range assay.CharacteristicCategories {
			assayDeclared.add(assay.CharacteristicCategories[j].ID)
		}
		assayUsed := stringSet{}
		for j := range assay.Materials.OtherMaterials {
			for k := range assay.Materials.OtherMaterials[j].Characteristics {
				assayUsed.add(assay.Materials.OtherMaterials[j].Characteristics[k].Category.ID)
			}
		}
		for _, id := range assayUsed.minus(assayDeclared) {
			// A category used at assay level may be declared at study
			// level; only an identifier declared nowhere is an error.
			if declared.has(id) {
				continue
			}
			r.Errorf("characteristic category %q used in assay %q but never declared", id, assay.Filename)
		}
		for _, id := range assayDeclared.minus(assayUsed) {
			r.Warnf("characteristic category %q declared in assay %q but never used in any material", id, assay.Filename)
		}
	}
}

func checkUnitCategoryUsage(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.UnitCategories {
		declared.add(study.UnitCategories[i].ID)
	}
	for i := range study.Assays {
		for j := range study.Assays[i].UnitCategories {
			declared.add(study.Assays[i].UnitCategories[j].ID)
		}
	}

	used := stringSet{}
	addUnits := func(values []document.PropertyValue) {
		for i := range values {
			if values[i].Unit != nil {
				used.add(values[i].Unit.ID)
			}
		}
	}
	for i := range study.Materials.Sources {
		addUnits(study.Materials.Sources[i].Characteristics)
	}
	for i := range study.Materials.Samples {
		addUnits(study.Materials.Samples[i].Characteristics)
		addUnits(study.Materials.Samples[i].FactorValues)
	}
	forEachProcess(study, func(process *document.Process) {
		addUnits(process.ParameterValues)
	})
	for i := range study.Assays {
		for j := range study.Assays[i].Materials.OtherMaterials {
			addUnits(study.Assays[i].Materials.OtherMaterials[j].Characteristics)
		}
	}

	for _, id := range used.minus(declared) {
		r.Errorf("unit %q used in a material or parameter value of %s but never declared", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("unit %q declared in %s but never used in any material or parameter value", id, label)
	}
}

// checkMaterialIO reconciles declared materials against process
// inputs/outputs: every input/output must name a declared source, sample,
// material or data file, and every declared material should appear in the
// flow.
func checkMaterialIO(study *document.Study, label string, r *Report) {
	declared := stringSet{}
	for i := range study.Materials.Sources {
		declared.add(study.Materials.Sources[i].ID)
	}
	for i := range study.Materials.Samples {
		declared.add(study.Materials.Samples[i].ID)
	}
	for i := range study.Assays {
		for j := range study.Assays[i].Materials.OtherMaterials {
			declared.add(study.Assays[i].Materials.OtherMaterials[j].ID)
		}
		for j := range study.Assays[i].DataFiles {
			declared.add(study.Assays[i].DataFiles[j].ID)
		}
	}

	used := stringSet{}
	forEachProcess(study, func(process *document.Process) {
		for _, ref := range process.Inputs {
			used.add(ref.ID)
		}
		for _, ref := range process.Outputs {
			used.add(ref.ID)
		}
	})

	for _, id := range used.minus(declared) {
		r.Errorf("input/output %q in %s not declared as a source, sample, material or data file", id, label)
	}
	for _, id := range declared.minus(used) {
		r.Warnf("material %q declared in %s but never used as a process input or output", id, label)
	}
}

// checkProcessLinks verifies that previousProcess/nextProcess links stay
// within their own process sequence.
func checkProcessLinks(study *document.Study, label string, r *Report) {
	checkSequence := func(sequence []document.Process, where string) {
		ids := stringSet{}
		for i := range sequence {
			ids.add(sequence[i].ID)
		}
		for i := range sequence {
			process := &sequence[i]
			if process.PreviousProcess != nil && !ids.has(process.PreviousProcess.ID) {
				r.Errorf("previousProcess link %q in process %q does not refer to another process in %s",
					process.PreviousProcess.ID, process.ID, where)
			}
			if process.NextProcess != nil && !ids.has(process.NextProcess.ID) {
				r.Errorf("nextProcess link %q in process %q does not refer to another process in %s",
					process.NextProcess.ID, process.ID, where)
			}
		}
	}

	checkSequence(study.ProcessSequence, label)
	for i := range study.Assays {
		checkSequence(study.Assays[i].ProcessSequence, fmt.Sprintf("assay %q", study.Assays[i].Filename))
	}
}

func forEachProcess(study *document.Study, fn func(*document.Process)) {
	for i := range study.ProcessSequence {
		fn(&study.ProcessSequence[i])
	}
	for i := range study.Assays {
		for j := range study.Assays[i].ProcessSequence {
			fn(&study.Assays[i].ProcessSequence[j])
		}
	}
}
