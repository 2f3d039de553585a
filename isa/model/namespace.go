package model

// Namespace identifies a category of identifiers. An @id value is unique
// only within its declaring namespace; the same literal string may appear in
// different namespaces without collision.
type Namespace string

const (
	NamespaceTermSources              Namespace = "term sources"
	NamespaceProtocols                Namespace = "protocols"
	NamespaceProtocolParameters       Namespace = "protocol parameters"
	NamespaceStudyFactors             Namespace = "study factors"
	NamespaceCharacteristicCategories Namespace = "characteristic categories"
	NamespaceUnitCategories           Namespace = "unit categories"
	NamespaceSources                  Namespace = "sources"
	NamespaceSamples                  Namespace = "samples"
	NamespaceMaterials                Namespace = "other materials"
	NamespaceDataFiles                Namespace = "data files"
	NamespaceProcesses                Namespace = "processes"
)

// MaterialNamespaces is the fixed priority order walked when resolving
// process inputs and outputs.
var MaterialNamespaces = []Namespace{
	NamespaceSources,
	NamespaceSamples,
	NamespaceMaterials,
	NamespaceDataFiles,
}
