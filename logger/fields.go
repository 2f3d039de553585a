package logger

// Standard field names for consistent structured logging across isakit.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Documents and containers
	FieldFile          = "file"
	FieldInvestigation = "investigation"
	FieldStudy         = "study"
	FieldAssay         = "assay"

	// Identifier resolution
	FieldNamespace  = "namespace"
	FieldIdentifier = "identifier"
	FieldProcess    = "process"

	// Graphs
	FieldNodeCount = "node_count"
	FieldEdgeCount = "edge_count"

	// Validation
	FieldRunID    = "run_id"
	FieldSeverity = "severity"
	FieldCategory = "category"
	FieldCount    = "count"

	// Errors
	FieldError = "error"

	// Timing
	FieldDurationMS = "duration_ms"
)
