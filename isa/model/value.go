package model

// Value is the tagged union behind characteristics, parameter values and
// factor values. Exactly one of the three arms is set: an ontology term, a
// unit-bearing quantity, or a plain scalar.
type Value struct {
	Term     *OntologyAnnotation `json:"term,omitempty"`
	Quantity *Quantity           `json:"quantity,omitempty"`
	Raw      interface{}         `json:"raw,omitempty"`
}

// Quantity is a numeric value paired with its unit category.
type Quantity struct {
	Value float64             `json:"value"`
	Unit  *OntologyAnnotation `json:"unit"`
}

// IsTerm reports whether the value is an ontology term.
func (v Value) IsTerm() bool { return v.Term != nil }

// IsQuantity reports whether the value is a unit-bearing number.
func (v Value) IsQuantity() bool { return v.Quantity != nil }

// TermValue builds a Value holding an ontology term.
func TermValue(term *OntologyAnnotation) Value {
	return Value{Term: term}
}

// QuantityValue builds a Value holding a unit-bearing number.
func QuantityValue(number float64, unit *OntologyAnnotation) Value {
	return Value{Quantity: &Quantity{Value: number, Unit: unit}}
}

// RawValue builds a Value holding a plain scalar.
func RawValue(raw interface{}) Value {
	return Value{Raw: raw}
}

// Characteristic is a typed property attached to a material.
type Characteristic struct {
	Category *OntologyAnnotation `json:"category"`
	Value    Value               `json:"value"`
}

// ParameterValue is a typed property attached to a process, keyed by a
// protocol parameter.
type ParameterValue struct {
	Category *ProtocolParameter `json:"category"`
	Value    Value              `json:"value"`
}

// FactorValue is a typed property attached to a sample, keyed by a study
// factor.
type FactorValue struct {
	Factor *StudyFactor `json:"category"`
	Value  Value        `json:"value"`
}
