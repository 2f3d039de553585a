package loader

import (
	"github.com/openisa/isakit/errors"
	"github.com/openisa/isakit/isa/model"
)

// Registry maps declared identifiers to resolved entities, one map per
// namespace. It is write-once per identifier and exclusively owned by the
// loader during construction: a scaffold, not a runtime index.
type Registry struct {
	entries map[model.Namespace]map[string]interface{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[model.Namespace]map[string]interface{}),
	}
}

// Declare records an entity under its identifier. Redeclaration of the same
// identifier within a namespace indicates a malformed document and fails
// with ErrDuplicateIdentifier.
func (r *Registry) Declare(ns model.Namespace, id string, entity interface{}) error {
	bucket, ok := r.entries[ns]
	if !ok {
		bucket = make(map[string]interface{})
		r.entries[ns] = bucket
	}
	if _, exists := bucket[id]; exists {
		return errors.NewDuplicateIdentifier(string(ns), id)
	}
	bucket[id] = entity
	return nil
}

// Resolve returns the entity declared under id in ns, failing with
// ErrUnresolvedReference if the namespace has no entry for it.
func (r *Registry) Resolve(ns model.Namespace, id string) (interface{}, error) {
	if entity, ok := r.entries[ns][id]; ok {
		return entity, nil
	}
	return nil, errors.NewUnresolvedReference(string(ns), id)
}

// Lookup returns the entity declared under id in ns, if any.
func (r *Registry) Lookup(ns model.Namespace, id string) (interface{}, bool) {
	entity, ok := r.entries[ns][id]
	return entity, ok
}

// Len returns the number of declarations in ns.
func (r *Registry) Len(ns model.Namespace) int {
	return len(r.entries[ns])
}

// DeclaredIDs returns the set of identifiers declared across all @id-keyed
// namespaces. Term sources are excluded: they are keyed by name, not @id.
func (r *Registry) DeclaredIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for ns, bucket := range r.entries {
		if ns == model.NamespaceTermSources {
			continue
		}
		for id := range bucket {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// resolveAs resolves id in ns and asserts the entity's concrete type.
func resolveAs[T any](r *Registry, ns model.Namespace, id string) (T, error) {
	var zero T
	entity, err := r.Resolve(ns, id)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, errors.AssertionFailedf("entity %q in namespace %s has unexpected type %T", id, ns, entity)
	}
	return typed, nil
}
