package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openisa/isakit/errors"
	"github.com/openisa/isakit/isa/model"
)

func TestRegistryDeclareAndResolve(t *testing.T) {
	r := NewRegistry()
	protocol := &model.Protocol{ID: "#protocol/P1", Name: "extraction"}

	require.NoError(t, r.Declare(model.NamespaceProtocols, protocol.ID, protocol))

	entity, err := r.Resolve(model.NamespaceProtocols, "#protocol/P1")
	require.NoError(t, err)
	assert.Same(t, protocol, entity)
	assert.Equal(t, 1, r.Len(model.NamespaceProtocols))
}

func TestRegistryDuplicateDeclaration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(model.NamespaceSamples, "#sample/1", &model.Sample{ID: "#sample/1"}))

	err := r.Declare(model.NamespaceSamples, "#sample/1", &model.Sample{ID: "#sample/1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicateIdentifier))
}

func TestRegistrySameIDAcrossNamespaces(t *testing.T) {
	// The same identifier may be declared in two different namespaces;
	// only redeclaration within one namespace is rejected.
	r := NewRegistry()
	require.NoError(t, r.Declare(model.NamespaceSources, "#material/1", &model.Source{ID: "#material/1"}))
	require.NoError(t, r.Declare(model.NamespaceSamples, "#material/1", &model.Sample{ID: "#material/1"}))
}

func TestRegistryUnresolvedReference(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(model.NamespaceStudyFactors, "#factor/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvedReference))
	assert.Contains(t, err.Error(), "#factor/missing")

	_, ok := r.Lookup(model.NamespaceStudyFactors, "#factor/missing")
	assert.False(t, ok)
}

func TestResolveAsTypeMismatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(model.NamespaceProtocols, "#protocol/P1", &model.Sample{ID: "#protocol/P1"}))

	_, err := resolveAs[*model.Protocol](r, model.NamespaceProtocols, "#protocol/P1")
	require.Error(t, err)
}

func TestRegistryDeclaredIDs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(model.NamespaceTermSources, "OBI", &model.OntologySource{Name: "OBI"}))
	require.NoError(t, r.Declare(model.NamespaceSources, "#source/1", &model.Source{ID: "#source/1"}))
	require.NoError(t, r.Declare(model.NamespaceProcesses, "#process/1", &model.Process{ID: "#process/1"}))

	ids := r.DeclaredIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "#source/1")
	assert.Contains(t, ids, "#process/1")
	assert.NotContains(t, ids, "OBI")
}
