package tool

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTool(name string) *Tool {
	return MustNew(Descriptor{
		Name:        name,
		Description: "Test tool " + name,
		Category:    "test",
	}, func(ctx context.Context, args map[string]interface{}, ec *ExecutionContext) (interface{}, error) {
		return name, nil
	})
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	err := reg.RegisterTool(newTestTool("alpha"))
	require.NoError(t, err)

	assert.True(t, reg.Has("alpha"))
	assert.Equal(t, 1, reg.Count())

	desc, impl, err := reg.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", desc.Name)
	assert.NotNil(t, impl)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))

	err := reg.RegisterTool(newTestTool("alpha"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// The prior registration stays intact.
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_Register_Replace(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))
	require.NoError(t, reg.RegisterTool(newTestTool("beta")))

	replacement := MustNew(Descriptor{
		Name:        "alpha",
		Description: "Replacement",
	}, func(ctx context.Context, args map[string]interface{}, ec *ExecutionContext) (interface{}, error) {
		return "v2", nil
	})
	require.NoError(t, reg.RegisterTool(replacement, WithReplace()))

	desc, _, err := reg.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, "Replacement", desc.Description)

	// Replacement keeps the original listing position.
	names := []string{}
	for _, d := range reg.List("") {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))

	require.NoError(t, reg.Unregister("alpha"))
	assert.False(t, reg.Has("alpha"))

	err := reg.Unregister("alpha")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	reg := NewRegistry()

	_, _, err := reg.Lookup("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_List_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.RegisterTool(newTestTool(name)))
	}

	names := []string{}
	for _, d := range reg.List("") {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestRegistry_List_CategoryFilter(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))
	require.NoError(t, reg.Register(Descriptor{
		Name:        "other",
		Description: "Uncategorized tool",
	}, newTestTool("other")))

	assert.Len(t, reg.List("test"), 1)
	assert.Len(t, reg.List(""), 2)
	assert.Empty(t, reg.List("missing"))
}

func TestRegistry_ExportSchemas(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("beta")))
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))

	schemas := reg.ExportSchemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "beta", schemas[0].Name)
	assert.Equal(t, "alpha", schemas[1].Name)
	assert.Equal(t, "object", schemas[0].InputSchema["type"])
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(newTestTool("alpha")))

	reg.Reset()
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("tool%d", n)
			assert.NoError(t, reg.RegisterTool(newTestTool(name)))
			_, _, err := reg.Lookup(name)
			assert.NoError(t, err)
			reg.ExportSchemas()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, reg.Count())
}
