package registry

import (
	"errors"
	"testing"

	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/stretchr/testify/require"
)

type nopSimplifier struct{}

func (nopSimplifier) Simplify(in, out *scene.Mesh, quality float32) { *out = *in.Clone() }

type nopBatcher struct{}

func (nopBatcher) Batch(*scene.Object) task.Task { return task.Done }

func TestRegistryLookups(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterSimplifier("b", func() MeshSimplifier { return nopSimplifier{} }))
	require.NoError(t, r.RegisterSimplifier("a", func() MeshSimplifier { return nopSimplifier{} }))
	require.NoError(t, r.RegisterBatcher("nop", func() Batcher { return nopBatcher{} }))

	require.Equal(t, []string{"a", "b"}, r.SimplifierIDs())
	require.Equal(t, []string{"nop"}, r.BatcherIDs())

	s, err := r.Simplifier("a")
	require.NoError(t, err)
	require.IsType(t, nopSimplifier{}, s)

	b, err := r.Batcher("nop")
	require.NoError(t, err)
	require.IsType(t, nopBatcher{}, b)
}

func TestRegistryErrors(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterBatcher("nop", func() Batcher { return nopBatcher{} }))

	err := r.RegisterBatcher("nop", func() Batcher { return nopBatcher{} })
	require.True(t, errors.Is(err, ErrDuplicateID), "got %v", err)

	_, err = r.Simplifier("missing")
	require.True(t, errors.Is(err, ErrUnknownSimplifier), "got %v", err)

	_, err = r.Batcher("missing")
	require.True(t, errors.Is(err, ErrUnknownBatcher), "got %v", err)
}
