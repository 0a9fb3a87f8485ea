package scene_test

import (
	"testing"

	"github.com/adinfinit/g"
	"github.com/stretchr/testify/require"

	"github.com/adinfinit/quad/internal/scene"
)

func TestQuad(t *testing.T) {
	quad := scene.Quad()

	require.Equal(t, []scene.Vertex{
		g.V3(0.5, 0.5, 0),
		g.V3(0.5, -0.5, 0),
		g.V3(-0.5, -0.5, 0),
		g.V3(-0.5, 0.5, 0),
	}, quad.Vertices)
	require.Equal(t, []scene.Triangle{{0, 1, 3}, {1, 2, 3}}, quad.Triangles)
	require.Equal(t, 6, quad.IndexCount())
}

func TestMeshBytes(t *testing.T) {
	require.Equal(t, 12, scene.VertexSize)
	require.Equal(t, 12, scene.TriangleSize)
	require.Equal(t, 24, scene.VertexOffset(2))

	quad := scene.Quad()
	require.Len(t, quad.VertexBytes(0, 4), 4*scene.VertexSize)
	require.Len(t, quad.VertexBytes(2, 1), scene.VertexSize)
	require.Equal(t, quad.VertexBytes(0, 4)[24:36], quad.VertexBytes(2, 1))
	require.Len(t, quad.IndexBytes(), 2*scene.TriangleSize)

	empty := scene.Mesh{}
	require.Nil(t, empty.IndexBytes())
	require.Nil(t, empty.VertexBytes(0, 0))
}
