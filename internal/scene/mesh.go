package scene

import (
	"unsafe"

	"github.com/adinfinit/g"
)

// Vertex is a tightly packed position.
type Vertex = g.Vec3

// Triangle indexes three vertices of a mesh.
type Triangle [3]uint32

const (
	VertexSize   = int(unsafe.Sizeof(Vertex{}))
	TriangleSize = int(unsafe.Sizeof(Triangle{}))
)

// Mesh is indexed triangle geometry kept on the CPU side.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// Vertex appends v and returns its index.
func (mesh *Mesh) Vertex(v Vertex) uint32 {
	mesh.Vertices = append(mesh.Vertices, v)
	return uint32(len(mesh.Vertices) - 1)
}

func (mesh *Mesh) Triangle(a, b, c uint32) {
	mesh.Triangles = append(mesh.Triangles, Triangle{a, b, c})
}

// IndexCount is the number of indices a draw of the whole mesh uses.
func (mesh *Mesh) IndexCount() int { return 3 * len(mesh.Triangles) }

// VertexOffset is the byte offset of vertex i in the vertex buffer.
func VertexOffset(i int) int { return i * VertexSize }

// VertexBytes returns the raw bytes of vertices [first, first+count).
func (mesh *Mesh) VertexBytes(first, count int) []byte {
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[first])), count*VertexSize)
}

// IndexBytes returns the raw bytes of all triangles.
func (mesh *Mesh) IndexBytes() []byte {
	if len(mesh.Triangles) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Triangles[0])), len(mesh.Triangles)*TriangleSize)
}

// Quad is a square of side 1 centered at the origin made of two triangles.
func Quad() Mesh {
	mesh := Mesh{}
	topRight := mesh.Vertex(g.V3(0.5, 0.5, 0))
	bottomRight := mesh.Vertex(g.V3(0.5, -0.5, 0))
	bottomLeft := mesh.Vertex(g.V3(-0.5, -0.5, 0))
	topLeft := mesh.Vertex(g.V3(-0.5, 0.5, 0))

	mesh.Triangle(topRight, bottomRight, topLeft)
	mesh.Triangle(bottomRight, bottomLeft, topLeft)
	return mesh
}
