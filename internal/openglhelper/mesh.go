package openglhelper

import (
	"strconv"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute locations shared by every shader in the sandbox
const (
	PositionAttrib uint32 = 0
	NormalAttrib   uint32 = 1
	TexCoordAttrib uint32 = 2
)

// Attribute describes one float attribute in an interleaved vertex
type Attribute struct {
	Index uint32
	Size  int32 // number of float32 components
}

// StandardLayout is position (3), normal (3), texture coordinates (2)
var StandardLayout = []Attribute{
	{Index: PositionAttrib, Size: 3},
	{Index: NormalAttrib, Size: 3},
	{Index: TexCoordAttrib, Size: 2},
}

// attribOffsets returns the vertex stride and the byte offset of each attribute
func attribOffsets(attribs []Attribute) (stride int32, offsets []int) {
	offsets = make([]int, len(attribs))
	for i, a := range attribs {
		offsets[i] = int(stride)
		stride += a.Size * 4
	}
	return stride, offsets
}

// Geometry is a non-indexed vertex array drawn as triangles
type Geometry struct {
	vao         *VertexArrayObject
	vbo         *BufferObject
	vertexCount int32
}

// NewGeometry uploads interleaved vertices described by attribs
func NewGeometry(vertices []float32, attribs ...Attribute) *Geometry {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(vertices, StaticDraw)

	stride, offsets := attribOffsets(attribs)
	for i, a := range attribs {
		vao.SetVertexAttribPointer(a.Index, a.Size, gl.FLOAT, false, stride, offsets[i])
	}

	vao.Unbind()

	return &Geometry{
		vao:         vao,
		vbo:         vbo,
		vertexCount: int32(len(vertices)) / (stride / 4),
	}
}

// Draw renders the geometry with the currently bound program
func (g *Geometry) Draw() {
	g.vao.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, g.vertexCount)
	g.vao.Unbind()
}

// Delete releases all resources
func (g *Geometry) Delete() {
	g.vao.Delete()
	g.vbo.Delete()
}

// Vertex represents a 3D vertex with position, normal, and texture coordinates
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
}

// interleave flattens vertices into StandardLayout order
func interleave(vertices []Vertex) []float32 {
	data := make([]float32, 0, len(vertices)*8)
	for _, v := range vertices {
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoords[0], v.TexCoords[1],
		)
	}
	return data
}

// TextureKind names the sampler family a material texture binds to
type TextureKind string

const (
	DiffuseTexture  TextureKind = "texture_diffuse"
	SpecularTexture TextureKind = "texture_specular"
)

// MaterialTexture is a texture bound to a mesh under a sampler family
type MaterialTexture struct {
	Texture *Texture
	Kind    TextureKind
}

// SamplerSetter is the part of a shader program a mesh needs to bind its
// samplers. *Shader implements it.
type SamplerSetter interface {
	SetInt(name string, value int32)
}

// Mesh represents an indexed 3D mesh with its material textures
type Mesh struct {
	vao      *VertexArrayObject
	vbo      *BufferObject
	ebo      *BufferObject
	indices  int32
	textures []MaterialTexture
}

// NewMesh creates a new mesh from vertices and indices
func NewMesh(vertices []Vertex, indices []uint32, textures []MaterialTexture) *Mesh {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(interleave(vertices), StaticDraw)
	ebo := NewEBO(indices, StaticDraw)

	stride, offsets := attribOffsets(StandardLayout)
	for i, a := range StandardLayout {
		vao.SetVertexAttribPointer(a.Index, a.Size, gl.FLOAT, false, stride, offsets[i])
	}

	vao.Unbind()

	return &Mesh{
		vao:      vao,
		vbo:      vbo,
		ebo:      ebo,
		indices:  int32(len(indices)),
		textures: textures,
	}
}

// samplerNames assigns material.texture_diffuseN / texture_specularN names
// in binding order, counting each kind from 1.
func samplerNames(textures []MaterialTexture) []string {
	counts := make(map[TextureKind]int)
	names := make([]string, len(textures))
	for i, t := range textures {
		counts[t.Kind]++
		names[i] = "material." + string(t.Kind) + strconv.Itoa(counts[t.Kind])
	}
	return names
}

// Draw binds the material textures to consecutive units and renders the mesh
func (m *Mesh) Draw(program SamplerSetter) {
	for i, name := range samplerNames(m.textures) {
		m.textures[i].Texture.Bind(uint32(i))
		program.SetInt(name, int32(i))
	}

	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, m.indices, gl.UNSIGNED_INT, nil)
	m.vao.Unbind()
	gl.ActiveTexture(gl.TEXTURE0)
}

// Delete releases all resources. Textures are owned by the model.
func (m *Mesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}

// CubeVertices returns a unit cube centred on the origin as 36 vertices in
// StandardLayout, suitable for NewGeometry.
func CubeVertices() []float32 {
	return []float32{
		// Back face
		-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 0.0,
		0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 1.0,
		0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 1.0,
		-0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 1.0,
		-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 0.0,

		// Front face
		-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0,
		0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 0.0,
		0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
		0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
		-0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 1.0,
		-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0,

		// Left face
		-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 0.0,
		-0.5, 0.5, -0.5, -1.0, 0.0, 0.0, 1.0, 1.0,
		-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 1.0,
		-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 1.0,
		-0.5, -0.5, 0.5, -1.0, 0.0, 0.0, 0.0, 0.0,
		-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 0.0,

		// Right face
		0.5, 0.5, 0.5, 1.0, 0.0, 0.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 1.0, 0.0, 0.0, 1.0, 1.0,
		0.5, -0.5, -0.5, 1.0, 0.0, 0.0, 0.0, 1.0,
		0.5, -0.5, -0.5, 1.0, 0.0, 0.0, 0.0, 1.0,
		0.5, -0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 0.0,
		0.5, 0.5, 0.5, 1.0, 0.0, 0.0, 1.0, 0.0,

		// Bottom face
		-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 0.0, 1.0,
		0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 1.0, 1.0,
		0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 1.0, 0.0,
		0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 1.0, 0.0,
		-0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 0.0, 0.0,
		-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 0.0, 1.0,

		// Top face
		-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
		0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 1.0, 1.0,
		0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
		0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
		-0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 0.0,
		-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
	}
}
