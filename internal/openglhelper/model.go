package openglhelper

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Model is a drawable set of meshes imported from a Wavefront OBJ or glTF 2.0
// file. glTF node transforms are baked into the vertices at load time.
type Model struct {
	meshes   []*Mesh
	textures []*Texture
}

// meshData is the CPU side of one mesh ready for upload
type meshData struct {
	name     string
	vertices []Vertex
	indices  []uint32
	diffuse  int // texture index in the source file, -1 when absent
	specular int
}

// LoadModel imports a .obj (with its .mtl) or a .gltf/.glb file and uploads
// its meshes and textures. The format is chosen by extension.
func LoadModel(path string) (*Model, error) {
	var (
		data    []meshData
		texture func(index int) (*Texture, error)
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		data, texture, err = importOBJ(path)
	case ".gltf", ".glb":
		data, texture, err = importGLTF(path)
	default:
		err = fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to import model %s: %w", path, err)
	}

	model := buildModel(path, data, texture)
	slog.Info("model loaded", "path", path, "meshes", len(model.meshes), "textures", len(model.textures))
	return model, nil
}

func importOBJ(path string) ([]meshData, func(int) (*Texture, error), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	data, paths, err := parseOBJ(f, func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	})
	if err != nil {
		return nil, nil, err
	}

	// OBJ puts the UV origin at the bottom-left, so images are flipped
	texture := func(index int) (*Texture, error) {
		return LoadTexture(filepath.Join(dir, paths[index]), Repeat)
	}
	return data, texture, nil
}

func importGLTF(path string) ([]meshData, func(int) (*Texture, error), error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := meshesFromDocument(doc)
	if err != nil {
		return nil, nil, err
	}
	texture := func(index int) (*Texture, error) {
		return loadDocumentTexture(doc, filepath.Dir(path), index)
	}
	return data, texture, nil
}

// buildModel uploads every mesh, loading each texture once and falling back
// to white diffuse and black specular maps.
func buildModel(path string, data []meshData, texture func(index int) (*Texture, error)) *Model {
	model := &Model{}
	cache := make(map[int]*Texture)
	var white, black *Texture

	loadTex := func(index int, fallback **Texture, r, g, b uint8) *Texture {
		if index >= 0 {
			if tex, ok := cache[index]; ok {
				return tex
			}
			tex, err := texture(index)
			if err == nil {
				cache[index] = tex
				model.textures = append(model.textures, tex)
				return tex
			}
			slog.Warn("model texture unavailable, using fallback", "model", path, "texture", index, "err", err)
		}
		if *fallback == nil {
			*fallback = SolidTexture(r, g, b, 255)
			model.textures = append(model.textures, *fallback)
		}
		return *fallback
	}

	for _, md := range data {
		textures := []MaterialTexture{
			{Texture: loadTex(md.diffuse, &white, 255, 255, 255), Kind: DiffuseTexture},
			{Texture: loadTex(md.specular, &black, 0, 0, 0), Kind: SpecularTexture},
		}
		model.meshes = append(model.meshes, NewMesh(md.vertices, md.indices, textures))
	}
	return model
}

// Draw renders every mesh of the model with the bound program
func (m *Model) Draw(program SamplerSetter) {
	for _, mesh := range m.meshes {
		mesh.Draw(program)
	}
}

// Delete releases all meshes and textures
func (m *Model) Delete() {
	for _, mesh := range m.meshes {
		mesh.Delete()
	}
	for _, tex := range m.textures {
		tex.Delete()
	}
	m.meshes, m.textures = nil, nil
}

// meshesFromDocument walks the default scene (or every parentless node when
// there is none) and returns one meshData per triangle primitive instance.
func meshesFromDocument(doc *gltf.Document) ([]meshData, error) {
	var roots []int
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		hasParent := make([]bool, len(doc.Nodes))
		for _, node := range doc.Nodes {
			for _, child := range node.Children {
				if child < len(hasParent) {
					hasParent[child] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}

	var out []meshData
	visited := make(map[int]bool)

	var walk func(index int, parent mgl32.Mat4) error
	walk = func(index int, parent mgl32.Mat4) error {
		if index >= len(doc.Nodes) || visited[index] {
			return nil
		}
		visited[index] = true
		defer delete(visited, index)

		node := doc.Nodes[index]
		world := parent.Mul4(nodeTransform(node))

		if node.Mesh != nil && *node.Mesh < len(doc.Meshes) {
			meshes, err := primitivesOf(doc, *node.Mesh, world)
			if err != nil {
				return err
			}
			out = append(out, meshes...)
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}

	// Files with meshes but no nodes still get drawn untransformed
	if len(doc.Nodes) == 0 {
		for i := range doc.Meshes {
			meshes, err := primitivesOf(doc, i, mgl32.Ident4())
			if err != nil {
				return nil, err
			}
			out = append(out, meshes...)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no triangle meshes found")
	}
	return out, nil
}

func nodeTransform(node *gltf.Node) mgl32.Mat4 {
	matrix := node.MatrixOrDefault()
	var m mgl32.Mat4
	identity := true
	for i, v := range matrix {
		m[i] = float32(v)
		if (i%5 == 0 && v != 1) || (i%5 != 0 && v != 0) {
			identity = false
		}
	}
	if !identity {
		return m
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rotation := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}

	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func primitivesOf(doc *gltf.Document, meshIndex int, world mgl32.Mat4) ([]meshData, error) {
	mesh := doc.Meshes[meshIndex]
	normalMatrix := world.Mat3().Inv().Transpose()

	var out []meshData
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, fmt.Errorf("mesh %d primitive %d: no POSITION attribute", meshIndex, pi)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d positions: %w", meshIndex, pi, err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes["NORMAL"]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d normals: %w", meshIndex, pi, err)
			}
		}
		var uvs [][2]float32
		if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d uvs: %w", meshIndex, pi, err)
			}
		}

		vertices := make([]Vertex, len(positions))
		for i, p := range positions {
			v := Vertex{
				Position: world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3(),
				Normal:   mgl32.Vec3{0, 1, 0},
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = normalMatrix.Mul3x1(mgl32.Vec3{n[0], n[1], n[2]}).Normalize()
			}
			if i < len(uvs) {
				v.TexCoords = mgl32.Vec2{uvs[i][0], uvs[i][1]}
			}
			vertices[i] = v
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d indices: %w", meshIndex, pi, err)
			}
		} else {
			indices = make([]uint32, len(vertices))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		md := meshData{
			name:     fmt.Sprintf("%s#%d", mesh.Name, pi),
			vertices: vertices,
			indices:  indices,
			diffuse:  -1,
			specular: -1,
		}
		if prim.Material != nil && *prim.Material < len(doc.Materials) {
			if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
				if pbr.BaseColorTexture != nil {
					md.diffuse = pbr.BaseColorTexture.Index
				}
				if pbr.MetallicRoughnessTexture != nil {
					md.specular = pbr.MetallicRoughnessTexture.Index
				}
			}
		}
		out = append(out, md)
	}
	return out, nil
}

// loadDocumentTexture resolves a glTF texture from a buffer view, a data URI
// or a file next to the model. glTF puts the UV origin at the top-left, so
// images are not flipped.
func loadDocumentTexture(doc *gltf.Document, dir string, index int) (*Texture, error) {
	if index >= len(doc.Textures) || doc.Textures[index].Source == nil {
		return nil, fmt.Errorf("texture %d has no image", index)
	}
	img := doc.Images[*doc.Textures[index].Source]

	var raw []byte
	var err error
	switch {
	case img.BufferView != nil:
		raw, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		raw, err = img.MarshalData()
	case img.URI != "":
		raw, err = os.ReadFile(filepath.Join(dir, img.URI))
	default:
		err = fmt.Errorf("image has no data")
	}
	if err != nil {
		return nil, err
	}

	return LoadTextureBytes(raw, Repeat, false)
}
