package openglhelper

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objGroup collects the triangles drawn with one material
type objGroup struct {
	name     string
	material string
	corners  []objCorner
}

// objCorner is one resolved face vertex. Indices are 0-based, -1 when absent.
type objCorner struct {
	v, vt, vn int
}

// objMaterial holds the texture maps of one MTL entry
type objMaterial struct {
	diffuse  string
	specular string
}

// parseOBJ reads Wavefront OBJ geometry and returns one meshData per
// object/material group, along with the texture files they sample. The
// diffuse and specular fields of each meshData index into the returned
// paths. openMTL resolves mtllib names; a library that cannot be read leaves
// its materials untextured.
func parseOBJ(r io.Reader, openMTL func(name string) (io.ReadCloser, error)) ([]meshData, []string, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		groups    []*objGroup
	)
	materials := make(map[string]objMaterial)
	cur := &objGroup{name: "default"}

	startGroup := func(name, material string) {
		if len(cur.corners) > 0 {
			groups = append(groups, cur)
		}
		cur = &objGroup{name: name, material: material}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			vec, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if fields[0] == "v" {
				positions = append(positions, mgl32.Vec3{vec[0], vec[1], vec[2]})
			} else {
				normals = append(normals, mgl32.Vec3{vec[0], vec[1], vec[2]})
			}
		case "vt":
			vec, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, mgl32.Vec2{vec[0], vec[1]})
		case "o", "g":
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			startGroup(name, cur.material)
		case "usemtl":
			if len(fields) > 1 && fields[1] != cur.material {
				startGroup(cur.name, fields[1])
			}
		case "mtllib":
			for _, name := range fields[1:] {
				if err := readMTL(name, openMTL, materials); err != nil {
					slog.Warn("material library skipped", "line", lineNo, "err", err)
				}
			}
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, c)
			}
			// Fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(face); i++ {
				cur.corners = append(cur.corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read obj: %w", err)
	}
	startGroup("", "")

	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("no faces found")
	}

	var paths []string
	pathIndex := make(map[string]int)
	textureIndex := func(path string) int {
		if path == "" {
			return -1
		}
		if i, ok := pathIndex[path]; ok {
			return i
		}
		pathIndex[path] = len(paths)
		paths = append(paths, path)
		return len(paths) - 1
	}

	out := make([]meshData, 0, len(groups))
	for _, g := range groups {
		md := buildOBJMesh(g, positions, normals, uvs)
		mat := materials[g.material]
		md.diffuse = textureIndex(mat.diffuse)
		md.specular = textureIndex(mat.specular)
		out = append(out, md)
	}
	return out, paths, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner resolves "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the most recent element.
func parseCorner(tok string, nv, nvt, nvn int) (objCorner, error) {
	c := objCorner{v: -1, vt: -1, vn: -1}
	parts := strings.Split(tok, "/")
	targets := []*int{&c.v, &c.vt, &c.vn}
	counts := []int{nv, nvt, nvn}

	for i, part := range parts {
		if i >= len(targets) {
			break
		}
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return c, fmt.Errorf("bad face index %q", tok)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return c, fmt.Errorf("face index %q out of range", tok)
		}
		*targets[i] = idx
	}
	if c.v < 0 {
		return c, fmt.Errorf("face vertex %q has no position", tok)
	}
	return c, nil
}

// buildOBJMesh deduplicates corners into an indexed vertex list
func buildOBJMesh(g *objGroup, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) meshData {
	md := meshData{name: g.name}
	seen := make(map[objCorner]uint32)
	missingNormals := false

	for _, c := range g.corners {
		if idx, ok := seen[c]; ok {
			md.indices = append(md.indices, idx)
			continue
		}
		v := Vertex{Position: positions[c.v]}
		if c.vn >= 0 {
			v.Normal = normals[c.vn]
		} else {
			missingNormals = true
		}
		if c.vt >= 0 {
			v.TexCoords = uvs[c.vt]
		}
		idx := uint32(len(md.vertices))
		seen[c] = idx
		md.vertices = append(md.vertices, v)
		md.indices = append(md.indices, idx)
	}

	if missingNormals {
		smoothNormals(md.vertices, md.indices)
	}
	return md
}

// smoothNormals fills in area-weighted vertex normals from the triangles
func smoothNormals(vertices []Vertex, indices []uint32) {
	sums := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[a].Position
		n := vertices[b].Position.Sub(p0).Cross(vertices[c].Position.Sub(p0))
		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}
	for i := range vertices {
		if sums[i].Len() > 0 {
			vertices[i].Normal = sums[i].Normalize()
		} else if vertices[i].Normal.Len() == 0 {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}

// readMTL adds the materials of one MTL file. Only the diffuse and specular
// maps are kept; colour terms are covered by the lighting uniforms.
func readMTL(name string, open func(string) (io.ReadCloser, error), into map[string]objMaterial) error {
	f, err := open(name)
	if err != nil {
		return fmt.Errorf("failed to open material library %s: %w", name, err)
	}
	defer f.Close()

	var current string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		// Map options such as -bm come before the file name
		file := fields[len(fields)-1]

		switch fields[0] {
		case "newmtl":
			current = fields[1]
			into[current] = objMaterial{}
		case "map_Kd":
			m := into[current]
			m.diffuse = file
			into[current] = m
		case "map_Ks":
			m := into[current]
			m.specular = file
			into[current] = m
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read material library %s: %w", name, err)
	}
	return nil
}
