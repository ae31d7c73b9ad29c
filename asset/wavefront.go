package asset

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
)

var (
	ErrMalformedWavefront = errors.New("wavefront: malformed input")
)

// WavefrontObject is a named mesh read from a wavefront file. The mesh has
// one submesh per material, in the order the materials were first used.
type WavefrontObject struct {
	Name      string
	Mesh      *scene.Mesh
	Materials []string
}

type faceVertex struct {
	v, vt, vn int
}

type wavefrontBuilder struct {
	name      string
	mesh      *scene.Mesh
	materials []string
	subMesh   map[string]int
	vertexMap map[faceVertex]uint32
	hasUVs    bool
	hasFaces  bool
}

type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	curMaterial string
	objects     []*wavefrontBuilder
}

// ReadWavefront parses the geometry of a wavefront object file. Only the v,
// vn, vt, f, o, g and usemtl statements are interpreted; faces with more than
// 3 vertices are fan triangulated.
func ReadWavefront(res *Resource) ([]*WavefrontObject, error) {
	r := &wavefrontReader{logger: log.New("wavefront reader")}

	r.logger.Noticef(`parsing meshes from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	var out []*WavefrontObject
	for _, b := range r.objects {
		if !b.hasFaces {
			continue
		}
		if !b.hasUVs {
			b.mesh.UVs[0] = nil
		}
		out = append(out, &WavefrontObject{Name: b.name, Mesh: b.mesh, Materials: b.materials})
	}

	r.logger.Noticef("parsed %d meshes in %d ms", len(out), time.Since(start).Nanoseconds()/1e6)
	return out, nil
}

// ReadWavefrontFile opens and parses a wavefront file.
func ReadWavefrontFile(pathToFile string) ([]*WavefrontObject, error) {
	res, err := NewResource(pathToFile, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return ReadWavefront(res)
}

// AddToScene creates one object per wavefront object under parent. Objects
// sharing a material name share the same scene material.
func AddToScene(sc *scene.Scene, parent *scene.Object, objects []*WavefrontObject) []*scene.Object {
	materials := make(map[string]*scene.Material)
	out := make([]*scene.Object, 0, len(objects))
	for _, wo := range objects {
		mats := make([]*scene.Material, len(wo.Materials))
		for i, name := range wo.Materials {
			if materials[name] == nil {
				materials[name] = scene.NewMaterial(name)
			}
			mats[i] = materials[name]
		}
		obj := sc.NewObject(wo.Name, parent)
		obj.AddRenderer(wo.Mesh, mats...)
		out = append(out, obj)
	}
	return out
}

func (r *wavefrontReader) parse(res *Resource) error {
	lineNum := 0
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			var v types.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				r.vertexList = append(r.vertexList, v)
			}
		case "vn":
			var v types.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				r.normalList = append(r.normalList, v)
			}
		case "vt":
			var v types.Vec2
			if v, err = parseVec2(lineTokens); err == nil {
				r.uvList = append(r.uvList, v)
			}
		case "o", "g":
			if len(lineTokens) < 2 {
				err = fmt.Errorf(`expected 1 argument for "%s"; got %d`, lineTokens[0], len(lineTokens)-1)
				break
			}
			r.beginObject(strings.Join(lineTokens[1:], " "))
		case "usemtl":
			if len(lineTokens) != 2 {
				err = fmt.Errorf(`expected 1 argument for "usemtl"; got %d`, len(lineTokens)-1)
				break
			}
			r.curMaterial = lineTokens[1]
		case "f":
			err = r.parseFace(lineTokens)
		default:
			// mtllib, s and friends carry no geometry.
		}

		if err != nil {
			return fmt.Errorf("%w: [%s: %d] %s", ErrMalformedWavefront, res.Path(), lineNum, err)
		}
	}
	return scanner.Err()
}

func (r *wavefrontReader) beginObject(name string) {
	// Consecutive o/g statements describe the same object.
	if n := len(r.objects); n != 0 && !r.objects[n-1].hasFaces {
		r.objects[n-1].name = name
		return
	}
	r.objects = append(r.objects, &wavefrontBuilder{
		name:      name,
		mesh:      &scene.Mesh{Name: name, Topology: scene.Triangles},
		subMesh:   make(map[string]int),
		vertexMap: make(map[faceVertex]uint32),
	})
}

func (r *wavefrontReader) current() *wavefrontBuilder {
	if len(r.objects) == 0 {
		r.beginObject("default")
	}
	return r.objects[len(r.objects)-1]
}

func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`expected at least 3 arguments for "f"; got %d`, len(lineTokens)-1)
	}

	face := make([]faceVertex, len(lineTokens)-1)
	expIndices := 0
	for arg := range face {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		fv := faceVertex{v: -1, vt: -1, vn: -1}
		var err error
		if fv.v, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList)); err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err)
		}
		if expIndices > 1 && vTokens[1] != "" {
			if fv.vt, err = selectFaceCoordIndex(vTokens[1], len(r.uvList)); err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err)
			}
		}
		if expIndices > 2 && vTokens[2] != "" {
			if fv.vn, err = selectFaceCoordIndex(vTokens[2], len(r.normalList)); err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err)
			}
		}
		face[arg] = fv
	}

	b := r.current()
	b.hasFaces = true
	smIndex, ok := b.subMesh[r.curMaterial]
	if !ok {
		smIndex = len(b.mesh.SubMeshes)
		b.subMesh[r.curMaterial] = smIndex
		b.materials = append(b.materials, r.curMaterial)
		b.mesh.SubMeshes = append(b.mesh.SubMeshes, nil)
	}

	// Vertices without an explicit normal get the normal of the first face
	// that references them.
	e01 := r.vertexList[face[1].v].Sub(r.vertexList[face[0].v])
	e02 := r.vertexList[face[2].v].Sub(r.vertexList[face[0].v])
	faceNormal := e01.Cross(e02).Normalize()

	indices := make([]uint32, len(face))
	for i, fv := range face {
		indices[i] = r.emitVertex(b, fv, faceNormal)
	}
	for i := 1; i+1 < len(indices); i++ {
		b.mesh.SubMeshes[smIndex] = append(b.mesh.SubMeshes[smIndex], indices[0], indices[i], indices[i+1])
	}
	return nil
}

func (r *wavefrontReader) emitVertex(b *wavefrontBuilder, fv faceVertex, faceNormal types.Vec3) uint32 {
	if index, ok := b.vertexMap[fv]; ok {
		return index
	}

	m := b.mesh
	index := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, r.vertexList[fv.v])
	if fv.vn >= 0 {
		m.Normals = append(m.Normals, r.normalList[fv.vn])
	} else {
		m.Normals = append(m.Normals, faceNormal)
	}
	var uv types.Vec2
	if fv.vt >= 0 {
		uv = r.uvList[fv.vt]
		b.hasUVs = true
	}
	m.UVs[0] = append(m.UVs[0], uv)
	if len(m.Vertices) > 65535 {
		m.IndexFormat = scene.UInt32
	}

	b.vertexMap[fv] = index
	return index
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Negative indices reference elements from
// the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
