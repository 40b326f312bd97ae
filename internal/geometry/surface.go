package geometry

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// meshBounds gives the plausible encoded size range of one mesh element.
type meshBounds struct {
	// minVertex and minFace are the smallest encodings of one element.
	minVertex int
	minFace   int

	// maxElement caps one vertex or face; zero disables the upper check.
	maxElement int

	// slack allows headers, comments and normals beyond the elements.
	slack int
}

// meshFormats holds the size heuristics per mesh format tag.
// OBJ lines are at least "v 0 0 0\n" and "f 1 2 3\n".
var meshFormats = map[string]meshBounds{
	"obj": {minVertex: 8, minFace: 8, maxElement: 256, slack: 64 * 1024},
	"ply": {minVertex: 6, minFace: 7, maxElement: 256, slack: 4 * 1024},
	"stl": {minVertex: 0, minFace: 50, maxElement: 512, slack: 84},
	"off": {minVertex: 6, minFace: 8, maxElement: 256, slack: 1024},
}

// genericMesh applies to unknown formats: one byte per element, no upper bound.
var genericMesh = meshBounds{minVertex: 1, minFace: 1}

// CheckSurface compares the payload size of s with its declared vertex and
// face counts. It fails only on gross mismatch and never parses the mesh.
func CheckSurface(s *domain.Surface) error {
	if s == nil {
		return domain.ErrEmptyGeometry
	}
	return CheckPayload(s.Data, s.MeshFormat, s.VertexCount, s.FaceCount)
}

// CheckPayload is CheckSurface on raw parts.
func CheckPayload(data []byte, meshFormat string, vertexCount, faceCount int) error {
	if vertexCount < 0 || faceCount < 0 {
		return fmt.Errorf("%w: negative counts (vertices %d, faces %d)",
			domain.ErrGeometryPayloadSizeMismatch, vertexCount, faceCount)
	}
	b, ok := meshFormats[strings.ToLower(meshFormat)]
	if !ok {
		b = genericMesh
	}

	size := len(data)
	elements := vertexCount + faceCount
	if elements == 0 {
		return nil
	}
	if size == 0 {
		return fmt.Errorf("%w: empty payload declares %d vertices and %d faces",
			domain.ErrGeometryPayloadSizeMismatch, vertexCount, faceCount)
	}

	minSize := vertexCount*b.minVertex + faceCount*b.minFace
	if size < minSize {
		return fmt.Errorf("%w: %d bytes is below the %d bytes needed for %d vertices and %d faces",
			domain.ErrGeometryPayloadSizeMismatch, size, minSize, vertexCount, faceCount)
	}
	if b.maxElement > 0 {
		maxSize := elements*b.maxElement + b.slack
		if size > maxSize {
			return fmt.Errorf("%w: %d bytes exceeds the %d bytes expected for %d vertices and %d faces",
				domain.ErrGeometryPayloadSizeMismatch, size, maxSize, vertexCount, faceCount)
		}
	}
	return nil
}

// DecodeSurface wraps a mesh payload as a surface after checking its size.
// An empty meshFormat means the default format.
func DecodeSurface(data []byte, meshFormat string, vertexCount, faceCount int) (*domain.Surface, error) {
	if meshFormat == "" {
		meshFormat = domain.DefaultMeshFormat
	}
	if err := CheckPayload(data, meshFormat, vertexCount, faceCount); err != nil {
		return nil, err
	}
	return &domain.Surface{
		Data:        append([]byte(nil), data...),
		MeshFormat:  meshFormat,
		VertexCount: vertexCount,
		FaceCount:   faceCount,
	}, nil
}
