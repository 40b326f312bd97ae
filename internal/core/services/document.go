package services

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService builds, loads, saves, converts and inspects documents.
type DocumentService struct {
	codecs driven.CodecRegistry
	files  driven.FileStore
	now    func() time.Time
}

// NewDocumentService creates a new document service.
// files may be nil when Load and Save are not used.
func NewDocumentService(codecs driven.CodecRegistry, files driven.FileStore) *DocumentService {
	return &DocumentService{
		codecs: codecs,
		files:  files,
		now:    time.Now,
	}
}

// Create builds a new document stamped with the current time.
func (s *DocumentService) Create(opts driving.CreateOptions) *domain.Document {
	id := opts.ID
	if id == "" {
		id = "DOC-" + uuid.NewString()
	}
	software := opts.Software
	if software == "" {
		software = domain.DefaultSoftware
	}
	now := s.now()

	doc := domain.NewDocument(id).
		WithName(opts.Name).
		WithAuthor(opts.Author).
		WithSoftware(software).
		WithTimestamps(now, now)
	if opts.Project != nil {
		doc.WithProject(opts.Project)
	}
	logger.Debug("created document %s", doc.ID)
	return doc
}

// Decode parses data in an explicit format.
func (s *DocumentService) Decode(data []byte, format domain.OutputFormat) (*domain.Document, error) {
	c, err := s.codecs.Codec(format)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// Encode serializes doc in an explicit format.
func (s *DocumentService) Encode(doc *domain.Document, format domain.OutputFormat) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	c, err := s.codecs.Codec(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(doc)
}

// Load reads and decodes a file.
func (s *DocumentService) Load(ctx context.Context, path string, format domain.OutputFormat) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.files == nil {
		return nil, fmt.Errorf("%w: no file store", domain.ErrInvalidInput)
	}

	start := time.Now()
	data, err := s.files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := s.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded %s as %s (%d bytes, %v)", path, format, len(data), time.Since(start))
	return doc, nil
}

// Save encodes and writes a file.
func (s *DocumentService) Save(ctx context.Context, doc *domain.Document, path string, format domain.OutputFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.files == nil {
		return fmt.Errorf("%w: no file store", domain.ErrInvalidInput)
	}

	data, err := s.Encode(doc, format)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := s.files.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug("saved %s as %s (%d bytes)", path, format, len(data))
	return nil
}

// Convert re-encodes data through the in-memory document.
func (s *DocumentService) Convert(data []byte, from, to domain.OutputFormat) ([]byte, error) {
	doc, err := s.Decode(data, from)
	if err != nil {
		return nil, err
	}
	out, err := s.Encode(doc, to)
	if err != nil {
		return nil, err
	}
	logger.Debug("converted %s (%d bytes) to %s (%d bytes)", from, len(data), to, len(out))
	return out, nil
}

// ExtractMaterials projects the materials in scope of modelID.
func (s *DocumentService) ExtractMaterials(doc *domain.Document, modelID string) ([]*domain.Material, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	return doc.ExtractMaterials(modelID)
}

// QueryMaterials filters extracted materials.
func (s *DocumentService) QueryMaterials(doc *domain.Document, q driving.MaterialQuery) ([]*domain.Material, error) {
	materials, err := s.ExtractMaterials(doc, q.ModelID)
	if err != nil {
		return nil, err
	}

	var code domain.ParameterCode
	if q.Parameter != "" {
		code = domain.ParameterCodeOf(q.Parameter)
	}
	needle := strings.ToLower(strings.TrimSpace(q.NameContains))

	var out []*domain.Material
	for _, m := range materials {
		if q.Kind != "" && m.Kind != q.Kind {
			continue
		}
		if !code.IsZero() && !m.HasParameter(code) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(m.Name), needle) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Info summarises document metadata.
func (s *DocumentService) Info(doc *domain.Document) driving.DocumentInfo {
	info := driving.DocumentInfo{
		ID:            doc.ID,
		Name:          doc.Name,
		Author:        doc.Author,
		Software:      doc.Software,
		FileVersion:   doc.FileVersion,
		SchemaVersion: doc.SchemaVersion.String(),
		CreatedAt:     doc.CreatedAt,
		ModifiedAt:    doc.ModifiedAt,
	}
	if doc.Project != nil {
		info.ProjectName = doc.Project.Name
		info.Client = doc.Project.Client
	}
	for _, m := range doc.Models {
		info.ModelIDs = append(info.ModelIDs, m.ID)
	}
	return info
}

// Stats counts entities by kind. Materials count every definition in the
// document and its models.
func (s *DocumentService) Stats(doc *domain.Document) driving.DocumentStats {
	st := driving.DocumentStats{
		Models:                len(doc.Models),
		MaterialsByKind:       make(map[domain.MaterialKind]int),
		ComponentsByKind:      make(map[domain.ComponentKind]int),
		GeometryByKind:        make(map[domain.GeometryKind]int),
		PropertiesPerMaterial: make(map[string]int),
	}
	count := func(m *domain.Material) {
		st.Materials++
		st.Properties += len(m.Properties)
		st.MaterialsByKind[m.Kind]++
		st.PropertiesPerMaterial[m.ID] += len(m.Properties)
	}
	for i := range doc.Materials {
		count(&doc.Materials[i])
	}
	for i := range doc.Models {
		m := &doc.Models[i]
		for j := range m.Materials {
			count(&m.Materials[j])
		}
		for _, c := range m.Components {
			st.Components++
			st.ComponentsByKind[c.Kind]++
			if c.Geometry != nil {
				st.GeometryByKind[c.Geometry.Kind()]++
			}
		}
	}
	return st
}

// Diff reports structural differences. Documents whose canonical text
// encodings are byte-identical are reported as identical without a walk.
func (s *DocumentService) Diff(a, b *domain.Document) (*driving.DiffReport, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	ta, err := s.Encode(a, domain.OutputFormatText)
	if err != nil {
		return nil, fmt.Errorf("encode first document: %w", err)
	}
	tb, err := s.Encode(b, domain.OutputFormatText)
	if err != nil {
		return nil, fmt.Errorf("encode second document: %w", err)
	}
	if bytes.Equal(ta, tb) {
		return &driving.DiffReport{Identical: true}, nil
	}

	d := &differ{}
	d.document(a, b)
	return &driving.DiffReport{Changes: d.changes}, nil
}

// differ collects changes between two documents, keyed by identifier.
type differ struct {
	changes []driving.Change
}

func (d *differ) field(path, name, before, after string) {
	if before != after {
		d.changes = append(d.changes, driving.Change{
			Type: driving.ChangeModified, Path: path, Field: name, Old: before, New: after,
		})
	}
}

func (d *differ) added(path string) {
	d.changes = append(d.changes, driving.Change{Type: driving.ChangeAdded, Path: path})
}

func (d *differ) removed(path string) {
	d.changes = append(d.changes, driving.Change{Type: driving.ChangeRemoved, Path: path})
}

func (d *differ) document(a, b *domain.Document) {
	d.field("document", "id", a.ID, b.ID)
	d.field("document", "name", a.Name, b.Name)
	d.field("document", "author", a.Author, b.Author)
	d.field("document", "software", a.Software, b.Software)
	d.field("document", "fileVersion", a.FileVersion, b.FileVersion)
	d.field("document", "comments", a.Comments, b.Comments)
	d.field("document", "schemaVersion", a.SchemaVersion.String(), b.SchemaVersion.String())
	d.field("document", "createdAt", timeString(a.CreatedAt), timeString(b.CreatedAt))
	d.field("document", "modifiedAt", timeString(a.ModifiedAt), timeString(b.ModifiedAt))
	d.project(a.Project, b.Project)
	d.materials("materials", a.Materials, b.Materials)

	byID(d, "models", a.Models, b.Models,
		func(m domain.GroundModel) string { return m.ID },
		func(path string, x, y domain.GroundModel) { d.model(path, &x, &y) })
}

func (d *differ) project(a, b *domain.Project) {
	switch {
	case a == nil && b == nil:
		return
	case a == nil:
		d.added("project")
		return
	case b == nil:
		d.removed("project")
		return
	}
	d.field("project", "id", a.ID, b.ID)
	d.field("project", "name", a.Name, b.Name)
	d.field("project", "client", a.Client, b.Client)
	d.field("project", "contractor", a.Contractor, b.Contractor)
	d.field("project", "description", a.Description, b.Description)
	if !reflect.DeepEqual(a.Location, b.Location) {
		d.field("project", "location", locationString(a.Location), locationString(b.Location))
	}
}

func (d *differ) materials(prefix string, a, b []domain.Material) {
	byID(d, prefix, a, b,
		func(m domain.Material) string { return m.ID },
		func(path string, x, y domain.Material) {
			d.field(path, "name", x.Name, y.Name)
			d.field(path, "kind", string(x.Kind), string(y.Kind))
			d.field(path, "description", x.Description, y.Description)
			d.field(path, "geology", x.Geology, y.Geology)
			d.field(path, "properties", propertiesString(x.Properties), propertiesString(y.Properties))
		})
}

func (d *differ) model(path string, a, b *domain.GroundModel) {
	d.field(path, "name", a.Name, b.Name)
	d.field(path, "description", a.Description, b.Description)
	d.field(path, "type", string(a.Type), string(b.Type))
	d.field(path, "dimension", string(a.Dimension), string(b.Dimension))
	d.field(path, "crs", a.CRS, b.CRS)
	d.field(path, "boundary", boundaryString(a.Boundary), boundaryString(b.Boundary))
	d.materials(path+".materials", a.Materials, b.Materials)

	byID(d, path+".components", a.Components, b.Components,
		func(c domain.ModelComponent) string { return c.ID },
		func(cpath string, x, y domain.ModelComponent) {
			d.field(cpath, "name", x.Name, y.Name)
			d.field(cpath, "kind", string(x.Kind), string(y.Kind))
			d.field(cpath, "materialRef", x.MaterialID, y.MaterialID)
			d.field(cpath, "top", floatString(x.Top), floatString(y.Top))
			d.field(cpath, "bottom", floatString(x.Bottom), floatString(y.Bottom))
			d.field(cpath, "attributes", attributesString(x.Attributes), attributesString(y.Attributes))
			if !reflect.DeepEqual(x.Geometry, y.Geometry) {
				d.changes = append(d.changes, driving.Change{
					Type: driving.ChangeModified, Path: cpath, Field: "geometry",
					Old: geometryString(x.Geometry), New: geometryString(y.Geometry),
				})
			}
		})
}

// byID pairs entries of a and b by identifier. Paths read "prefix[ID]".
func byID[T any](d *differ, prefix string, a, b []T, id func(T) string, same func(path string, x, y T)) {
	inB := make(map[string]T, len(b))
	for _, y := range b {
		inB[id(y)] = y
	}
	inA := make(map[string]bool, len(a))
	for _, x := range a {
		key := id(x)
		inA[key] = true
		path := prefix + "[" + key + "]"
		y, ok := inB[key]
		if !ok {
			d.removed(path)
			continue
		}
		same(path, x, y)
	}
	for _, y := range b {
		if !inA[id(y)] {
			d.added(prefix + "[" + id(y) + "]")
		}
	}
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

func locationString(l *domain.Location) string {
	if l == nil {
		return ""
	}
	s := strings.TrimSpace(l.Name + " " + l.Country + " " + l.CRS)
	if l.Coordinates != nil {
		s += fmt.Sprintf(" (%g, %g)", l.Coordinates.Lon, l.Coordinates.Lat)
	}
	return s
}

func boundaryString(b *domain.Boundary) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("x %g..%g y %g..%g z %s..%s",
		b.MinX, b.MaxX, b.MinY, b.MaxY, floatString(b.Bottom), floatString(b.Top))
}

func propertiesString(ps []domain.Property) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		v := ""
		if p.Value != nil {
			v = p.Value.String()
		}
		s := p.Code.String() + "=" + v
		if u := p.EffectiveUnit(); u != "" {
			s += " " + u
		}
		if p.CaseID != "" {
			s += " [" + p.CaseID + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

func attributesString(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ", ")
}

func geometryString(g domain.Geometry) string {
	if g == nil {
		return ""
	}
	return fmt.Sprintf("%s with %d coordinate(s)", g.Kind(), domain.CoordCount(g))
}
