package domain

// ModelType classifies a ground model.
type ModelType string

// Available model types.
const (
	ModelTypeStratigraphic   ModelType = "STRATIGRAPHIC"
	ModelTypeStructural      ModelType = "STRUCTURAL"
	ModelTypeHydrogeological ModelType = "HYDROGEOLOGICAL"
	ModelTypeGeotechnical    ModelType = "GEOTECHNICAL"
	ModelTypeEnvironmental   ModelType = "ENVIRONMENTAL"
	ModelTypeComposite       ModelType = "COMPOSITE"
)

// AllModelTypes returns every model type in schema order.
func AllModelTypes() []ModelType {
	return []ModelType{
		ModelTypeStratigraphic,
		ModelTypeStructural,
		ModelTypeHydrogeological,
		ModelTypeGeotechnical,
		ModelTypeEnvironmental,
		ModelTypeComposite,
	}
}

// IsValid returns true if the model type is recognised.
func (t ModelType) IsValid() bool {
	switch t {
	case ModelTypeStratigraphic, ModelTypeStructural, ModelTypeHydrogeological,
		ModelTypeGeotechnical, ModelTypeEnvironmental, ModelTypeComposite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ModelType) String() string {
	return string(t)
}

// Dimension is the spatial dimensionality of a model.
type Dimension string

// Available dimensions.
const (
	Dimension1D Dimension = "1D"
	Dimension2D Dimension = "2D"
	Dimension3D Dimension = "3D"
)

// AllDimensions returns every dimension in schema order.
func AllDimensions() []Dimension {
	return []Dimension{Dimension1D, Dimension2D, Dimension3D}
}

// IsValid returns true if the dimension is recognised.
func (d Dimension) IsValid() bool {
	return d == Dimension1D || d == Dimension2D || d == Dimension3D
}

// String returns the string representation.
func (d Dimension) String() string {
	return string(d)
}

// ComponentKind classifies a model component.
type ComponentKind string

// Available component kinds.
const (
	ComponentKindLayer     ComponentKind = "LAYER"
	ComponentKindLens      ComponentKind = "LENS"
	ComponentKindVolume    ComponentKind = "VOLUME"
	ComponentKindFault     ComponentKind = "FAULT"
	ComponentKindIntrusion ComponentKind = "INTRUSION"
	ComponentKindBoundary  ComponentKind = "BOUNDARY"
)

// AllComponentKinds returns every component kind in schema order.
func AllComponentKinds() []ComponentKind {
	return []ComponentKind{
		ComponentKindLayer,
		ComponentKindLens,
		ComponentKindVolume,
		ComponentKindFault,
		ComponentKindIntrusion,
		ComponentKindBoundary,
	}
}

// IsValid returns true if the component kind is recognised.
func (k ComponentKind) IsValid() bool {
	switch k {
	case ComponentKindLayer, ComponentKindLens, ComponentKindVolume,
		ComponentKindFault, ComponentKindIntrusion, ComponentKindBoundary:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ComponentKind) String() string {
	return string(k)
}

// Boundary is the declared spatial extent of a ground model.
type Boundary struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Top and Bottom are optional elevation limits.
	Top    *float64
	Bottom *float64
}

// ModelComponent is one geometric unit of a ground model.
type ModelComponent struct {
	ID   string
	Name string
	Kind ComponentKind

	// MaterialID references a Material by identifier, never by ownership.
	MaterialID string

	Geometry Geometry

	// Top and Bottom are optional elevation bounds; when both are set Top >= Bottom.
	Top    *float64
	Bottom *float64

	// Attributes holds free-form key/value pairs.
	Attributes map[string]string
}

// NewComponent creates a model component.
func NewComponent(id, name string, kind ComponentKind, materialID string, geom Geometry) *ModelComponent {
	return &ModelComponent{ID: id, Name: name, Kind: kind, MaterialID: materialID, Geometry: geom}
}

// WithElevations sets top and bottom elevation bounds.
func (c *ModelComponent) WithElevations(top, bottom float64) *ModelComponent {
	c.Top = &top
	c.Bottom = &bottom
	return c
}

// SetAttribute sets a free-form attribute.
func (c *ModelComponent) SetAttribute(key, value string) *ModelComponent {
	if c.Attributes == nil {
		c.Attributes = make(map[string]string)
	}
	c.Attributes[key] = value
	return c
}

// Thickness returns top minus bottom when both bounds are set.
func (c *ModelComponent) Thickness() (float64, bool) {
	if c.Top == nil || c.Bottom == nil {
		return 0, false
	}
	return *c.Top - *c.Bottom, true
}

// GroundModel is a typed, dimensioned container of components, owned by one Document.
type GroundModel struct {
	ID          string
	Name        string
	Description string
	Type        ModelType
	Dimension   Dimension

	// CRS is an optional coordinate reference system identifier.
	CRS string

	// Boundary is the optional declared extent.
	Boundary *Boundary

	// Materials are model-local material records.
	Materials []Material

	// Components keep insertion order.
	Components []ModelComponent
}

// NewGroundModel creates a ground model.
func NewGroundModel(id, name string, typ ModelType, dim Dimension) *GroundModel {
	return &GroundModel{ID: id, Name: name, Type: typ, Dimension: dim}
}

// WithCRS sets the coordinate reference system.
func (m *GroundModel) WithCRS(crs string) *GroundModel {
	m.CRS = crs
	return m
}

// WithDescription sets the description.
func (m *GroundModel) WithDescription(desc string) *GroundModel {
	m.Description = desc
	return m
}

// WithBoundary sets the declared extent.
func (m *GroundModel) WithBoundary(b Boundary) *GroundModel {
	m.Boundary = &b
	return m
}

// AddMaterial appends a model-local material.
func (m *GroundModel) AddMaterial(mat *Material) *GroundModel {
	m.Materials = append(m.Materials, *mat)
	return m
}

// AddComponent appends a component.
func (m *GroundModel) AddComponent(c *ModelComponent) *GroundModel {
	m.Components = append(m.Components, *c)
	return m
}

// Material returns the model-local material with id.
func (m *GroundModel) Material(id string) (*Material, bool) {
	for i := range m.Materials {
		if m.Materials[i].ID == id {
			return &m.Materials[i], true
		}
	}
	return nil, false
}

// Component returns the component with id.
func (m *GroundModel) Component(id string) (*ModelComponent, bool) {
	for i := range m.Components {
		if m.Components[i].ID == id {
			return &m.Components[i], true
		}
	}
	return nil, false
}

// ComponentsByMaterial returns the components that reference materialID.
func (m *GroundModel) ComponentsByMaterial(materialID string) []*ModelComponent {
	var out []*ModelComponent
	for i := range m.Components {
		if m.Components[i].MaterialID == materialID {
			out = append(out, &m.Components[i])
		}
	}
	return out
}
