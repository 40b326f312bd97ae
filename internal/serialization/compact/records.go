package compact

// Go mirrors of agsi.avsc. Nullable unions are pointers, enums are symbol
// strings and every array is always present.

type documentRecord struct {
	ID            string           `avro:"id"`
	Name          *string          `avro:"name"`
	Author        *string          `avro:"author"`
	Software      *string          `avro:"software"`
	FileVersion   *string          `avro:"fileVersion"`
	Comments      *string          `avro:"comments"`
	SchemaVersion versionRecord    `avro:"schemaVersion"`
	CreatedAt     *int64           `avro:"createdAt"`
	ModifiedAt    *int64           `avro:"modifiedAt"`
	Project       *projectRecord   `avro:"project"`
	Materials     []materialRecord `avro:"materials"`
	Models        []modelRecord    `avro:"models"`
}

type versionRecord struct {
	Major int `avro:"major"`
	Minor int `avro:"minor"`
	Patch int `avro:"patch"`
}

type projectRecord struct {
	ID          *string         `avro:"id"`
	Name        *string         `avro:"name"`
	Client      *string         `avro:"client"`
	Contractor  *string         `avro:"contractor"`
	Description *string         `avro:"description"`
	Location    *locationRecord `avro:"location"`
}

type locationRecord struct {
	Name        *string       `avro:"name"`
	Country     *string       `avro:"country"`
	CRS         *string       `avro:"crs"`
	Coordinates *lonLatRecord `avro:"coordinates"`
}

type lonLatRecord struct {
	Lon float64 `avro:"lon"`
	Lat float64 `avro:"lat"`
}

type materialRecord struct {
	ID          string           `avro:"id"`
	Name        string           `avro:"name"`
	Kind        *string          `avro:"kind"`
	Description *string          `avro:"description"`
	Geology     *string          `avro:"geology"`
	Properties  []propertyRecord `avro:"properties"`
}

type propertyRecord struct {
	Code    string       `avro:"code"`
	Value   *valueRecord `avro:"value"`
	Unit    *string      `avro:"unit"`
	Source  *string      `avro:"source"`
	Method  *string      `avro:"method"`
	CaseID  *string      `avro:"caseId"`
	Remarks *string      `avro:"remarks"`
}

// Value kind symbols.
const (
	valueNumeric = "NUMERIC"
	valueText    = "TEXT"
	valueRange   = "RANGE"
)

type valueRecord struct {
	Kind   string   `avro:"kind"`
	Number *float64 `avro:"number"`
	Text   *string  `avro:"text"`
	Min    *float64 `avro:"min"`
	Max    *float64 `avro:"max"`
}

type modelRecord struct {
	ID          string            `avro:"id"`
	Name        string            `avro:"name"`
	Description *string           `avro:"description"`
	Type        *string           `avro:"type"`
	Dimension   *string           `avro:"dimension"`
	CRS         *string           `avro:"crs"`
	Boundary    *boundaryRecord   `avro:"boundary"`
	Materials   []materialRecord  `avro:"materials"`
	Components  []componentRecord `avro:"components"`
}

type boundaryRecord struct {
	MinX   float64  `avro:"minX"`
	MaxX   float64  `avro:"maxX"`
	MinY   float64  `avro:"minY"`
	MaxY   float64  `avro:"maxY"`
	Top    *float64 `avro:"top"`
	Bottom *float64 `avro:"bottom"`
}

type componentRecord struct {
	ID          string            `avro:"id"`
	Name        string            `avro:"name"`
	Kind        *string           `avro:"kind"`
	MaterialRef string            `avro:"materialRef"`
	Geometry    *geometryRecord   `avro:"geometry"`
	Top         *float64          `avro:"top"`
	Bottom      *float64          `avro:"bottom"`
	Attributes  map[string]string `avro:"attributes"`
}

// geometryRecord flattens every geometry kind. Coords holds x, y, z triples;
// RingSizes holds the point count of each polygon ring, exterior first.
type geometryRecord struct {
	Kind        string    `avro:"kind"`
	CRS         *string   `avro:"crs"`
	Coords      []float64 `avro:"coords"`
	RingSizes   []int32   `avro:"ringSizes"`
	WKT         *string   `avro:"wkt"`
	WKB         *[]byte   `avro:"wkb"`
	Data        *[]byte   `avro:"data"`
	MeshFormat  *string   `avro:"meshFormat"`
	VertexCount int       `avro:"vertexCount"`
	FaceCount   int       `avro:"faceCount"`
}
