package places

// DataType distinguishes the import pipelines a source file belongs to.
type DataType string

// String returns the string representation of a data type.
func (d DataType) String() string {
	return string(d)
}

// Known data types.
const (
	// DataTypeArchitecture marks records from the architecture import.
	DataTypeArchitecture DataType = "architecture"

	// DataTypeCemetery marks records from the cemetery import.
	DataTypeCemetery DataType = "cemetery"

	// DataTypePlace marks records from the scraped-place import.
	DataTypePlace DataType = "place"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// RecordProvenance records where a source observation came from.
type RecordProvenance struct {
	SourceFile string   `json:"source_file" yaml:"source_file"`
	DataType   DataType `json:"data_type" yaml:"data_type"`
}

// SourceRecord is one normalized observation of a place from one source
// item. It is immutable once constructed; the registry copies its
// collections into the merged record rather than aliasing them.
type SourceRecord struct {
	IdentityKey string       `json:"identity_key" yaml:"identity_key"`
	Name        string       `json:"name" yaml:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`

	Cities     []string `json:"cities,omitempty" yaml:"cities,omitempty"`
	Architects []string `json:"architects,omitempty" yaml:"architects,omitempty"`
	Styles     []string `json:"styles,omitempty" yaml:"styles,omitempty"`
	Images     []string `json:"images,omitempty" yaml:"images,omitempty"`

	// CelebrityCounts maps a facet name (artist, writer, musician,
	// scientist, total) to a count. Cemetery records only.
	CelebrityCounts map[string]int `json:"celebrity_counts,omitempty" yaml:"celebrity_counts,omitempty"`

	SourceURLs map[string][]string `json:"source_urls,omitempty" yaml:"source_urls,omitempty"`

	Provenance RecordProvenance `json:"provenance" yaml:"provenance"`
}

// MergedRecord is the union of all SourceRecords sharing an identity key
// within one import run. Collections are set-unions in first-seen order;
// scalars keep the first registered value; celebrity counts keep the
// per-facet maximum.
type MergedRecord struct {
	IdentityKey string
	Name        string
	Coordinates *Coordinates
	SourceFile  string
	DataType    DataType

	Cities     []string
	Architects []string
	Styles     []string
	Images     []string

	CelebrityCounts map[string]int
	SourceURLs      map[string][]string

	// Observations counts how many source records contributed.
	Observations int
}
