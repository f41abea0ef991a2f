package cache

// Key types reported to observability hooks.
const (
	KeyTypeContraction = "contraction"
	KeyTypeRender      = "render"
)

// Keyer builds cache keys.
type Keyer interface {
	// ContractionKey identifies a contraction of the graph with the given
	// content hash.
	ContractionKey(graphHash string, opts ContractionKeyOpts) string

	// RenderKey identifies a rendering of a contraction result.
	RenderKey(mappingHash string, opts RenderKeyOpts) string
}

// ContractionKeyOpts holds the options that change a contraction result.
type ContractionKeyOpts struct {
	Iterations int  `json:"iterations"`
	Levels     bool `json:"levels"`
}

// RenderKeyOpts holds the options that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ContractionKey returns "contraction:<sha256>".
func (DefaultKeyer) ContractionKey(graphHash string, opts ContractionKeyOpts) string {
	return hashKey(KeyTypeContraction, graphHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(mappingHash string, opts RenderKeyOpts) string {
	return hashKey(KeyTypeRender, mappingHash, opts)
}

var _ Keyer = DefaultKeyer{}
