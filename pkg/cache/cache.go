// Package cache stores computed layouts and rendered artifacts.
//
// Layouts are pure functions of an edit and the layout inputs, so their
// results can be cached by content hash. The [Cache] interface has three
// implementations:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes every option that
// affects the result, so changing the viewport or the grouping criterion
// never returns a stale layout. A namespace keeps several studios apart on
// one Redis:
//
//	keyer := cache.NewNamespacedKeyer("studio-a")
//	key := keyer.LayoutKey(editHash, opts) // "studio-a:layout:<sha256>"
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for cached pipeline stages.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey identifies a layout of the edit with the given content hash.
	LayoutKey(editHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input that changes a computed layout.
type LayoutKeyOpts struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Left          float64 `json:"left,omitempty"`
	Right         float64 `json:"right,omitempty"`
	Header        float64 `json:"header,omitempty"`
	Overlap       bool    `json:"overlap,omitempty"`
	Grouped       bool    `json:"grouped,omitempty"`
	GroupBy       string  `json:"group_by,omitempty"`
	Unassigned    bool    `json:"unassigned,omitempty"`
	Aspect        float64 `json:"aspect"`
	SpacingW      float64 `json:"spacing_w"`
	SpacingH      float64 `json:"spacing_h"`
	MinMargin     float64 `json:"min_margin"`
	MinArea       float64 `json:"min_area"`
	HeaderHeight  float64 `json:"header_height,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
}

// ArtifactKeyOpts holds every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Overlay    string  `json:"overlay,omitempty"`
	Item       int     `json:"item,omitempty"`
	Captions   bool    `json:"captions,omitempty"`
	Thumbs     bool    `json:"thumbs,omitempty"`
	ThumbDir   string  `json:"thumb_dir,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Selected   int     `json:"selected,omitempty"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer derives keys from content hashes. Keys have the form
// "[namespace:]stage:sha256".
type DefaultKeyer struct {
	Namespace string
}

// NewDefaultKeyer creates a keyer without a namespace.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// NewNamespacedKeyer creates a keyer whose keys start with namespace.
func NewNamespacedKeyer(namespace string) Keyer {
	return &DefaultKeyer{Namespace: namespace}
}

// LayoutKey hashes the edit hash together with the layout options.
func (k *DefaultKeyer) LayoutKey(editHash string, opts LayoutKeyOpts) string {
	return k.key("layout", editHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.key("artifact", layoutHash, opts)
}

func (k *DefaultKeyer) key(stage, base string, opts any) string {
	data, _ := json.Marshal([]any{base, opts})
	key := stage + ":" + Hash(data)
	if k.Namespace != "" {
		key = k.Namespace + ":" + key
	}
	return key
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Keyer = (*DefaultKeyer)(nil)
