package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// TTLLayout is how long a computed layout stays cached. Layouts are a
	// pure function of diagram and config, so only disk usage bounds it.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (DOT, SVG) stay cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for layout artifacts.
type Keyer interface {
	// LayoutKey returns the key of a computed layout.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of a rendered layout. layoutHash must
	// identify the diagram text as well as the positions.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the diagram that change a layout.
type LayoutKeyOpts struct {
	ConfigHash string
	Version    string
}

// ArtifactKeyOpts are the inputs besides the layout that change a rendering.
type ArtifactKeyOpts struct {
	Format    string
	Detailed  bool
	HideLanes bool
	Scale     float64
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts.ConfigHash, opts.Version)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format, opts.Detailed, opts.HideLanes, opts.Scale)
}
